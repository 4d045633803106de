package main

import (
	"context"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/model"
	"storefront/internal/repository"
)

type seedProduct struct {
	name        string
	description string
	price       string
	stock       int
	imageURL    string
	category    string
}

var seedCategories = []model.Category{
	{Name: "Electronics", Description: "Latest gadgets and electronic devices", ImageURL: "https://images.unsplash.com/photo-1498049794561-7780e7231661?w=500"},
	{Name: "Home & Kitchen", Description: "Essential appliances for your home", ImageURL: "https://images.unsplash.com/photo-1556911220-bff31c812dba?w=500"},
	{Name: "Fashion", Description: "Trendy clothing and accessories", ImageURL: "https://images.unsplash.com/photo-1445205170230-053b83016050?w=500"},
	{Name: "Books", Description: "Best-selling books across genres", ImageURL: "https://images.unsplash.com/photo-1524995997946-a1c2e315a42f?w=500"},
}

var seedProducts = []seedProduct{
	{"Wireless Earbuds", "High-quality wireless earbuds with noise cancellation", "129.99", 1, "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=500", "Electronics"},
	{"Smart Watch", "Feature-rich smartwatch with health tracking", "199.99", 30, "https://images.unsplash.com/photo-1544117519-31a4b719223d?w=500", "Electronics"},
	{"Coffee Maker", "Programmable coffee maker with thermal carafe", "79.99", 25, "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=500", "Home & Kitchen"},
	{"Air Fryer", "Digital air fryer with multiple cooking presets", "119.99", 40, "https://images.unsplash.com/photo-1648923574184-3ba7b91c6f8b?w=500", "Home & Kitchen"},
	{"Classic Leather Watch", "Elegant leather strap watch with minimalist design", "89.99", 35, "https://images.unsplash.com/photo-1524592094714-0f0654e20314?w=500", "Fashion"},
	{"Sunglasses", "UV protection sunglasses with polarized lenses", "59.99", 45, "https://images.unsplash.com/photo-1511499767150-a48a237f0083?w=500", "Fashion"},
	{"The Art of Programming", "Comprehensive guide to modern programming practices", "49.99", 60, "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?w=500", "Books"},
	{"Cooking Masterclass", "Step-by-step guide to becoming a better cook", "34.99", 55, "https://images.unsplash.com/photo-1589998059171-988d887df646?w=500", "Books"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	if err := seedUsers(ctx, gormDB); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if err := seedCatalog(ctx, gormDB); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Println("Sample data has been added successfully!")
}

func seedUsers(ctx context.Context, gormDB *gorm.DB) error {
	userRepo := repository.NewUserRepository(gormDB)

	users := []struct {
		name, email, password string
		role                  model.Role
	}{
		{"Admin", "admin@example.com", getEnv("SEED_ADMIN_PASSWORD", "admin1234"), model.RoleAdmin},
		{"Demo User", "demo@example.com", getEnv("SEED_USER_PASSWORD", "demo12345"), model.RoleRegular},
	}

	for _, u := range users {
		if existing, err := userRepo.FindByEmail(ctx, u.email); err == nil && existing != nil {
			log.Printf("User %s already exists, skipping", u.email)
			continue
		}
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		if err := userRepo.Create(ctx, &model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
		}); err != nil {
			return err
		}
		log.Printf("Created user %s (%s)", u.email, u.role)
	}
	return nil
}

func seedCatalog(ctx context.Context, gormDB *gorm.DB) error {
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	categoryIDs := make(map[string]uint)
	for _, c := range seedCategories {
		existing, err := categoryRepo.FindByName(ctx, c.Name)
		if err == nil && existing != nil {
			categoryIDs[c.Name] = existing.ID
			log.Printf("Category %q already exists, skipping", c.Name)
			continue
		}
		category := c
		if err := categoryRepo.Create(ctx, &category); err != nil {
			return err
		}
		categoryIDs[category.Name] = category.ID
		log.Printf("Created category %q", category.Name)
	}

	for _, p := range seedProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return err
		}
		if err := productRepo.Create(ctx, &model.Product{
			Name:        p.name,
			Description: p.description,
			Price:       price,
			Stock:       p.stock,
			ImageURL:    p.imageURL,
			CategoryID:  categoryIDs[p.category],
		}); err != nil {
			return err
		}
		log.Printf("Created product %q", p.name)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
