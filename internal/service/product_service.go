package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// ProductInput carries product fields for create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	CategoryID  uint
}

// ProductService handles product CRUD. Stock is only ever written here at
// create/update time; decrements belong to the order workflow.
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, categoryID *uint) ([]model.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, cache *cache.Client) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *productService) validate(ctx context.Context, input ProductInput) error {
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidPrice
	}
	if input.Stock < 0 {
		return errors.ErrInvalidStock
	}
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrInvalidCategory
		}
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}

// Create creates a product. The referenced category must exist.
func (s *productService) Create(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return s.productRepo.FindByID(ctx, product.ID)
}

// Update updates an existing product.
func (s *productService) Update(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = input.ImageURL
	product.CategoryID = input.CategoryID
	product.Category = nil
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	_ = s.cache.Delete(ctx, productCacheKey(id))
	return s.productRepo.FindByID(ctx, id)
}

// Delete soft-deletes a product. Historical order items keep their price
// snapshot and product reference.
func (s *productService) Delete(ctx context.Context, id uint) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	_ = s.cache.Delete(ctx, productCacheKey(id))
	return nil
}

// Get returns a product, served from cache when possible.
func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	key := productCacheKey(id)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var product model.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, key, data, catalogCacheTTL)
	}
	return product, nil
}

// List lists products, optionally filtered by category.
func (s *productService) List(ctx context.Context, categoryID *uint) ([]model.Product, error) {
	return s.productRepo.List(ctx, categoryID)
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}
