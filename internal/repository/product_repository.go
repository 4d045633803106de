package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, categoryID *uint) ([]model.Product, error)
	DecrementStock(ctx context.Context, id uint, quantity int) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update updates an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft-deletes a product. Historical order items keep their product
// reference and price snapshot.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

// FindByID finds a product by ID with its category.
func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List lists products, optionally filtered by category.
func (r *productRepository) List(ctx context.Context, categoryID *uint) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Preload("Category").Order("id")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock subtracts quantity from stock as a single guarded update.
// Zero rows affected means the product is missing or the remaining stock
// is below quantity; concurrent orders on the same product serialize on
// this statement, so two orders can never both take the last unit.
func (r *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	return res.RowsAffected, res.Error
}
