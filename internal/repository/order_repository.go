package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// OrderRepository defines order persistence operations. WithTransaction
// hands the callback transaction-scoped order and product repositories so
// order creation, item inserts, and stock decrements commit or roll back
// as one unit.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItem(ctx context.Context, item *model.OrderItem) error
	UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, orders OrderRepository, products ProductRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateItem creates a new order item.
func (r *orderRepository) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateTotal writes the computed total onto the order.
func (r *orderRepository) UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("total_amount", total).Error
}

// UpdateStatus updates the order status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// FindByID finds an order by ID with its items.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser lists a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll lists every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// WithTransaction executes fn within a database transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, orders OrderRepository, products ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &orderRepository{db: tx}, &productRepository{db: tx})
	})
}
