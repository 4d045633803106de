package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// OrderService executes order placement as a single atomic unit and
// manages status transitions.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, items []OrderItemInput) (*model.Order, error)
	SetStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
	Get(ctx context.Context, requester *model.User, orderID uint) (*model.Order, error)
	List(ctx context.Context, requester *model.User) ([]model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cache     *cache.Client
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, cache *cache.Client) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cache:     cache,
	}
}

// PlaceOrder validates and persists an order with its items inside one
// transaction. Any failing item rolls back the order, every item, and
// every stock decrement.
func (s *orderService) PlaceOrder(ctx context.Context, userID uint, items []OrderItemInput) (*model.Order, error) {
	if len(items) == 0 {
		return nil, errors.ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.ErrInvalidQuantity
		}
	}

	var orderID uint
	err := s.orderRepo.WithTransaction(ctx, func(ctx context.Context, orders repository.OrderRepository, products repository.ProductRepository) error {
		order := &model.Order{
			UserID:      userID,
			Status:      model.OrderStatusPending,
			TotalAmount: decimal.Zero,
		}
		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		total := decimal.Zero
		for _, item := range items {
			product, err := products.FindByID(ctx, item.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return errors.ErrProductNotFound
				}
				return fmt.Errorf("find product %d: %w", item.ProductID, err)
			}

			// Guarded decrement; zero rows means another order took the
			// stock between the read above and now, or there was never
			// enough.
			rows, err := products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
			}
			if rows == 0 {
				return errors.ErrInsufficientStock
			}

			orderItem := &model.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}
			if err := orders.CreateItem(ctx, orderItem); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		if err := orders.UpdateTotal(ctx, order.ID, total); err != nil {
			return fmt.Errorf("update order total: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stock changed; drop stale product cache entries.
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, productCacheKey(item.ProductID))
	}
	_ = s.cache.Delete(ctx, keys...)

	return s.orderRepo.FindByID(ctx, orderID)
}

// SetStatus transitions a pending order to one of the defined statuses.
func (s *orderService) SetStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status != model.OrderStatusPending && order.Status != status {
		return nil, errors.ErrOrderNotPending
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = status
	return order, nil
}

// Get returns an order visible to the requester: owners see their own
// orders, admins see any.
func (s *orderService) Get(ctx context.Context, requester *model.User, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != requester.ID && !requester.IsAdmin() {
		return nil, errors.ErrForbidden
	}
	return order, nil
}

// List returns the requester's orders; admins see all orders.
func (s *orderService) List(ctx context.Context, requester *model.User) ([]model.Order, error) {
	if requester.IsAdmin() {
		return s.orderRepo.ListAll(ctx)
	}
	return s.orderRepo.ListByUser(ctx, requester.ID)
}
