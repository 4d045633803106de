package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/errors"
	"storefront/internal/model"
)

func validProductInput() ProductInput {
	return ProductInput{
		Name:       "Coffee Maker",
		Price:      price("79.99"),
		Stock:      25,
		CategoryID: 2,
	}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		categories.On("FindByID", ctx, uint(2)).Return(&model.Category{ID: 2}, nil)
		products.On("Create", ctx, mock.AnythingOfType("*model.Product")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.Product).ID = 11
			}).
			Return(nil)
		products.On("FindByID", ctx, uint(11)).
			Return(&model.Product{ID: 11, Name: "Coffee Maker", Price: price("79.99"), Stock: 25, CategoryID: 2}, nil)
		svc := NewProductService(products, categories, nil)

		product, err := svc.Create(ctx, validProductInput())
		require.NoError(t, err)
		assert.Equal(t, uint(11), product.ID)
		products.AssertExpectations(t)
	})

	t.Run("non-positive price", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), new(MockCategoryRepository), nil)

		input := validProductInput()
		input.Price = price("0")
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, errors.ErrInvalidPrice)

		input.Price = price("-1.50")
		_, err = svc.Create(ctx, input)
		assert.ErrorIs(t, err, errors.ErrInvalidPrice)
	})

	t.Run("negative stock", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), new(MockCategoryRepository), nil)

		input := validProductInput()
		input.Stock = -1
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, errors.ErrInvalidStock)
	})

	t.Run("unknown category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("FindByID", ctx, uint(2)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewProductService(new(MockProductRepository), categories, nil)

		_, err := svc.Create(ctx, validProductInput())
		assert.ErrorIs(t, err, errors.ErrInvalidCategory)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		products := new(MockProductRepository)
		products.On("FindByID", ctx, uint(9)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewProductService(products, new(MockCategoryRepository), nil)

		_, err := svc.Update(ctx, 9, validProductInput())
		assert.ErrorIs(t, err, errors.ErrProductNotFound)
	})

	t.Run("success", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		products.On("FindByID", ctx, uint(11)).
			Return(&model.Product{ID: 11, Name: "Coffee Maker", Price: price("79.99"), Stock: 25, CategoryID: 2}, nil)
		categories.On("FindByID", ctx, uint(2)).Return(&model.Category{ID: 2}, nil)
		products.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.ID == 11 && p.Price.Equal(price("69.99")) && p.Stock == 30
		})).Return(nil)
		svc := NewProductService(products, categories, nil)

		input := validProductInput()
		input.Price = price("69.99")
		input.Stock = 30
		product, err := svc.Update(ctx, 11, input)
		require.NoError(t, err)
		assert.True(t, product.Price.Equal(price("69.99")))
		products.AssertExpectations(t)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		products := new(MockProductRepository)
		products.On("FindByID", ctx, uint(9)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewProductService(products, new(MockCategoryRepository), nil)

		assert.ErrorIs(t, svc.Delete(ctx, 9), errors.ErrProductNotFound)
	})

	t.Run("success", func(t *testing.T) {
		products := new(MockProductRepository)
		products.On("FindByID", ctx, uint(11)).Return(&model.Product{ID: 11}, nil)
		products.On("Delete", ctx, uint(11)).Return(nil)
		svc := NewProductService(products, new(MockCategoryRepository), nil)

		require.NoError(t, svc.Delete(ctx, 11))
		products.AssertExpectations(t)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("all products", func(t *testing.T) {
		products := new(MockProductRepository)
		products.On("List", ctx, (*uint)(nil)).Return([]model.Product{{ID: 1}, {ID: 2}}, nil)
		svc := NewProductService(products, new(MockCategoryRepository), nil)

		result, err := svc.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("filtered by category", func(t *testing.T) {
		categoryID := uint(2)
		products := new(MockProductRepository)
		products.On("List", ctx, &categoryID).Return([]model.Product{{ID: 1, CategoryID: 2}}, nil)
		svc := NewProductService(products, new(MockCategoryRepository), nil)

		result, err := svc.List(ctx, &categoryID)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})
}
