package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/model"
)

func TestOrderRepository_WithTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when the callback succeeds", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		repo := NewOrderRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `orders` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE `products` SET `stock`=stock - \\?").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.WithTransaction(ctx, func(ctx context.Context, orders OrderRepository, products ProductRepository) error {
			if err := orders.UpdateStatus(ctx, 1, model.OrderStatusCompleted); err != nil {
				return err
			}
			_, err := products.DecrementStock(ctx, 2, 1)
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the callback fails", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		repo := NewOrderRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `orders` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		failure := errors.New("stock ran out")
		err := repo.WithTransaction(ctx, func(ctx context.Context, orders OrderRepository, products ProductRepository) error {
			if err := orders.UpdateStatus(ctx, 1, model.OrderStatusCompleted); err != nil {
				return err
			}
			return failure
		})
		assert.ErrorIs(t, err, failure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	ctx := context.Background()
	gormDB, mock := newMockDB(t)
	repo := NewOrderRepository(gormDB)

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
