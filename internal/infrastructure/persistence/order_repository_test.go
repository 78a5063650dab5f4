package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormOrderRepository(gormDB), mock, mockDB
}

func orderRows(id uuid.UUID, trackingNumber string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "tracking_number", "user_id", "order_status", "payment_status", "subtotal", "total"}).
		AddRow(id, trackingNumber, uuid.New(), "pending", "pending", decimal.NewFromFloat(159.98), decimal.NewFromFloat(172.78))
}

func TestGormOrderRepository_FindByTrackingNumber(t *testing.T) {
	t.Run("finds order with items", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE tracking_number = \$1`).
			WithArgs("TRK202601021234", 1).
			WillReturnRows(orderRows(orderID, "TRK202601021234"))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "price", "quantity"}).
				AddRow(uuid.New(), orderID, uuid.New(), "Wireless Headphones", decimal.NewFromFloat(79.99), 2))

		o, err := repo.FindByTrackingNumber(context.Background(), "TRK202601021234")
		require.NoError(t, err)
		assert.Equal(t, "TRK202601021234", o.TrackingNumber)
		require.Len(t, o.Items, 1)
		assert.Equal(t, 2, o.Items[0].Quantity)
	})

	t.Run("returns not found for unknown tracking number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE tracking_number = \$1`).
			WithArgs("TRK000000000000", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByTrackingNumber(context.Background(), "TRK000000000000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_FindByUser(t *testing.T) {
	t.Run("orders newest first", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE user_id = \$1 ORDER BY created_at DESC`).
			WithArgs(userID).
			WillReturnRows(orderRows(orderID, "TRK202601021234"))
		mock.ExpectQuery(`SELECT \* FROM "order_items"`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

		orders, err := repo.FindByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestGormOrderRepository_CountByStatus(t *testing.T) {
	t.Run("groups by fulfillment status", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT order_status AS status, COUNT\(\*\) AS count FROM "orders" GROUP BY order_status`).
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
				AddRow("pending", 3).
				AddRow("shipped", 2))

		counts, err := repo.CountByStatus(context.Background())
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, order.OrderStatusPending, counts[0].Status)
		assert.Equal(t, int64(3), counts[0].Count)
	})
}

func TestGormOrderRepository_Query(t *testing.T) {
	t.Run("filters by status with pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE order_status = \$1`).
			WithArgs("pending").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_status = \$1 ORDER BY created_at DESC`).
			WithArgs("pending", 20).
			WillReturnRows(orderRows(orderID, "TRK202601021234"))
		mock.ExpectQuery(`SELECT \* FROM "order_items"`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

		status := order.OrderStatusPending
		result, err := repo.Query(context.Background(), order.OrderQuery{Status: &status, Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Len(t, result.Items, 1)
	})
}
