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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormProductRepository(gormDB), mock, mockDB
}

func productRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "brand", "category_id", "price", "stock", "is_active", "is_featured"}).
		AddRow(id, "Wireless Headphones", "Noise cancelling", "Acme", uuid.New(), decimal.NewFromFloat(79.99), 25, true, false)
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(productRows(productID))

		product, err := repo.FindByID(context.Background(), productID)
		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Wireless Headphones", product.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindActiveByID(t *testing.T) {
	t.Run("filters on active flag", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 AND is_active = \$2`).
			WithArgs(productID, true, 1).
			WillReturnRows(productRows(productID))

		product, err := repo.FindActiveByID(context.Background(), productID)
		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	t.Run("empty input skips the query", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		products, err := repo.FindByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	t.Run("returns remaining stock on success", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`UPDATE products`).
			WithArgs(3, productID, 3).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(22))

		remaining, err := repo.DecrementStock(context.Background(), productID, 3)
		require.NoError(t, err)
		assert.Equal(t, 22, remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports insufficient stock when the guard rejects the update", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`UPDATE products`).
			WithArgs(10, productID, 10).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WithArgs(productID, true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := repo.DecrementStock(context.Background(), productID, 10)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("reports not found when no active product exists", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`UPDATE products`).
			WithArgs(1, productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WithArgs(productID, true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		_, err := repo.DecrementStock(context.Background(), productID, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindFeatured(t *testing.T) {
	t.Run("limits to active featured products", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE is_active = \$1 AND is_featured = \$2`).
			WithArgs(true, true, 8).
			WillReturnRows(productRows(productID))

		products, err := repo.FindFeatured(context.Background(), 8)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})
}

func TestSortClause(t *testing.T) {
	assert.Equal(t, "price ASC, created_at DESC", sortClause(catalog.SortPriceLow))
	assert.Equal(t, "price DESC, created_at DESC", sortClause(catalog.SortPriceHigh))
	assert.Equal(t, "rating DESC, review_count DESC", sortClause(catalog.SortRating))
	assert.Equal(t, "name ASC", sortClause(catalog.SortName))
	assert.Equal(t, "created_at DESC", sortClause(catalog.SortNewest))
	assert.Equal(t, "created_at DESC", sortClause(catalog.ProductSort("bogus")))
}
