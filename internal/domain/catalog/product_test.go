package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	product, err := NewProduct("Wireless Headphones", "Over-ear noise cancelling headphones", "AudioMax",
		valueobject.NewMoneyUSDFromFloat(79.99), uuid.New(), 25)
	require.NoError(t, err)
	return product
}

func TestNewProduct(t *testing.T) {
	t.Run("creates active product with defaults", func(t *testing.T) {
		categoryID := uuid.New()
		product, err := NewProduct("Wireless Headphones", "Over-ear headphones", "AudioMax",
			valueobject.NewMoneyUSDFromFloat(79.99), categoryID, 25)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "Wireless Headphones", product.Name)
		assert.Equal(t, categoryID, product.CategoryID)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(79.99)))
		assert.Equal(t, 25, product.Stock)
		assert.True(t, product.IsActive)
		assert.False(t, product.IsFeatured)
		assert.Equal(t, DefaultLowStockThreshold, product.LowStockThreshold)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("publishes created event", func(t *testing.T) {
		product := newTestProduct(t)
		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("rejects short name", func(t *testing.T) {
		_, err := NewProduct("X", "desc", "Brand", valueobject.ZeroUSD(), uuid.New(), 0)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewProduct("Widget", "", "Brand", valueobject.ZeroUSD(), uuid.New(), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Widget", "desc", "Brand",
			valueobject.NewMoneyUSDFromFloat(-1), uuid.New(), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct("Widget", "desc", "Brand", valueobject.ZeroUSD(), uuid.New(), -1)
		assert.Error(t, err)
	})

	t.Run("rejects nil category", func(t *testing.T) {
		_, err := NewProduct("Widget", "desc", "Brand", valueobject.ZeroUSD(), uuid.Nil, 0)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})
}

func TestProductUpdate(t *testing.T) {
	t.Run("updates basic fields and bumps version", func(t *testing.T) {
		product := newTestProduct(t)
		product.ClearDomainEvents()

		require.NoError(t, product.Update("Studio Headphones", "Updated description", "AudioMax Pro"))
		assert.Equal(t, "Studio Headphones", product.Name)
		assert.Equal(t, "AudioMax Pro", product.Brand)
		assert.Equal(t, 2, product.GetVersion())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductUpdated, events[0].EventType())
	})

	t.Run("rejects invalid name", func(t *testing.T) {
		product := newTestProduct(t)
		assert.Error(t, product.Update("", "desc", "Brand"))
	})
}

func TestProductSetPricing(t *testing.T) {
	t.Run("sets price and original price", func(t *testing.T) {
		product := newTestProduct(t)
		product.ClearDomainEvents()

		original := valueobject.NewMoneyUSDFromFloat(99.99)
		require.NoError(t, product.SetPricing(valueobject.NewMoneyUSDFromFloat(59.99), &original))

		assert.True(t, product.Price.Equal(decimal.NewFromFloat(59.99)))
		require.NotNil(t, product.OriginalPrice)
		assert.True(t, product.OriginalPrice.Equal(decimal.NewFromFloat(99.99)))
		assert.True(t, product.HasDiscount())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductPriceChanged, events[0].EventType())
	})

	t.Run("clears original price when nil", func(t *testing.T) {
		product := newTestProduct(t)
		original := valueobject.NewMoneyUSDFromFloat(99.99)
		require.NoError(t, product.SetPricing(valueobject.NewMoneyUSDFromFloat(59.99), &original))
		require.NoError(t, product.SetPricing(valueobject.NewMoneyUSDFromFloat(59.99), nil))
		assert.Nil(t, product.OriginalPrice)
		assert.False(t, product.HasDiscount())
	})

	t.Run("rejects negative price", func(t *testing.T) {
		product := newTestProduct(t)
		assert.Error(t, product.SetPricing(valueobject.NewMoneyUSDFromFloat(-5), nil))
	})
}

func TestProductStock(t *testing.T) {
	t.Run("set stock", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetStock(3))
		assert.Equal(t, 3, product.Stock)
		assert.Error(t, product.SetStock(-1))
	})

	t.Run("has stock", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetStock(2))
		assert.True(t, product.HasStock(2))
		assert.False(t, product.HasStock(3))
		assert.False(t, product.HasStock(0))
	})

	t.Run("low stock threshold", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetStock(5))
		assert.True(t, product.IsLowStock())

		require.NoError(t, product.SetStock(6))
		assert.False(t, product.IsLowStock())

		require.NoError(t, product.SetLowStockThreshold(10))
		assert.True(t, product.IsLowStock())
	})
}

func TestProductActivation(t *testing.T) {
	t.Run("deactivate then reactivate", func(t *testing.T) {
		product := newTestProduct(t)
		product.ClearDomainEvents()

		require.NoError(t, product.Deactivate())
		assert.False(t, product.IsActive)

		require.NoError(t, product.Activate())
		assert.True(t, product.IsActive)

		events := product.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeProductStatusChanged, events[0].EventType())
	})

	t.Run("double deactivate fails", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.Deactivate())
		assert.Error(t, product.Deactivate())
	})

	t.Run("activate active product fails", func(t *testing.T) {
		product := newTestProduct(t)
		assert.Error(t, product.Activate())
	})
}

func TestProductMedia(t *testing.T) {
	product := newTestProduct(t)

	assert.Empty(t, product.PrimaryImage())
	product.SetImages([]string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"})
	assert.Equal(t, "https://cdn.example.com/a.jpg", product.PrimaryImage())

	product.SetFeatures([]string{"Bluetooth 5.3", "40h battery"})
	assert.Len(t, product.Features, 2)

	product.SetSpecifications(map[string]string{"weight": "254g"})
	assert.Equal(t, "254g", product.Specifications["weight"])

	product.SetTags([]string{"audio", "wireless"})
	assert.Len(t, product.Tags, 2)

	product.SetFeatured(true)
	assert.True(t, product.IsFeatured)
}

func TestDefaultProductQuery(t *testing.T) {
	q := DefaultProductQuery()
	assert.Equal(t, SortNewest, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 12, q.PageSize)
}
