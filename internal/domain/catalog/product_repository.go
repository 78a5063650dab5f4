package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductQuery describes the storefront catalog query surface:
// free-text search, category/brand narrowing, a price window,
// and one of the supported sort orders
type ProductQuery struct {
	Search          string
	CategoryID      *uuid.UUID
	Brand           string
	MinPrice        *float64
	MaxPrice        *float64
	FeaturedOnly    bool
	IncludeInactive bool
	Sort            ProductSort
	Page            int
	PageSize        int
}

// ProductSort enumerates the supported catalog sort orders
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceLow  ProductSort = "price-low"
	SortPriceHigh ProductSort = "price-high"
	SortRating    ProductSort = "rating"
	SortName      ProductSort = "name"
)

// DefaultProductQuery returns a query with storefront defaults
func DefaultProductQuery() ProductQuery {
	return ProductQuery{
		Sort:     SortNewest,
		Page:     1,
		PageSize: 12,
	}
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindActiveByID finds a product by ID, excluding soft-deleted products
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Query finds products matching the catalog query with a total count
	Query(ctx context.Context, query ProductQuery) (shared.Paginated[Product], error)

	// FindFeatured finds up to limit active featured products
	FindFeatured(ctx context.Context, limit int) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DecrementStock atomically decrements stock by quantity, constrained to
	// stock >= quantity, and returns the remaining stock. Returns
	// shared.ErrInsufficientStock when the constraint does not hold and
	// shared.ErrNotFound when no active product has the given ID
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (remaining int, err error)

	// CountByCategory counts active products in a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
