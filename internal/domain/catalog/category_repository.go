package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryWithCount pairs a category with its active product count
type CategoryWithCount struct {
	Category
	ProductCount int64 `json:"product_count"`
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by its exact name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindActiveWithCounts returns active categories with their active
	// product counts, ordered by sort order then name
	FindActiveWithCounts(ctx context.Context) ([]CategoryWithCount, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete removes a category. Categories with products cannot be removed
	Delete(ctx context.Context, id uuid.UUID) error

	// HasProducts checks if any product references the category
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsByName checks if a category with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
