package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderQuery describes the admin order listing surface
type OrderQuery struct {
	Status   *OrderStatus
	Page     int
	PageSize int
}

// DefaultOrderQuery returns a query with the admin listing defaults
func DefaultOrderQuery() OrderQuery {
	return OrderQuery{
		Page:     1,
		PageSize: 20,
	}
}

// StatusCount is one row of the order status summary
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByTrackingNumber finds an order by exact, case-sensitive
	// tracking number match
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*Order, error)

	// FindByUser finds a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// Query finds orders matching the admin query with a total count,
	// newest first
	Query(ctx context.Context, query OrderQuery) (shared.Paginated[Order], error)

	// Save creates or updates an order together with its items.
	// A tracking number collision surfaces as shared.ErrAlreadyExists
	Save(ctx context.Context, o *Order) error

	// CountByStatus returns order counts grouped by fulfillment status
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
