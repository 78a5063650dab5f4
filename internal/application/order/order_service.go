package order

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// checkoutMaxAttempts bounds the retries on a tracking number collision
const checkoutMaxAttempts = 3

// UserResolver resolves the buyer identity embedded in tracking
// responses. identity.UserRepository satisfies it
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// OrderService handles the checkout flow and the order workflow
type OrderService struct {
	scope     CheckoutScope
	orderRepo order.OrderRepository
	users     UserResolver
	publisher shared.EventPublisher
}

// NewOrderService creates a new OrderService. The scope is used for the
// transactional checkout path; orderRepo serves the read paths. A nil
// users resolver leaves tracking responses without the buyer summary
func NewOrderService(scope CheckoutScope, orderRepo order.OrderRepository, users UserResolver, publisher shared.EventPublisher) *OrderService {
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
		users:     users,
		publisher: publisher,
	}
}

// Checkout places an order from the submitted cart. Product snapshots,
// the order insert, and every stock decrement happen in one database
// transaction, so a failure on any line rolls back the whole order.
// A tracking number collision regenerates the number and retries the
// entire transaction
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	shippingAddress, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return nil, err
	}

	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	var (
		placed *order.Order
		events []shared.DomainEvent
	)

	for attempt := 0; attempt < checkoutMaxAttempts; attempt++ {
		trackingNumber, err := order.GenerateTrackingNumber()
		if err != nil {
			return nil, err
		}

		placed = nil
		events = events[:0]

		txErr := s.scope.Execute(ctx, func(repos CheckoutRepositories) error {
			items := make([]order.OrderItem, 0, len(lines))
			stocks := make(map[uuid.UUID]*catalog.Product, len(lines))

			for _, line := range lines {
				product, err := repos.Products().FindActiveByID(ctx, line.ProductID)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found").
							WithDetails(map[string]interface{}{"product_id": line.ProductID})
					}
					return err
				}

				item, err := order.NewOrderItem(product.ID, product.Name, product.PriceMoney(), line.Quantity, product.PrimaryImage())
				if err != nil {
					return err
				}
				items = append(items, item)
				stocks[product.ID] = product
			}

			o, err := order.NewOrder(trackingNumber, userID, items, shippingAddress, req.PaymentMethod)
			if err != nil {
				return err
			}
			if req.BillingAddress != nil {
				billing, err := req.BillingAddress.ToAddress()
				if err != nil {
					return err
				}
				o.SetBillingAddress(billing)
			}
			if req.Notes != "" {
				o.SetNotes(req.Notes)
			}

			if err := repos.Orders().Save(ctx, o); err != nil {
				return err
			}

			for _, line := range lines {
				product := stocks[line.ProductID]
				remaining, err := repos.Products().DecrementStock(ctx, line.ProductID, line.Quantity)
				if err != nil {
					if errors.Is(err, shared.ErrInsufficientStock) {
						return shared.ErrInsufficientStock.WithDetails(map[string]interface{}{
							"product_id": line.ProductID,
							"name":       product.Name,
							"requested":  line.Quantity,
							"available":  product.Stock,
						})
					}
					return err
				}
				// Emit low-stock only on the crossing, not on every
				// decrement below the threshold
				if remaining <= product.LowStockThreshold && product.Stock > product.LowStockThreshold {
					events = append(events, catalog.NewProductStockLowEvent(product, remaining))
				}
			}

			placed = o
			return nil
		})

		if txErr == nil {
			break
		}
		if errors.Is(txErr, shared.ErrAlreadyExists) {
			continue
		}
		return nil, txErr
	}

	if placed == nil {
		return nil, shared.NewDomainError("TRACKING_GENERATION_FAILED", "Could not allocate a unique tracking number")
	}

	orderEvents := placed.GetDomainEvents()
	placed.ClearDomainEvents()
	events = append(orderEvents, events...)
	if len(events) > 0 && s.publisher != nil {
		_ = s.publisher.Publish(ctx, events...)
	}

	return ToOrderResponse(placed), nil
}

// GetByTrackingNumber returns any order by tracking number. The public
// tracking page shows who placed the order, so the buyer's id, name and
// email are embedded when a resolver is configured
func (s *OrderService) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(o)
	if s.users != nil {
		u, err := s.users.FindByID(ctx, o.UserID)
		switch {
		case err == nil:
			resp.User = &OrderUserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}
	return resp, nil
}

// GetForUser returns a user's order by tracking number. Orders that
// belong to someone else are reported as not found
func (s *OrderService) GetForUser(ctx context.Context, userID uuid.UUID, trackingNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return ToOrderResponse(o), nil
}

// ListForUser returns the user's order history, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = *ToOrderResponse(&orders[i])
	}
	return items, nil
}

// List runs the admin order listing query
func (s *OrderService) List(ctx context.Context, q OrderListQuery) (shared.Paginated[OrderResponse], error) {
	query := order.DefaultOrderQuery()
	if q.Status != "" {
		status := order.OrderStatus(q.Status)
		query.Status = &status
	}
	if q.Page > 0 {
		query.Page = q.Page
	}
	if q.PageSize > 0 {
		query.PageSize = q.PageSize
	}

	page, err := s.orderRepo.Query(ctx, query)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}

	items := make([]OrderResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToOrderResponse(&page.Items[i])
	}

	return shared.Paginated[OrderResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// UpdateStatus applies an admin status change. Fulfillment and payment
// status can be moved independently or together; each transition is
// validated by the aggregate
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	if req.Status == nil && req.PaymentStatus == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "No status change requested")
	}

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if err := o.UpdateStatus(order.OrderStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.PaymentStatus != nil {
		if err := o.UpdatePaymentStatus(order.PaymentStatus(*req.PaymentStatus)); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if len(events) > 0 && s.publisher != nil {
		_ = s.publisher.Publish(ctx, events...)
	}

	return ToOrderResponse(o), nil
}

// Cancel cancels an order on behalf of its owner
func (s *OrderService) Cancel(ctx context.Context, userID uuid.UUID, trackingNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrNotFound
	}

	if err := o.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if len(events) > 0 && s.publisher != nil {
		_ = s.publisher.Publish(ctx, events...)
	}

	return ToOrderResponse(o), nil
}

// GetStatusSummary returns order counts per fulfillment status for the
// admin dashboard
func (s *OrderService) GetStatusSummary(ctx context.Context) (*StatusSummaryResponse, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c.Count
	}

	return &StatusSummaryResponse{
		Total:    total,
		ByStatus: counts,
	}, nil
}

type checkoutLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// mergeLines collapses duplicate product lines into one, summing
// quantities, while keeping the first-seen order
func mergeLines(items []CheckoutItemRequest) ([]checkoutLine, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}

	index := make(map[uuid.UUID]int, len(items))
	lines := make([]checkoutLine, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive").
				WithDetails(map[string]interface{}{"product_id": item.ProductID})
		}
		if i, ok := index[item.ProductID]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, checkoutLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines, nil
}
