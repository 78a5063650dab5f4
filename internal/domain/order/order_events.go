package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced               = "OrderPlaced"
	EventTypeOrderStatusChanged        = "OrderStatusChanged"
	EventTypeOrderPaymentStatusChanged = "OrderPaymentStatusChanged"
)

// OrderPlacedEvent is published when checkout creates an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	TrackingNumber string          `json:"tracking_number"`
	UserID         uuid.UUID       `json:"user_id"`
	ItemCount      int             `json:"item_count"`
	Total          decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		TrackingNumber:  o.TrackingNumber,
		UserID:          o.UserID,
		ItemCount:       o.ItemCount(),
		Total:           o.Total,
	}
}

// OrderStatusChangedEvent is published on every fulfillment transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID   `json:"order_id"`
	TrackingNumber string      `json:"tracking_number"`
	OldStatus      OrderStatus `json:"old_status"`
	NewStatus      OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		TrackingNumber:  o.TrackingNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderPaymentStatusChangedEvent is published on every payment transition
type OrderPaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID     `json:"order_id"`
	TrackingNumber string        `json:"tracking_number"`
	OldStatus      PaymentStatus `json:"old_status"`
	NewStatus      PaymentStatus `json:"new_status"`
}

// NewOrderPaymentStatusChangedEvent creates a new OrderPaymentStatusChangedEvent
func NewOrderPaymentStatusChangedEvent(o *Order, oldStatus, newStatus PaymentStatus) *OrderPaymentStatusChangedEvent {
	return &OrderPaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		TrackingNumber:  o.TrackingNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
