package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// DefaultPaymentMethod is used when the client does not name one
const DefaultPaymentMethod = "credit_card"

// OrderItem is an immutable snapshot of a product at order time.
// It is decoupled from the live Product so historical orders are
// unaffected by later price or name changes
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Image     string          `gorm:"type:varchar(500)" json:"image"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line snapshot
func NewOrderItem(productID uuid.UUID, name string, price valueobject.Money, quantity int, image string) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return OrderItem{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		Price:     price.Amount(),
		Quantity:  quantity,
		Image:     image,
		CreatedAt: time.Now(),
	}, nil
}

// ItemTotal returns price multiplied by quantity
func (i OrderItem) ItemTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root for a placed order. It is created once at
// checkout and afterwards mutated only through the status workflow
type Order struct {
	shared.BaseAggregateRoot
	TrackingNumber    string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress   valueobject.Address `gorm:"type:jsonb;not null"`
	BillingAddress    valueobject.Address `gorm:"type:jsonb"`
	PaymentMethod     string              `gorm:"type:varchar(50);not null;default:'credit_card'"`
	PaymentStatus     PaymentStatus       `gorm:"type:varchar(20);not null;default:'pending'"`
	Status            OrderStatus         `gorm:"column:order_status;type:varchar(20);not null;default:'pending';index"`
	Subtotal          decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	ShippingCost      decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0"`
	Tax               decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0"`
	Total             decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	Notes             string              `gorm:"type:text"`
	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from item snapshots. Charges are
// computed here from the snapshots; the estimated delivery window is
// stamped relative to creation time
func NewOrder(trackingNumber string, userID uuid.UUID, items []OrderItem, shippingAddress valueobject.Address, paymentMethod string) (*Order, error) {
	if trackingNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number cannot be empty")
	}
	if len(trackingNumber) > 30 {
		return nil, shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number cannot exceed 30 characters")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TrackingNumber:    trackingNumber,
		UserID:            userID,
		Items:             make([]OrderItem, len(items)),
		ShippingAddress:   shippingAddress,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     PaymentStatusPending,
		Status:            OrderStatusPending,
	}
	copy(o.Items, items)
	for idx := range o.Items {
		o.Items[idx].OrderID = o.ID
	}

	charges := ComputeCharges(o.Items)
	o.Subtotal = charges.Subtotal
	o.ShippingCost = charges.ShippingCost
	o.Tax = charges.Tax
	o.Total = charges.Total

	estimated := o.CreatedAt.Add(DeliveryLeadDays * 24 * time.Hour)
	o.EstimatedDelivery = &estimated

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// SetBillingAddress attaches an optional billing address
func (o *Order) SetBillingAddress(address valueobject.Address) {
	o.BillingAddress = address
	o.UpdatedAt = time.Now()
}

// SetNotes attaches free-form customer notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// UpdateStatus transitions the order to a new fulfillment status.
// Transitions are validated against the workflow graph; arriving at
// delivered stamps DeliveredAt as the only timestamp side effect
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if target == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	old := o.Status
	now := time.Now()
	o.Status = target
	if target == OrderStatusDelivered {
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, target))

	return nil
}

// UpdatePaymentStatus transitions the payment status. A refund is only
// reachable from a paid order
func (o *Order) UpdatePaymentStatus(target PaymentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown payment status %q", target))
	}
	if target == o.PaymentStatus {
		return nil
	}
	if !o.PaymentStatus.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition payment from %s to %s", o.PaymentStatus, target))
	}

	old := o.PaymentStatus
	o.PaymentStatus = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentStatusChangedEvent(o, old, target))

	return nil
}

// Cancel transitions the order to cancelled
func (o *Order) Cancel() error {
	return o.UpdateStatus(OrderStatusCancelled)
}

// IsDelivered returns true once the order reached the delivered state
func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

// ItemCount returns the total unit count across all lines
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}
