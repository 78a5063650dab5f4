package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressRequest carries an address in API requests
type AddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=255"`
	Line1      string `json:"line1" binding:"required,max=255"`
	Line2      string `json:"line2" binding:"max=255"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"max=2"`
}

// ToAddress converts the request into the address value object
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	opts := []valueobject.AddressOption{}
	if r.Line2 != "" {
		opts = append(opts, valueobject.WithLine2(r.Line2))
	}
	if r.State != "" {
		opts = append(opts, valueobject.WithState(r.State))
	}
	if r.Country != "" {
		opts = append(opts, valueobject.WithCountry(r.Country))
	}
	return valueobject.NewAddress(r.FullName, r.Line1, r.City, r.PostalCode, opts...)
}

// CheckoutItemRequest is one requested order line
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest represents a cart submitted for checkout
type CheckoutRequest struct {
	Items           []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress AddressRequest        `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressRequest       `json:"billing_address"`
	PaymentMethod   string                `json:"payment_method" binding:"omitempty,max=50"`
	Notes           string                `json:"notes" binding:"max=1000"`
}

// UpdateOrderStatusRequest represents an admin status change.
// Either field may be set independently
type UpdateOrderStatusRequest struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus *string `json:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
}

// OrderListQuery represents the admin order listing parameters
type OrderListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	ItemTotal decimal.Decimal `json:"item_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID            `json:"id"`
	TrackingNumber    string               `json:"tracking_number"`
	UserID            uuid.UUID            `json:"user_id"`
	Items             []OrderItemResponse  `json:"items"`
	ShippingAddress   valueobject.Address  `json:"shipping_address"`
	BillingAddress    *valueobject.Address `json:"billing_address,omitempty"`
	PaymentMethod     string               `json:"payment_method"`
	PaymentStatus     string               `json:"payment_status"`
	Status            string               `json:"status"`
	Subtotal          decimal.Decimal      `json:"subtotal"`
	ShippingCost      decimal.Decimal      `json:"shipping_cost"`
	Tax               decimal.Decimal      `json:"tax"`
	Total             decimal.Decimal      `json:"total"`
	Notes             string               `json:"notes,omitempty"`
	EstimatedDelivery *time.Time           `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time           `json:"delivered_at,omitempty"`
	User              *OrderUserSummary    `json:"user,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// OrderUserSummary is the buyer identity embedded in tracking lookups.
// Deliberately limited to non-sensitive fields
type OrderUserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// StatusSummaryResponse is the admin dashboard status breakdown
type StatusSummaryResponse struct {
	Total    int64              `json:"total"`
	ByStatus []order.StatusCount `json:"by_status"`
}

// ToOrderResponse converts an order aggregate to its API shape
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			ItemTotal: item.ItemTotal(),
		}
	}

	resp := &OrderResponse{
		ID:                o.ID,
		TrackingNumber:    o.TrackingNumber,
		UserID:            o.UserID,
		Items:             items,
		ShippingAddress:   o.ShippingAddress,
		PaymentMethod:     o.PaymentMethod,
		PaymentStatus:     o.PaymentStatus.String(),
		Status:            o.Status.String(),
		Subtotal:          o.Subtotal,
		ShippingCost:      o.ShippingCost,
		Tax:               o.Tax,
		Total:             o.Total,
		Notes:             o.Notes,
		EstimatedDelivery: o.EstimatedDelivery,
		DeliveredAt:       o.DeliveredAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if !o.BillingAddress.IsEmpty() {
		billing := o.BillingAddress
		resp.BillingAddress = &billing
	}
	return resp
}
