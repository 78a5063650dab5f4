package order

import "github.com/shopspring/decimal"

// Pricing policy. Shipping is free above the threshold, otherwise a flat
// rate applies. Tax is a flat rate, not jurisdiction-aware
var (
	FreeShippingThreshold = decimal.NewFromFloat(50.00)
	FlatShippingCost      = decimal.NewFromFloat(9.99)
	TaxRate               = decimal.NewFromFloat(0.08)
)

// SetPricingPolicy overrides the pricing constants from configuration.
// Called once at startup, before any orders are priced
func SetPricingPolicy(freeShippingThreshold, flatShippingCost, taxRate decimal.Decimal) {
	FreeShippingThreshold = freeShippingThreshold
	FlatShippingCost = flatShippingCost
	TaxRate = taxRate
}

// DeliveryLeadDays is the promised delivery window set at order creation
const DeliveryLeadDays = 5

// Charges is the server-side breakdown of an order's cost
type Charges struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

// ComputeCharges derives shipping, tax, and total from an item list.
// Totals are always recomputed from authoritative item prices, never
// trusted from client input
func ComputeCharges(items []OrderItem) Charges {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.ItemTotal())
	}
	subtotal = subtotal.Round(2)

	shipping := FlatShippingCost
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate).Round(2)

	return Charges{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Total:        subtotal.Add(shipping).Add(tax),
	}
}
