package cart

import "github.com/shopspring/decimal"

// Display pricing mirrors the server's checkout policy so the cart can
// show an estimate before the order is placed. The server recomputes
// all charges from authoritative prices at checkout.
var (
	freeShippingThreshold = decimal.NewFromFloat(50.00)
	flatShippingCost      = decimal.NewFromFloat(9.99)
	taxRate               = decimal.NewFromFloat(0.08)
)

// Totals is the estimated cost breakdown for a cart
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals estimates subtotal, shipping, tax, and total for the
// cart. Shipping is free strictly above the threshold; tax is a flat
// rate rounded to cents.
func ComputeTotals(s State) Totals {
	subtotal := decimal.Zero
	for _, line := range s.Lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	subtotal = subtotal.Round(2)

	shipping := flatShippingCost
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	if s.IsEmpty() {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(taxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
