// Package cart is a client-local shopping cart: an immutable state
// value transformed by pure reducers, with pluggable persistence. The
// server never stores carts; the cart is submitted as a whole at
// checkout.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in the cart
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// LineTotal returns price multiplied by quantity
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// State is the full cart contents. It is a value: reducers return a
// new State and never mutate their input.
type State struct {
	Lines []Line `json:"lines"`
}

// Empty returns an empty cart
func Empty() State {
	return State{}
}

// IsEmpty reports whether the cart has no lines
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// ItemCount returns the total quantity across all lines
func (s State) ItemCount() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// clone copies the line slice so reducers can modify it freely
func (s State) clone() State {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines}
}

// Add merges the given line into the cart. An existing line for the
// same product has its quantity increased; line order is preserved.
// Non-positive quantities leave the cart unchanged.
func Add(s State, line Line) State {
	if line.Quantity <= 0 || line.ProductID == uuid.Nil {
		return s
	}

	next := s.clone()
	for i := range next.Lines {
		if next.Lines[i].ProductID == line.ProductID {
			next.Lines[i].Quantity += line.Quantity
			return next
		}
	}
	next.Lines = append(next.Lines, line)
	return next
}

// UpdateQuantity sets the absolute quantity for a product. A quantity
// of zero or less removes the line.
func UpdateQuantity(s State, productID uuid.UUID, quantity int) State {
	if quantity <= 0 {
		return Remove(s, productID)
	}

	next := s.clone()
	for i := range next.Lines {
		if next.Lines[i].ProductID == productID {
			next.Lines[i].Quantity = quantity
			return next
		}
	}
	return next
}

// Remove deletes the line for a product. A product not in the cart is
// a no-op.
func Remove(s State, productID uuid.UUID) State {
	next := State{Lines: make([]Line, 0, len(s.Lines))}
	for _, line := range s.Lines {
		if line.ProductID != productID {
			next.Lines = append(next.Lines, line)
		}
	}
	return next
}

// Clear empties the cart
func Clear(State) State {
	return Empty()
}
