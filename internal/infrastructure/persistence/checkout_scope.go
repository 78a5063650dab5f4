package persistence

import (
	"context"

	"gorm.io/gorm"

	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// GormCheckoutScope implements the checkout transaction boundary using
// GORM transactions. Stock decrements and the order insert either all
// commit or all roll back.
type GormCheckoutScope struct {
	db *gorm.DB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *gorm.DB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos apporder.CheckoutRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCheckoutRepositories{tx: tx})
	})
}

// gormCheckoutRepositories provides repositories scoped to one transaction
type gormCheckoutRepositories struct {
	tx *gorm.DB
}

// Orders returns the order repository bound to the current transaction
func (r *gormCheckoutRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Products returns the product repository bound to the current transaction
func (r *gormCheckoutRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Ensure the GORM implementations satisfy the application contracts
var (
	_ apporder.CheckoutScope        = (*GormCheckoutScope)(nil)
	_ apporder.CheckoutRepositories = (*gormCheckoutRepositories)(nil)
)
