package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// CheckoutScope provides transactional access to the repositories that
// participate in checkout. All repository operations inside Execute are
// part of the same database transaction: the order insert and every
// stock decrement commit or roll back together.
type CheckoutScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos CheckoutRepositories) error) error
}

// CheckoutRepositories provides access to the checkout repositories
// within a transaction. Both repositories share the same underlying
// database transaction.
type CheckoutRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() order.OrderRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
}

// NoOpCheckoutScope is a checkout scope that doesn't actually use
// transactions. This is useful for testing or when transaction support
// is not required.
type NoOpCheckoutScope struct {
	orderRepo   order.OrderRepository
	productRepo catalog.ProductRepository
}

// NewNoOpCheckoutScope creates a NoOpCheckoutScope with the given repositories.
func NewNoOpCheckoutScope(orderRepo order.OrderRepository, productRepo catalog.ProductRepository) *NoOpCheckoutScope {
	return &NoOpCheckoutScope{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpCheckoutScope) Execute(_ context.Context, fn func(repos CheckoutRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository.
func (s *NoOpCheckoutScope) Orders() order.OrderRepository {
	return s.orderRepo
}

// Products returns the product repository.
func (s *NoOpCheckoutScope) Products() catalog.ProductRepository {
	return s.productRepo
}

// Ensure NoOpCheckoutScope implements both interfaces
var _ CheckoutScope = (*NoOpCheckoutScope)(nil)
var _ CheckoutRepositories = (*NoOpCheckoutScope)(nil)
