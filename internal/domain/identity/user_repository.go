package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (lowercased exact match)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user. A duplicate email surfaces as
	// shared.ErrAlreadyExists
	Save(ctx context.Context, user *User) error

	// ExistsByEmail checks if an account with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountByRole counts users with the given role
	CountByRole(ctx context.Context, role Role) (int64, error)

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
