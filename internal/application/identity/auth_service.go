package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// IssuedToken is a signed token with its expiry
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenPair couples a short-lived access token with the long-lived
// refresh token that can mint its successor
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// RefreshClaims identifies the account behind a validated refresh token
type RefreshClaims struct {
	UserID    uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// Refresh token validation failures reported by a TokenIssuer
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// TokenIssuer signs token pairs for authenticated users
type TokenIssuer interface {
	// IssuePair creates signed access and refresh tokens carrying the
	// user's identity and role
	IssuePair(user *identity.User) (TokenPair, error)

	// ValidateRefresh verifies a refresh token and returns the identity
	// it was issued for. Returns ErrTokenExpired or ErrTokenInvalid on
	// failure
	ValidateRefresh(token string) (RefreshClaims, error)
}

// TokenInvalidator revokes issued tokens until their natural expiry
type TokenInvalidator interface {
	// Invalidate revokes the token with the given ID
	Invalidate(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked checks whether a token ID has been invalidated
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService handles registration, authentication, and profile management
type AuthService struct {
	userRepo    identity.UserRepository
	issuer      TokenIssuer
	invalidator TokenInvalidator
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	issuer TokenIssuer,
	invalidator TokenInvalidator,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		issuer:      issuer,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger,
	}
}

// Register creates a customer account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, err
	}

	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if len(events) > 0 && s.publisher != nil {
		_ = s.publisher.Publish(ctx, events...)
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		s.logger.Error("failed to issue tokens after registration", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return toAuthResponse(pair, user), nil
}

// Login authenticates a user and returns a signed token. Failed attempts
// count toward a temporary lockout; credential and existence failures are
// indistinguishable to the caller
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warn("login attempt for unknown email", zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("login attempt for locked account", zap.String("user_id", user.ID.String()))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked. Please try again later")
		}
		s.logger.Warn("login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure()
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// login still succeeds
		s.logger.Error("failed to record login success", zap.Error(err))
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		s.logger.Error("failed to issue tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return toAuthResponse(pair, user), nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// presented refresh token is revoked so it cannot be replayed
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.issuer.ValidateRefresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		}
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token is invalid")
	}

	if s.invalidator != nil {
		revoked, err := s.invalidator.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			s.logger.Error("failed to check refresh token revocation", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
		}
		if revoked {
			s.logger.Warn("refresh attempt with revoked token",
				zap.String("user_id", claims.UserID.String()))
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token is invalid")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked. Please try again later")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		s.logger.Error("failed to issue tokens on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	// rotate: the spent refresh token is blacklisted for its remaining lifetime
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
			s.logger.Error("failed to revoke spent refresh token",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("session refreshed", zap.String("user_id", user.ID.String()))

	return toAuthResponse(pair, user), nil
}

// Logout revokes the presented token so it cannot be replayed
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, tokenID string, expiresAt time.Time) error {
	if s.invalidator == nil {
		return nil
	}
	if err := s.invalidator.Invalidate(ctx, tokenID, expiresAt); err != nil {
		s.logger.Error("failed to revoke token",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("user logged out", zap.String("user_id", userID.String()))
	return nil
}

// GetProfile returns the authenticated user's account
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile updates the authenticated user's name and phone
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(req.Name, req.Phone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword changes the authenticated user's password after
// verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user changed password", zap.String("user_id", userID.String()))
	return nil
}
