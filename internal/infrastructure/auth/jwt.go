package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// JWT-related errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("token missing user ID")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

// Token types
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents the JWT claims for an authenticated user
type Claims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"uid"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"typ"`
}

// JWTService handles JWT token generation and validation
type JWTService struct {
	secret            []byte
	expiration        time.Duration
	refreshExpiration time.Duration
	issuer            string
}

// NewJWTService creates a new JWT service from configuration
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshExpiration := cfg.RefreshExpiration
	if refreshExpiration == 0 {
		refreshExpiration = 7 * 24 * time.Hour
	}
	return &JWTService{
		secret:            []byte(cfg.Secret),
		expiration:        cfg.Expiration,
		refreshExpiration: refreshExpiration,
		issuer:            cfg.Issuer,
	}
}

// Issue generates a signed access token for the given user
func (s *JWTService) Issue(user *identity.User) (appidentity.IssuedToken, error) {
	return s.issue(user, TokenTypeAccess, s.expiration)
}

// IssuePair generates a signed access/refresh token pair for the given user
func (s *JWTService) IssuePair(user *identity.User) (appidentity.TokenPair, error) {
	access, err := s.issue(user, TokenTypeAccess, s.expiration)
	if err != nil {
		return appidentity.TokenPair{}, err
	}
	refresh, err := s.issue(user, TokenTypeRefresh, s.refreshExpiration)
	if err != nil {
		return appidentity.TokenPair{}, err
	}
	return appidentity.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *JWTService) issue(user *identity.User, tokenType TokenType, lifetime time.Duration) (appidentity.IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(lifetime)
	tokenID := uuid.NewString()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return appidentity.IssuedToken{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return appidentity.IssuedToken{
		Token:     signed,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate parses and validates an access token string, returning its
// claims. Refresh tokens are rejected: they cannot authenticate requests
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType == TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefresh verifies a refresh token and returns the identity it
// was issued for
func (s *JWTService) ValidateRefresh(tokenString string) (appidentity.RefreshClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return appidentity.RefreshClaims{}, appidentity.ErrTokenExpired
		}
		return appidentity.RefreshClaims{}, appidentity.ErrTokenInvalid
	}
	if claims.TokenType != TokenTypeRefresh {
		return appidentity.RefreshClaims{}, appidentity.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return appidentity.RefreshClaims{}, appidentity.ErrTokenInvalid
	}

	return appidentity.RefreshClaims{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// Expiration returns the configured access token lifetime
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// Ensure JWTService satisfies the application token issuer
var _ appidentity.TokenIssuer = (*JWTService)(nil)
