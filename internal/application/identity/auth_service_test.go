package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssuePair(user *identity.User) (TokenPair, error) {
	args := m.Called(user)
	return args.Get(0).(TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) ValidateRefresh(token string) (RefreshClaims, error) {
	args := m.Called(token)
	return args.Get(0).(RefreshClaims), args.Error(1)
}

// MockTokenInvalidator is a mock implementation of TokenInvalidator
type MockTokenInvalidator struct {
	mock.Mock
}

func (m *MockTokenInvalidator) Invalidate(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenInvalidator) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newTestAuthService(userRepo *MockUserRepository, issuer *MockTokenIssuer, invalidator *MockTokenInvalidator) *AuthService {
	return NewAuthService(userRepo, issuer, invalidator, nil, zap.NewNop())
}

func createTestUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	assert.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func testTokenPair() TokenPair {
	return TokenPair{
		Access: IssuedToken{
			Token:     "signed.jwt.token",
			TokenID:   uuid.NewString(),
			ExpiresAt: time.Now().Add(24 * time.Hour),
		},
		Refresh: IssuedToken{
			Token:     "signed.refresh.token",
			TokenID:   uuid.NewString(),
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		},
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()

	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
	mockIssuer.On("IssuePair", mock.AnythingOfType("*identity.User")).Return(testTokenPair(), nil)

	result, err := service.Register(ctx, RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "correct-horse-9",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "signed.jwt.token", result.Token)
	assert.Equal(t, "signed.refresh.token", result.RefreshToken)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, "customer", result.User.Role)
	assert.True(t, result.User.IsActive)
	mockRepo.AssertExpectations(t)
	mockIssuer.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()

	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(shared.ErrAlreadyExists)

	result, err := service.Register(ctx, RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct-horse-9",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	mockIssuer.AssertNotCalled(t, "IssuePair", mock.Anything)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	result, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "short",
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()
	user := createTestUser(t)

	mockRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
	mockRepo.On("Save", ctx, user).Return(nil)
	mockIssuer.On("IssuePair", user).Return(testTokenPair(), nil)

	result, err := service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse-9",
	})

	assert.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", result.Token)
	assert.Equal(t, "signed.refresh.token", result.RefreshToken)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, 0, user.FailedAttempts)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()
	user := createTestUser(t)

	mockRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
	mockRepo.On("Save", ctx, user).Return(nil)

	result, err := service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, 1, user.FailedAttempts)
	mockIssuer.AssertNotCalled(t, "IssuePair", mock.Anything)
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

	result, err := service.Login(ctx, LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-123",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_LocksAfterRepeatedFailures(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()
	user := createTestUser(t)

	mockRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
	mockRepo.On("Save", ctx, user).Return(nil)

	var lastErr error
	for i := 0; i < identity.MaxFailedLoginAttempts; i++ {
		_, lastErr = service.Login(ctx, LoginRequest{
			Email:    "ada@example.com",
			Password: "wrong-password",
		})
	}

	var domainErr *shared.DomainError
	assert.ErrorAs(t, lastErr, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	assert.True(t, user.IsLocked())

	// further attempts are rejected before password verification
	_, err := service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse-9",
	})
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()
	user := createTestUser(t)
	assert.NoError(t, user.Deactivate())

	mockRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)

	result, err := service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse-9",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	mockInvalidator := new(MockTokenInvalidator)
	service := newTestAuthService(mockRepo, mockIssuer, mockInvalidator)

	ctx := context.Background()
	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	mockInvalidator.On("Invalidate", ctx, "token-id", expiresAt).Return(nil)

	err := service.Logout(ctx, userID, "token-id", expiresAt)

	assert.NoError(t, err)
	mockInvalidator.AssertExpectations(t)
}

func TestAuthService_Refresh_RotatesTokens(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	mockInvalidator := new(MockTokenInvalidator)
	service := newTestAuthService(mockRepo, mockIssuer, mockInvalidator)

	ctx := context.Background()
	user := createTestUser(t)
	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	claims := RefreshClaims{UserID: user.ID, TokenID: "refresh-id", ExpiresAt: expiresAt}

	mockIssuer.On("ValidateRefresh", "old.refresh.token").Return(claims, nil)
	mockInvalidator.On("IsRevoked", ctx, "refresh-id").Return(false, nil)
	mockRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	mockIssuer.On("IssuePair", user).Return(testTokenPair(), nil)
	mockInvalidator.On("Invalidate", ctx, "refresh-id", expiresAt).Return(nil)

	result, err := service.Refresh(ctx, RefreshRequest{RefreshToken: "old.refresh.token"})

	assert.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", result.Token)
	assert.Equal(t, "signed.refresh.token", result.RefreshToken)
	mockInvalidator.AssertExpectations(t)
	mockIssuer.AssertExpectations(t)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	mockInvalidator := new(MockTokenInvalidator)
	service := newTestAuthService(mockRepo, mockIssuer, mockInvalidator)

	ctx := context.Background()
	claims := RefreshClaims{UserID: uuid.New(), TokenID: "refresh-id", ExpiresAt: time.Now().Add(time.Hour)}

	mockIssuer.On("ValidateRefresh", "spent.refresh.token").Return(claims, nil)
	mockInvalidator.On("IsRevoked", ctx, "refresh-id").Return(true, nil)

	result, err := service.Refresh(ctx, RefreshRequest{RefreshToken: "spent.refresh.token"})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	mockIssuer.AssertNotCalled(t, "IssuePair", mock.Anything)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	mockIssuer.On("ValidateRefresh", "stale.refresh.token").Return(RefreshClaims{}, ErrTokenExpired)

	result, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: "stale.refresh.token"})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_EXPIRED", domainErr.Code)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_DeactivatedAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	mockInvalidator := new(MockTokenInvalidator)
	service := newTestAuthService(mockRepo, mockIssuer, mockInvalidator)

	ctx := context.Background()
	user := createTestUser(t)
	assert.NoError(t, user.Deactivate())
	claims := RefreshClaims{UserID: user.ID, TokenID: "refresh-id", ExpiresAt: time.Now().Add(time.Hour)}

	mockIssuer.On("ValidateRefresh", "their.refresh.token").Return(claims, nil)
	mockInvalidator.On("IsRevoked", ctx, "refresh-id").Return(false, nil)
	mockRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	result, err := service.Refresh(ctx, RefreshRequest{RefreshToken: "their.refresh.token"})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	mockIssuer.AssertNotCalled(t, "IssuePair", mock.Anything)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()
	user := createTestUser(t)

	mockRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	mockRepo.On("Save", ctx, user).Return(nil)

	result, err := service.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		Name:  "Ada King",
		Phone: "+1 555 0100",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Ada King", result.Name)
	assert.Equal(t, "+1 555 0100", result.Phone)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()
	user := createTestUser(t)

	mockRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	mockRepo.On("Save", ctx, user).Return(nil)

	err := service.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		CurrentPassword: "correct-horse-9",
		NewPassword:     "battery-staple-7",
	})

	assert.NoError(t, err)
	assert.True(t, user.VerifyPassword("battery-staple-7"))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockIssuer := new(MockTokenIssuer)
	service := newTestAuthService(mockRepo, mockIssuer, nil)

	ctx := context.Background()
	user := createTestUser(t)

	mockRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	err := service.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "battery-staple-7",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	assert.True(t, user.VerifyPassword("correct-horse-9"))
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
