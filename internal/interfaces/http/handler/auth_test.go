package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func authTestSetup() (*MockUserRepository, *AuthHandler, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests-only",
		Expiration: time.Hour,
		Issuer:     "storefront-backend",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := identityapp.NewAuthService(userRepo, jwtService, blacklist, nil, zap.NewNop())
	h := NewAuthHandler(service)
	return userRepo, h, gin.New()
}

func TestAuthHandler_Register(t *testing.T) {
	userRepo, h, router := authTestSetup()
	router.POST("/auth/register", h.Register)

	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	body, _ := json.Marshal(gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "correct-horse-9",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token)
	assert.NotEmpty(t, resp.Data.RefreshToken)
	assert.NotEqual(t, resp.Data.Token, resp.Data.RefreshToken)
	assert.Equal(t, "ada@example.com", resp.Data.User.Email)
	assert.Equal(t, "customer", resp.Data.User.Role)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	userRepo, h, router := authTestSetup()
	router.POST("/auth/register", h.Register)

	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(shared.ErrAlreadyExists)

	body, _ := json.Marshal(gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "correct-horse-9",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "EMAIL_TAKEN")
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	_, h, router := authTestSetup()
	router.POST("/auth/register", h.Register)

	body, _ := json.Marshal(gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "short",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	userRepo, h, router := authTestSetup()
	router.POST("/auth/login", h.Login)

	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	require.NoError(t, err)
	userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	body, _ := json.Marshal(gin.H{
		"email":    "ada@example.com",
		"password": "correct-horse-9",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	userRepo, h, router := authTestSetup()
	router.POST("/auth/login", h.Login)

	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	require.NoError(t, err)
	userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	body, _ := json.Marshal(gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	userRepo, h, router := authTestSetup()
	router.POST("/auth/login", h.Login)

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

	body, _ := json.Marshal(gin.H{
		"email":    "nobody@example.com",
		"password": "whatever-1234",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Refresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests-only",
		Expiration: time.Hour,
		Issuer:     "storefront-backend",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := identityapp.NewAuthService(userRepo, jwtService, blacklist, nil, zap.NewNop())
	h := NewAuthHandler(service)
	router := gin.New()
	router.POST("/auth/refresh", h.Refresh)

	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	require.NoError(t, err)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	pair, err := jwtService.IssuePair(user)
	require.NoError(t, err)

	body, _ := json.Marshal(gin.H{"refresh_token": pair.Refresh.Token})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.NotEmpty(t, resp.Data.RefreshToken)
	assert.NotEqual(t, pair.Refresh.Token, resp.Data.RefreshToken)

	// the spent refresh token is rotated out and cannot be replayed
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestAuthHandler_Refresh_RejectsAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests-only",
		Expiration: time.Hour,
		Issuer:     "storefront-backend",
	})
	service := identityapp.NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), nil, zap.NewNop())
	h := NewAuthHandler(service)
	router := gin.New()
	router.POST("/auth/refresh", h.Refresh)

	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	require.NoError(t, err)
	pair, err := jwtService.IssuePair(user)
	require.NoError(t, err)

	body, _ := json.Marshal(gin.H{"refresh_token": pair.Access.Token})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestAuthHandler_GetProfile(t *testing.T) {
	userRepo, h, router := authTestSetup()

	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	require.NoError(t, err)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	router.GET("/auth/profile", asUser(user.ID), h.GetProfile)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
}

func TestAuthHandler_GetProfile_Unauthenticated(t *testing.T) {
	_, h, router := authTestSetup()
	router.GET("/auth/profile", h.GetProfile)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	userRepo, h, router := authTestSetup()

	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	require.NoError(t, err)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	router.PUT("/auth/profile", asUser(user.ID), h.UpdateProfile)

	body, _ := json.Marshal(gin.H{
		"name":  "Ada King",
		"phone": "+1-555-0100",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/auth/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada King")
}

func TestAuthHandler_Logout(t *testing.T) {
	userRepo, h, router := authTestSetup()

	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", "correct-horse-9")
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests-only",
		Expiration: time.Hour,
		Issuer:     "storefront-backend",
	})
	issued, err := jwtService.Issue(user)
	require.NoError(t, err)
	claims, err := jwtService.Validate(issued.Token)
	require.NoError(t, err)

	router.POST("/auth/logout", func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, user.ID.String())
		c.Set(middleware.JWTClaimsKey, claims)
		c.Next()
	}, h.Logout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	userRepo.AssertExpectations(t)
}
