package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser("Jane Doe", "jane@example.com", "s3cretpass")
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active customer", func(t *testing.T) {
		user := newTestUser(t)

		assert.Equal(t, "Jane Doe", user.Name)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "s3cretpass", user.PasswordHash)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserRegistered, events[0].EventType())
	})

	t.Run("normalizes email to lower case", func(t *testing.T) {
		user, err := NewUser("Jane", "Jane.Doe@Example.COM", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", user.Email)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("   ", "jane@example.com", "s3cretpass")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "missing@tld", "@example.com"} {
			_, err := NewUser("Jane", email, "s3cretpass")
			assert.Error(t, err, "email %q should be rejected", email)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("Jane", "jane@example.com", "short")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})
}

func TestNewAdminUser(t *testing.T) {
	admin, err := NewAdminUser("Admin", "admin@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.True(t, admin.IsAdmin())
}

func TestUserPassword(t *testing.T) {
	t.Run("verify password", func(t *testing.T) {
		user := newTestUser(t)
		assert.True(t, user.VerifyPassword("s3cretpass"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("change password requires current one", func(t *testing.T) {
		user := newTestUser(t)
		assert.Error(t, user.ChangePassword("wrong", "newpassword1"))
		require.NoError(t, user.ChangePassword("s3cretpass", "newpassword1"))
		assert.True(t, user.VerifyPassword("newpassword1"))
	})

	t.Run("admin reset skips verification", func(t *testing.T) {
		user := newTestUser(t)
		require.NoError(t, user.SetPassword("resetpassword"))
		assert.True(t, user.VerifyPassword("resetpassword"))
	})
}

func TestUserProfile(t *testing.T) {
	user := newTestUser(t)
	require.NoError(t, user.UpdateProfile("Jane Smith", "+1 555 0100"))
	assert.Equal(t, "Jane Smith", user.Name)
	assert.Equal(t, "+1 555 0100", user.Phone)

	assert.Error(t, user.UpdateProfile("", ""))
	assert.Error(t, user.UpdateProfile("Jane", strings.Repeat("1", 51)))
}

func TestUserLockout(t *testing.T) {
	t.Run("locks after repeated failures", func(t *testing.T) {
		user := newTestUser(t)

		for i := 0; i < MaxFailedLoginAttempts-1; i++ {
			assert.False(t, user.RecordLoginFailure())
		}
		assert.True(t, user.RecordLoginFailure())
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("success clears the counter", func(t *testing.T) {
		user := newTestUser(t)
		user.RecordLoginFailure()
		user.RecordLoginSuccess()

		assert.Zero(t, user.FailedAttempts)
		assert.Nil(t, user.LockedUntil)
		require.NotNil(t, user.LastLoginAt)
		assert.WithinDuration(t, time.Now(), *user.LastLoginAt, time.Second)
	})

	t.Run("expired lock no longer blocks", func(t *testing.T) {
		user := newTestUser(t)
		past := time.Now().Add(-time.Minute)
		user.LockedUntil = &past
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})
}

func TestUserActivation(t *testing.T) {
	user := newTestUser(t)

	assert.Error(t, user.Activate())

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
}

func TestUserSetRole(t *testing.T) {
	user := newTestUser(t)
	require.NoError(t, user.SetRole(RoleAdmin))
	assert.True(t, user.IsAdmin())
	assert.Error(t, user.SetRole(Role("superuser")))
}
