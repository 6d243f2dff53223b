package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthServiceForTest(t *testing.T) (AuthService, *fakeUserRepo, *fakeBlacklistRepo) {
	t.Helper()
	users := newFakeUserRepo()
	blacklist := newFakeBlacklistRepo()
	tokens := NewTokenService("test-secret", time.Hour)
	svc := NewAuthService(users, blacklist, tokens, 24*time.Hour, zap.NewNop())
	return svc, users, blacklist
}

func TestRegister_Success(t *testing.T) {
	svc, users, _ := newAuthServiceForTest(t)

	result, err := svc.Register("Alice", "Alice@Example.com", "555-0100", "password123")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice@example.com", result.User.Email, "email must be stored lowercase")
	assert.Equal(t, "user", result.User.Role)
	assert.NotEqual(t, "password123", result.User.PasswordHash)

	stored, err := users.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.Register("Alice", "alice@example.com", "", "password123")
	require.NoError(t, err)

	_, err = svc.Register("Other Alice", "ALICE@example.com", "", "password456")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.Register("Bob", "bob@example.com", "", "password123")
	require.NoError(t, err)

	result, err := svc.Login("bob@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "bob@example.com", result.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.Register("Bob", "bob@example.com", "", "password123")
	require.NoError(t, err)

	_, err = svc.Login("bob@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	// Indistinguishable from a wrong password
	_, err := svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_BlacklistsToken(t *testing.T) {
	svc, _, blacklist := newAuthServiceForTest(t)

	require.NoError(t, svc.Logout("some.jwt.token", 7))

	revoked, err := blacklist.IsBlacklisted("some.jwt.token")
	require.NoError(t, err)
	assert.True(t, revoked)

	entry := blacklist.entries["some.jwt.token"]
	assert.Equal(t, int64(7), entry.UserID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), entry.ExpiresAt, 5*time.Second)
}

func TestLogout_Idempotent(t *testing.T) {
	svc, _, blacklist := newAuthServiceForTest(t)

	require.NoError(t, svc.Logout("some.jwt.token", 7))
	require.NoError(t, svc.Logout("some.jwt.token", 7))

	revoked, err := blacklist.IsBlacklisted("some.jwt.token")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Len(t, blacklist.entries, 1)
}
