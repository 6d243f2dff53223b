package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	tokenString, expiresAt, err := svc.IssueToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ParseToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	tokenString, _, err := issuer.IssueToken(1)
	require.NoError(t, err)

	_, err = verifier.ParseToken(tokenString)
	require.Error(t, err)
	assert.False(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseToken_Expired(t *testing.T) {
	// Negative expiry simulates clock skew: embedded expiry is already past
	svc := NewTokenService("test-secret", -time.Minute)

	tokenString, _, err := svc.IssueToken(1)
	require.NoError(t, err)

	_, err = svc.ParseToken(tokenString)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseToken_Malformed(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, err := svc.ParseToken("not-a-jwt")
	require.Error(t, err)
	assert.False(t, errors.Is(err, jwt.ErrTokenExpired))
}
