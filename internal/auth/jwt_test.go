package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute)

	token, err := manager.GenerateToken(42, "cajero", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID())
	assert.Equal(t, "cajero", claims.Username)
	assert.False(t, claims.IsAdmin)
}

func TestTokenCarriesAdminFlag(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute)

	token, err := manager.GenerateToken(1, "admin", true)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestExpiredTokenRejected(t *testing.T) {
	manager := NewTokenManager("test-secret", -1*time.Minute)

	token, err := manager.GenerateToken(1, "admin", true)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute)
	other := NewTokenManager("another-secret", 30*time.Minute)

	token, err := manager.GenerateToken(1, "admin", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute)

	_, err := manager.ValidateToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
