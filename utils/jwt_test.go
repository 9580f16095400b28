package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	pair, err := svc.GenerateTokenPair("64f0c2a1b3d4e5f6a7b8c9d0", "user@aegis.dev", "user")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "64f0c2a1b3d4e5f6a7b8c9d0", claims.UserID)
	assert.Equal(t, "user@aegis.dev", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "access", claims.TokenType)

	refreshClaims, err := svc.ValidateToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	pair, err := NewJWTService("secret-a").GenerateTokenPair("id", "a@b.c", "user")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	pair, err := svc.GenerateTokenPair("id", "a@b.c", "agent")
	require.NoError(t, err)

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		next, err := svc.RefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "agent", claims.Role)
	})

	t.Run("access token is not accepted for refresh", func(t *testing.T) {
		_, err := svc.RefreshToken(pair.AccessToken)
		assert.Error(t, err)
	})
}
