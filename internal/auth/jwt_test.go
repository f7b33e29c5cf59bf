package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", "quickdesk-test", time.Hour)
	assert.Equal(t, time.Hour, manager.TokenDuration())

	token, sessionID, expiresAt, err := manager.GenerateToken("user-123", "jo@example.com", "Jo Smith", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sessionID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "jo@example.com", claims.Email)
	assert.Equal(t, "Jo Smith", claims.FullName)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, sessionID, claims.SessionID())
	assert.Equal(t, "quickdesk-test", claims.Issuer)
}

func TestValidateTokenFailures(t *testing.T) {
	manager := NewJWTManager("test-secret-key", "quickdesk-test", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("different-secret", "quickdesk-test", time.Hour)
		token, _, _, err := other.GenerateToken("u1", "a@b.c", "A B", "user")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key", "quickdesk-test", -time.Minute)
		token, _, _, err := expired.GenerateToken("u1", "a@b.c", "A B", "user")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := manager.ValidateToken("")
		assert.Error(t, err)
	})
}

func TestSessionIDsAreUnique(t *testing.T) {
	manager := NewJWTManager("test-secret-key", "quickdesk-test", time.Hour)

	_, first, _, err := manager.GenerateToken("u1", "a@b.c", "A B", "user")
	require.NoError(t, err)
	_, second, _, err := manager.GenerateToken("u1", "a@b.c", "A B", "user")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
