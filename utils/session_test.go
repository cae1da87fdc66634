package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	token, err := IssueSession(42, "reader@example.com", "reader", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "reader", claims.Role)
}

func TestSessionRejectsTampering(t *testing.T) {
	token, err := IssueSession(1, "a@example.com", "admin", time.Hour)
	require.NoError(t, err)

	_, err = ParseSession(token + "x")
	assert.Error(t, err)

	_, err = ParseSession("not-a-token")
	assert.Error(t, err)
}

func TestSessionRejectsExpired(t *testing.T) {
	token, err := IssueSession(1, "a@example.com", "reader", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSession(token)
	assert.Error(t, err)
}

func TestRevokeSession(t *testing.T) {
	token, err := IssueSession(7, "b@example.com", "reader", time.Hour)
	require.NoError(t, err)

	assert.False(t, IsSessionRevoked(token))
	RevokeSession(token, time.Now().Add(time.Hour))
	assert.True(t, IsSessionRevoked(token))

	// Revoking again must not flip the state back.
	RevokeSession(token, time.Now().Add(time.Hour))
	assert.True(t, IsSessionRevoked(token))
}

func TestRevokeSessionExpiredTokenIsNoop(t *testing.T) {
	RevokeSession("stale-token", time.Now().Add(-time.Minute))
	assert.False(t, IsSessionRevoked("stale-token"))
}
