package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)

	token, err := ti.GenerateToken(7, "kasir1", "Cashier")
	require.NoError(t, err)

	claims, err := ti.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.StaffID)
	assert.Equal(t, "kasir1", claims.Username)
	assert.Equal(t, "Cashier", claims.Role)
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).GenerateToken(1, "a", "Owner")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Revoke(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)
	token, err := ti.GenerateToken(1, "owner", "Owner")
	require.NoError(t, err)

	ti.Revoke(token)

	_, err = ti.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
