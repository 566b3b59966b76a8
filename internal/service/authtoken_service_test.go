package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTAuthTokenService("test-secret-key", time.Hour, "escrow-ledger")

	token, expiry, err := svc.Generate("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	identity, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity)
}

func TestJWTAuthTokenService_ValidateWrongSecret(t *testing.T) {
	svc := NewJWTAuthTokenService("secret-one", time.Hour, "escrow-ledger")
	other := NewJWTAuthTokenService("secret-two", time.Hour, "escrow-ledger")

	token, _, err := svc.Generate("alice")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTAuthTokenService_ValidateExpired(t *testing.T) {
	svc := NewJWTAuthTokenService("test-secret-key", -time.Minute, "escrow-ledger")

	token, _, err := svc.Generate("alice")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTAuthTokenService_ValidateGarbage(t *testing.T) {
	svc := NewJWTAuthTokenService("test-secret-key", time.Hour, "escrow-ledger")

	_, err := svc.Validate("not.a.jwt")
	assert.Error(t, err)
}
