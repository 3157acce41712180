package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestOpenCredentials_AcceptAnyone(t *testing.T) {
	verifier := NewCredentialVerifier(nil)
	assert.IsType(t, OpenCredentials{}, verifier)
	assert.NoError(t, verifier.Verify(context.Background(), "anyone", ""))
}

func TestBcryptCredentials(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)

	verifier := NewCredentialVerifier(map[string]string{"Kyle": hash})
	ctx := context.Background()

	assert.NoError(t, verifier.Verify(ctx, "Kyle", "hunter2"))
	assert.ErrorIs(t, verifier.Verify(ctx, "Kyle", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, verifier.Verify(ctx, "Jim", "hunter2"), ErrInvalidCredentials)
}
