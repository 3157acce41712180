package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login fails the configured credential check.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with the given cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// CredentialVerifier decides whether a login claim is accepted.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}

// OpenCredentials accepts any username without a password check.
// It is the default and matches the demo behaviour the login flow was designed around.
type OpenCredentials struct{}

// Verify always succeeds.
func (OpenCredentials) Verify(context.Context, string, string) error {
	return nil
}

// BcryptCredentials checks logins against a fixed table of bcrypt hashes.
type BcryptCredentials struct {
	hashes map[string]string
}

// NewBcryptCredentials copies the username to hash table.
func NewBcryptCredentials(hashes map[string]string) *BcryptCredentials {
	copied := make(map[string]string, len(hashes))
	for name, hash := range hashes {
		copied[name] = hash
	}
	return &BcryptCredentials{hashes: copied}
}

// Verify reports ErrInvalidCredentials for unknown users or wrong passwords.
func (b *BcryptCredentials) Verify(_ context.Context, username, password string) error {
	hash, ok := b.hashes[username]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(hash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// NewCredentialVerifier returns bcrypt checking when users are configured, open logins otherwise.
func NewCredentialVerifier(users map[string]string) CredentialVerifier {
	if len(users) == 0 {
		return OpenCredentials{}
	}
	return NewBcryptCredentials(users)
}
