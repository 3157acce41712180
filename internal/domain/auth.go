package domain

import "time"

// TokenKind differentiates short-lived access tokens from store-backed refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "ACCESS"
	TokenKindRefresh TokenKind = "REFRESH"
)

// Identity is the claim set carried inside both token kinds.
type Identity struct {
	Name string
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}
