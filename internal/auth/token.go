package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authkit-labs/token-auth/internal/config"
	"github.com/authkit-labs/token-auth/internal/domain"
)

var (
	// ErrMissingToken is returned when a request carries no token where one is required.
	ErrMissingToken = errors.New("token missing")
	// ErrUnknownToken is returned for refresh tokens that are not in the token store.
	ErrUnknownToken = errors.New("token not recognized")
	// ErrInvalidToken is returned when signature verification fails or the token expired.
	ErrInvalidToken = errors.New("token invalid or expired")
)

// Claims describes the JWT payload shared by access and refresh tokens.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Identity returns the identity carried by the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{Name: c.Name}
}

// TokenParser verifies a token string and returns its claims.
type TokenParser interface {
	Parse(tokenStr string) (*Claims, error)
}

// TokenSigner issues and validates one kind of token under its own secret.
// A zero ttl produces tokens without an exp claim.
type TokenSigner struct {
	kind   domain.TokenKind
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SignerOption customizes a TokenSigner.
type SignerOption func(*TokenSigner)

// WithClock overrides the time source used for iat/exp and validation.
func WithClock(now func() time.Time) SignerOption {
	return func(s *TokenSigner) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAccessSigner builds the signer for short-lived access tokens.
func NewAccessSigner(secret string, ttl time.Duration, opts ...SignerOption) *TokenSigner {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return newSigner(domain.TokenKindAccess, secret, ttl, opts)
}

// NewRefreshSigner builds the signer for refresh tokens, which carry no expiry.
func NewRefreshSigner(secret string, opts ...SignerOption) *TokenSigner {
	return newSigner(domain.TokenKindRefresh, secret, 0, opts)
}

func newSigner(kind domain.TokenKind, secret string, ttl time.Duration, opts []SignerOption) *TokenSigner {
	s := &TokenSigner{kind: kind, secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign builds and signs a token for identity. The returned time is zero for tokens without expiry.
func (s *TokenSigner) Sign(identity domain.Identity) (string, time.Time, error) {
	now := s.now()
	claims := &Claims{
		Name: identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
		expiresAt = claims.ExpiresAt.Time
	}
	if s.kind == domain.TokenKindRefresh {
		// Keeps two logins in the same second from producing the same refresh token.
		claims.ID = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates signature, algorithm and expiry, and returns claims.
// Every failure wraps ErrInvalidToken.
func (s *TokenSigner) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrInvalidToken)
	}
	if claims.Name == "" {
		return nil, fmt.Errorf("%w: missing name claim", ErrInvalidToken)
	}
	return claims, nil
}

// TokenManager pairs the access and refresh signers used by the auth service.
type TokenManager struct {
	access  *TokenSigner
	refresh *TokenSigner
}

// NewTokenManager builds a manager from validated issuer configuration.
func NewTokenManager(cfg config.AuthConfig, opts ...SignerOption) (*TokenManager, error) {
	if err := cfg.ValidateIssuer(); err != nil {
		return nil, err
	}
	return &TokenManager{
		access:  NewAccessSigner(cfg.AccessTokenSecret, cfg.AccessTokenTTL(), opts...),
		refresh: NewRefreshSigner(cfg.RefreshTokenSecret, opts...),
	}, nil
}

// GenerateAccessToken signs a short-lived access token.
func (tm *TokenManager) GenerateAccessToken(identity domain.Identity) (string, time.Time, error) {
	return tm.access.Sign(identity)
}

// GenerateRefreshToken signs a refresh token. It is not registered anywhere by this call.
func (tm *TokenManager) GenerateRefreshToken(identity domain.Identity) (string, error) {
	token, _, err := tm.refresh.Sign(identity)
	return token, err
}

// ParseAccessToken validates an access token.
func (tm *TokenManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return tm.access.Parse(tokenStr)
}

// ParseRefreshToken validates a refresh token's signature only; store membership is checked elsewhere.
func (tm *TokenManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return tm.refresh.Parse(tokenStr)
}

// AccessSigner exposes the access signer for middleware usage.
func (tm *TokenManager) AccessSigner() *TokenSigner {
	return tm.access
}
