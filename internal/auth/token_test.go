package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit-labs/token-auth/internal/config"
	"github.com/authkit-labs/token-auth/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(t *testing.T, clock *fakeClock) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(config.AuthConfig{
		AccessTokenSecret:     "access-secret",
		RefreshTokenSecret:    "refresh-secret",
		AccessTokenTTLSeconds: 15,
	}, WithClock(clock.Now))
	require.NoError(t, err)
	return tm
}

func TestAccessToken_ValidUntilExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	tm := newTestManager(t, clock)

	tok, exp, err := tm.GenerateAccessToken(domain.Identity{Name: "Kyle"})
	require.NoError(t, err)
	assert.True(t, exp.After(clock.now))

	claims, err := tm.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "Kyle", claims.Name)

	clock.Advance(16 * time.Second)
	_, err = tm.ParseAccessToken(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorContains(t, err, jwt.ErrTokenExpired.Error())
}

func TestRefreshToken_HasNoExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	tm := newTestManager(t, clock)

	tok, err := tm.GenerateRefreshToken(domain.Identity{Name: "Jim"})
	require.NoError(t, err)

	clock.Advance(24 * 365 * time.Hour)
	claims, err := tm.ParseRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "Jim", claims.Name)
	assert.Nil(t, claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshToken_UniquePerIssue(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	tm := newTestManager(t, clock)

	first, err := tm.GenerateRefreshToken(domain.Identity{Name: "Jim"})
	require.NoError(t, err)
	second, err := tm.GenerateRefreshToken(domain.Identity{Name: "Jim"})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	tm := newTestManager(t, &fakeClock{now: time.Now()})

	refresh, err := tm.GenerateRefreshToken(domain.Identity{Name: "Kyle"})
	require.NoError(t, err)
	_, err = tm.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, _, err := tm.GenerateAccessToken(domain.Identity{Name: "Kyle"})
	require.NoError(t, err)
	_, err = tm.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessParse_RequiresExpiry(t *testing.T) {
	t.Parallel()

	// Same secret, no exp: only the expiry requirement can reject it.
	noExp := NewRefreshSigner("access-secret")
	tok, _, err := noExp.Sign(domain.Identity{Name: "Kyle"})
	require.NoError(t, err)

	_, err = NewAccessSigner("access-secret", time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Tampered(t *testing.T) {
	t.Parallel()

	tm := newTestManager(t, &fakeClock{now: time.Now()})
	tok, err := tm.GenerateRefreshToken(domain.Identity{Name: "Kyle"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.ParseRefreshToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{Name: "Kyle", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = NewAccessSigner("access-secret", time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_MissingNameClaim(t *testing.T) {
	t.Parallel()

	signer := NewAccessSigner("access-secret", time.Minute)
	tok, _, err := signer.Sign(domain.Identity{})
	require.NoError(t, err)

	_, err = signer.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_MalformedAndEmpty(t *testing.T) {
	t.Parallel()

	signer := NewAccessSigner("k", time.Minute)
	_, err := signer.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Parse("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNewTokenManager_RejectsSharedSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager(config.AuthConfig{AccessTokenSecret: "same", RefreshTokenSecret: "same"})
	assert.Error(t, err)
}
