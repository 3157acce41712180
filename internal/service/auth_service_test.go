package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/authkit-labs/token-auth/internal/auth"
	"github.com/authkit-labs/token-auth/internal/config"
	"github.com/authkit-labs/token-auth/internal/domain"
	"github.com/authkit-labs/token-auth/internal/events"
	"github.com/authkit-labs/token-auth/internal/repository"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type authFixture struct {
	svc    *AuthService
	tokens *auth.TokenManager
	store  repository.TokenStore
	clock  *testClock
	logs   *observer.ObservedLogs
}

func newAuthFixture(t *testing.T, credentials auth.CredentialVerifier) *authFixture {
	t.Helper()
	clock := &testClock{now: time.Now()}
	tokens, err := auth.NewTokenManager(config.AuthConfig{
		AccessTokenSecret:     "access-secret",
		RefreshTokenSecret:    "refresh-secret",
		AccessTokenTTLSeconds: 15,
	}, auth.WithClock(clock.Now))
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, logger).RegisterHandlers()

	store := repository.NewMemoryTokenStore()
	svc := NewAuthService(tokens, AuthDependencies{
		TokenStore:  store,
		Credentials: credentials,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	return &authFixture{svc: svc, tokens: tokens, store: store, clock: clock, logs: logs}
}

func TestLogin_IssuesPairAndRegistersRefreshToken(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, LoginInput{Username: "Kyle"})
	require.NoError(t, err)

	claims, err := f.tokens.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Kyle", claims.Name)
	assert.Equal(t, f.clock.now.Add(15*time.Second).Truncate(time.Second), pair.AccessExpiresAt)

	known, err := f.store.Contains(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, known)

	issued := f.logs.FilterMessage("TokenIssued").All()
	require.Len(t, issued, 1)
	assert.Equal(t, "Kyle", issued[0].ContextMap()["subject"])
}

func TestLogin_RequiresUsername(t *testing.T) {
	f := newAuthFixture(t, nil)

	_, err := f.svc.Login(context.Background(), LoginInput{Username: "  "})
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestLogin_BcryptCredentials(t *testing.T) {
	hash, err := auth.HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	f := newAuthFixture(t, auth.NewBcryptCredentials(map[string]string{"Kyle": hash}))
	ctx := context.Background()

	_, err = f.svc.Login(ctx, LoginInput{Username: "Kyle", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	pair, err := f.svc.Login(ctx, LoginInput{Username: "Kyle", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRefresh_LifecycleUntilLogout(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, LoginInput{Username: "Jim"})
	require.NoError(t, err)

	first, _, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	second, _, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err, "refresh token is not consumed")

	for _, tok := range []string{first, second} {
		claims, err := f.tokens.ParseAccessToken(tok)
		require.NoError(t, err)
		assert.Equal(t, "Jim", claims.Name)
	}

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))
	_, _, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrUnknownToken)

	assert.Len(t, f.logs.FilterMessage("TokenRefreshed").All(), 2)
	revoked := f.logs.FilterMessage("TokenRevoked").All()
	require.Len(t, revoked, 1)
	assert.Equal(t, "Jim", revoked[0].ContextMap()["subject"])
}

func TestRefresh_Errors(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, _, err := f.svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	neverIssued, err := f.tokens.GenerateRefreshToken(domain.Identity{Name: "Kyle"})
	require.NoError(t, err)
	_, _, err = f.svc.Refresh(ctx, neverIssued)
	assert.ErrorIs(t, err, auth.ErrUnknownToken)

	// A forged value that made it into the store still has to pass signature checks.
	require.NoError(t, f.store.Add(ctx, "forged.token.value"))
	_, _, err = f.svc.Refresh(ctx, "forged.token.value")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	access, _, err := f.tokens.GenerateAccessToken(domain.Identity{Name: "Kyle"})
	require.NoError(t, err)
	require.NoError(t, f.store.Add(ctx, access))
	_, _, err = f.svc.Refresh(ctx, access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "access secret cannot mint refreshable tokens")
}

func TestLogout_Idempotent(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, LoginInput{Username: "Kyle"})
	require.NoError(t, err)

	assert.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))
	assert.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))
	assert.NoError(t, f.svc.Logout(ctx, ""))
	assert.NoError(t, f.svc.Logout(ctx, "never-issued"))
}

type failingStore struct{ err error }

func (s failingStore) Add(context.Context, string) error              { return s.err }
func (s failingStore) Contains(context.Context, string) (bool, error) { return false, s.err }
func (s failingStore) Remove(context.Context, string) error           { return s.err }

func TestStoreFailuresPropagate(t *testing.T) {
	down := errors.New("store down")
	tokens, err := auth.NewTokenManager(config.AuthConfig{AccessTokenSecret: "a", RefreshTokenSecret: "r"})
	require.NoError(t, err)
	svc := NewAuthService(tokens, AuthDependencies{TokenStore: failingStore{err: down}})
	ctx := context.Background()

	_, err = svc.Login(ctx, LoginInput{Username: "Kyle"})
	assert.ErrorIs(t, err, down)

	_, _, err = svc.Refresh(ctx, "tok")
	assert.ErrorIs(t, err, down)

	assert.ErrorIs(t, svc.Logout(ctx, "tok"), down)
}

func TestPostService_ListForIdentity(t *testing.T) {
	svc := NewPostService(repository.NewStaticPostRepository(repository.DefaultPosts))

	posts, err := svc.ListForIdentity(context.Background(), domain.Identity{Name: "Jim"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Post{{Username: "Jim", Title: "Post 2"}}, posts)
}
