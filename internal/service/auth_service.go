package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/authkit-labs/token-auth/internal/auth"
	"github.com/authkit-labs/token-auth/internal/domain"
	"github.com/authkit-labs/token-auth/internal/events"
	"github.com/authkit-labs/token-auth/internal/repository"
)

// ErrUsernameRequired is returned by Login when no identity claim was supplied.
var ErrUsernameRequired = errors.New("username required")

// LoginInput is the identity claim submitted at login.
type LoginInput struct {
	Username string
	Password string
}

// AuthService issues, refreshes and revokes tokens.
type AuthService struct {
	tokens      *auth.TokenManager
	store       repository.TokenStore
	credentials auth.CredentialVerifier
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	TokenStore  repository.TokenStore
	Credentials auth.CredentialVerifier
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service. Credentials default to open logins and the logger to a no-op.
func NewAuthService(tokens *auth.TokenManager, deps AuthDependencies) *AuthService {
	credentials := deps.Credentials
	if credentials == nil {
		credentials = auth.OpenCredentials{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		tokens:      tokens,
		store:       deps.TokenStore,
		credentials: credentials,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// Login turns an identity claim into a token pair and registers the refresh token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.TokenPair, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, ErrUsernameRequired
	}
	if err := s.credentials.Verify(ctx, in.Username, in.Password); err != nil {
		return nil, err
	}

	identity := domain.Identity{Name: in.Username}
	accessToken, accessExp, err := s.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.store.Add(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("register refresh token: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventTokenIssued, identity.Name, domain.TokenKindRefresh,
		events.TokenIssuedPayload{AccessExpiresAt: accessExp}))

	return &domain.TokenPair{
		AccessToken:     accessToken,
		AccessExpiresAt: accessExp,
		RefreshToken:    refreshToken,
	}, nil
}

// Refresh exchanges a registered refresh token for a new access token.
// Store membership is checked before the signature; the refresh token stays valid afterwards.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if refreshToken == "" {
		return "", time.Time{}, auth.ErrMissingToken
	}

	known, err := s.store.Contains(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("lookup refresh token: %w", err)
	}
	if !known {
		return "", time.Time{}, auth.ErrUnknownToken
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	accessToken, accessExp, err := s.tokens.GenerateAccessToken(claims.Identity())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventTokenRefreshed, claims.Name, domain.TokenKindAccess,
		events.TokenRefreshedPayload{AccessExpiresAt: accessExp}))
	return accessToken, accessExp, nil
}

// Logout removes a refresh token from the store. It succeeds whether or not the token was present.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.store.Remove(ctx, refreshToken); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	subject := ""
	if claims, err := s.tokens.ParseRefreshToken(refreshToken); err == nil {
		subject = claims.Name
	}
	s.publish(ctx, events.NewEvent(events.EventTokenRevoked, subject, domain.TokenKindRefresh, nil))
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
