package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/authkit-labs/token-auth/internal/api/dto"
	"github.com/authkit-labs/token-auth/internal/auth"
	"github.com/authkit-labs/token-auth/internal/service"
	apperrors "github.com/authkit-labs/token-auth/pkg/util/errorutil"
)

// AuthHandler exposes login, refresh and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Username == "" {
		return apperrors.NewValidationError("username required", nil)
	}

	pair, err := h.auth.Login(c.UserContext(), service.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		return mapAuthError(err)
	}

	return c.JSON(dto.LoginResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Token handles POST /token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	accessToken, _, err := h.auth.Refresh(c.UserContext(), req.Token)
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(dto.TokenResponse{AccessToken: accessToken})
}

// Logout handles DELETE /logout. It answers 204 whether or not the token was known.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), req.Token); err != nil {
		return mapAuthError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// parseBody decodes a JSON body. An empty body leaves out untouched so that missing
// fields are reported by the operation rather than as a parse failure.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return apperrors.NewMissingToken()
	case errors.Is(err, auth.ErrUnknownToken):
		return apperrors.NewUnknownToken()
	case errors.Is(err, auth.ErrInvalidToken):
		return apperrors.NewInvalidToken()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, service.ErrUsernameRequired):
		return apperrors.NewValidationError("username required", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}
