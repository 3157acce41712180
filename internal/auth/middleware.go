package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/authkit-labs/token-auth/internal/domain"
	apperrors "github.com/authkit-labs/token-auth/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// AccessVerifier validates bearer access tokens. It never consults the token store,
// so an access token stays usable until it expires.
type AccessVerifier struct {
	tokens TokenParser
}

// NewAccessVerifier constructs middleware around an access token parser.
func NewAccessVerifier(tokens TokenParser) *AccessVerifier {
	return &AccessVerifier{tokens: tokens}
}

// Handle enforces a valid access token on protected routes.
func (m *AccessVerifier) Handle(c *fiber.Ctx) error {
	token := BearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return apperrors.NewMissingToken()
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return apperrors.NewInvalidToken()
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
// Anything else yields an empty string.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
