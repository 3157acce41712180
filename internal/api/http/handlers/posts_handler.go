package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/authkit-labs/token-auth/internal/api/dto"
	"github.com/authkit-labs/token-auth/internal/auth"
	"github.com/authkit-labs/token-auth/internal/service"
	apperrors "github.com/authkit-labs/token-auth/pkg/util/errorutil"
)

// PostsHandler serves the protected resource.
type PostsHandler struct {
	service *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{service: postService}
}

// ListPosts GET /posts.
func (h *PostsHandler) ListPosts(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	posts, err := h.service.ListForIdentity(c.UserContext(), identity)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.PostsFromDomain(posts))
}
