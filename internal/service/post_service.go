package service

import (
	"context"

	"github.com/authkit-labs/token-auth/internal/domain"
	"github.com/authkit-labs/token-auth/internal/repository"
)

// PostService serves posts owned by the authenticated identity.
type PostService struct {
	posts repository.PostRepository
}

// NewPostService creates the service.
func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// ListForIdentity returns only the posts whose owner matches the identity name.
func (s *PostService) ListForIdentity(ctx context.Context, identity domain.Identity) ([]domain.Post, error) {
	return s.posts.ListByUsername(ctx, identity.Name)
}
