package dto

import "github.com/authkit-labs/token-auth/internal/domain"

// PostResponse is a single item in GET /posts.
type PostResponse struct {
	Username string `json:"username"`
	Title    string `json:"title"`
}

// PostsFromDomain converts posts for the wire, always yielding a non-nil slice.
func PostsFromDomain(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostResponse{Username: p.Username, Title: p.Title})
	}
	return out
}
