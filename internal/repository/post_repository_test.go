package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit-labs/token-auth/internal/domain"
)

func TestStaticPostRepository_FiltersByUsername(t *testing.T) {
	repo := NewStaticPostRepository(DefaultPosts)

	posts, err := repo.ListByUsername(context.Background(), "Kyle")
	require.NoError(t, err)
	assert.Equal(t, []domain.Post{{Username: "Kyle", Title: "Post 1"}}, posts)

	posts, err = repo.ListByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts, "encodes as [] rather than null")
}
