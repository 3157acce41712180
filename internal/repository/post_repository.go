package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authkit-labs/token-auth/internal/domain"
)

// PostRepository defines read access to posts.
type PostRepository interface {
	ListByUsername(ctx context.Context, username string) ([]domain.Post, error)
}

// DefaultPosts is the data served when no database is configured.
var DefaultPosts = []domain.Post{
	{Username: "Kyle", Title: "Post 1"},
	{Username: "Jim", Title: "Post 2"},
}

type staticPostRepository struct {
	posts []domain.Post
}

// NewStaticPostRepository serves a fixed, read-only list of posts.
func NewStaticPostRepository(posts []domain.Post) PostRepository {
	return &staticPostRepository{posts: append([]domain.Post(nil), posts...)}
}

func (r *staticPostRepository) ListByUsername(_ context.Context, username string) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(r.posts))
	for _, post := range r.posts {
		if post.Username == username {
			out = append(out, post)
		}
	}
	return out, nil
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository returns a Postgres-backed implementation.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

func (r *postRepository) ListByUsername(ctx context.Context, username string) ([]domain.Post, error) {
	const query = `
        SELECT username, title
        FROM posts WHERE username=$1
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.Username, &post.Title); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
