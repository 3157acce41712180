package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type redisTokenStore struct {
	client redis.SetCmdable
	key    string
}

// NewRedisTokenStore keeps refresh tokens as members of a single Redis set.
func NewRedisTokenStore(client redis.SetCmdable, key string) TokenStore {
	if key == "" {
		key = "auth:refresh_tokens"
	}
	return &redisTokenStore{client: client, key: key}
}

func (s *redisTokenStore) Add(ctx context.Context, token string) error {
	return s.client.SAdd(ctx, s.key, token).Err()
}

func (s *redisTokenStore) Contains(ctx context.Context, token string) (bool, error) {
	return s.client.SIsMember(ctx, s.key, token).Result()
}

func (s *redisTokenStore) Remove(ctx context.Context, token string) error {
	return s.client.SRem(ctx, s.key, token).Err()
}
