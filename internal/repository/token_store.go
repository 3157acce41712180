package repository

import (
	"context"
	"sync"
)

// TokenStore is the authoritative set of refresh tokens that may still be exchanged.
type TokenStore interface {
	Add(ctx context.Context, token string) error
	Contains(ctx context.Context, token string) (bool, error)
	// Remove deletes token if present; removing an absent token is not an error.
	Remove(ctx context.Context, token string) error
}

type memoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewMemoryTokenStore returns a process-lifetime store. Its contents are lost on restart.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{tokens: make(map[string]struct{})}
}

func (s *memoryTokenStore) Add(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return nil
}

func (s *memoryTokenStore) Contains(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok, nil
}

func (s *memoryTokenStore) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
