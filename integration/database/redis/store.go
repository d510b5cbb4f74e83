package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/segsession/core/sessionhost"
)

// SessionStore keeps session records as plain string keys with a TTL.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

var _ sessionhost.Store = (*SessionStore)(nil)

// NewSessionStore creates a store over client. Keys are prefix+id.
func NewSessionStore(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

// Read returns the data stored for id or sessionhost.ErrNotFound.
func (s *SessionStore) Read(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, sessionhost.ErrInvalidID
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sessionhost.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write stores data for id. A non-positive ttl stores the key without expiry.
func (s *SessionStore) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if id == "" {
		return sessionhost.ErrInvalidID
	}
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, s.key(id), data, ttl).Err()
}

// Destroy removes the key for id.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}
