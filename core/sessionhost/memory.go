package sessionhost

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps session records in process memory.
// Suitable for tests and single-instance deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Read returns a copy of the data stored for id.
func (s *MemoryStore) Read(_ context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()

	if !ok || s.expired(item) {
		return nil, ErrNotFound
	}
	return slices.Clone(item.data), nil
}

// Write stores a copy of data for id.
func (s *MemoryStore) Write(_ context.Context, id string, data []byte, ttl time.Duration) error {
	if id == "" {
		return ErrInvalidID
	}

	item := memoryItem{data: slices.Clone(data)}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[id] = item
	s.mu.Unlock()
	return nil
}

// Destroy removes the record for id.
func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// DeleteExpired removes expired records and returns how many were removed.
func (s *MemoryStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, item := range s.items {
		if s.expired(item) {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of records, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) expired(item memoryItem) bool {
	return !item.expiresAt.IsZero() && !s.now().Before(item.expiresAt)
}
