package sessionhost

import (
	"context"
	"time"
)

// Store persists encoded session data by ID.
// Implementations must be safe for concurrent use.
type Store interface {
	// Read returns the data stored for id or ErrNotFound.
	Read(ctx context.Context, id string) ([]byte, error)
	// Write stores data for id. A positive ttl bounds the record's lifetime.
	Write(ctx context.Context, id string, data []byte, ttl time.Duration) error
	// Destroy removes the record for id. Missing records are not an error.
	Destroy(ctx context.Context, id string) error
}
