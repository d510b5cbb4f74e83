package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/segsession/core/sessionhost"
)

const (
	readSessionQuery = `SELECT data FROM sessions
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())`
	writeSessionQuery = `INSERT INTO sessions (id, data, expires_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = now()`
	destroySessionQuery = `DELETE FROM sessions WHERE id = $1`
	deleteExpiredQuery  = `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= now()`
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionStore keeps session records in the sessions table.
// Operations join a transaction attached to the context with WithTx.
type SessionStore struct {
	pool *pgxpool.Pool
}

var _ sessionhost.Store = (*SessionStore)(nil)

// NewSessionStore creates a store over pool. Run Migrate first.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) db(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

// Read returns the data of a live session or sessionhost.ErrNotFound.
func (s *SessionStore) Read(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, sessionhost.ErrInvalidID
	}

	var data []byte
	if err := s.db(ctx).QueryRow(ctx, readSessionQuery, id).Scan(&data); err != nil {
		if IsNotFoundError(err) {
			return nil, sessionhost.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write upserts data for id. A non-positive ttl never expires.
func (s *SessionStore) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if id == "" {
		return sessionhost.ErrInvalidID
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	_, err := s.db(ctx).Exec(ctx, writeSessionQuery, id, data, expiresAt)
	return err
}

// Destroy deletes the record for id.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	_, err := s.db(ctx).Exec(ctx, destroySessionQuery, id)
	return err
}

// DeleteExpired removes expired records and returns how many were removed.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db(ctx).Exec(ctx, deleteExpiredQuery)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
