package sessionhost

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/segsession/core/logger"
)

// ErrJanitorRunning is returned by Run when the janitor is already running.
var ErrJanitorRunning = errors.New("sessionhost: janitor already running")

// ExpiredDeleter is implemented by stores that keep expired records until
// they are swept.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Janitor periodically removes expired session records.
type Janitor struct {
	store    ExpiredDeleter
	interval time.Duration
	logger   *slog.Logger
	running  atomic.Bool
}

// JanitorOption configures a Janitor.
type JanitorOption func(*Janitor)

// WithSweepInterval sets how often expired records are removed (default: 1m).
func WithSweepInterval(d time.Duration) JanitorOption {
	return func(j *Janitor) {
		if d > 0 {
			j.interval = d
		}
	}
}

// WithJanitorLogger sets the janitor logger.
func WithJanitorLogger(l *slog.Logger) JanitorOption {
	return func(j *Janitor) {
		if l != nil {
			j.logger = l
		}
	}
}

// NewJanitor creates a janitor for store.
func NewJanitor(store ExpiredDeleter, opts ...JanitorOption) *Janitor {
	j := &Janitor{
		store:    store,
		interval: time.Minute,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run sweeps on every tick until ctx is done. Sweep failures are logged.
func (j *Janitor) Run(ctx context.Context) error {
	if !j.running.CompareAndSwap(false, true) {
		return ErrJanitorRunning
	}
	defer j.running.Store(false)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := time.Now()
			n, err := j.Sweep(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				j.logger.ErrorContext(ctx, "session sweep failed",
					logger.Component("janitor"), logger.Error(err))
				continue
			}
			if n > 0 {
				j.logger.DebugContext(ctx, "expired sessions removed",
					logger.Component("janitor"), slog.Int64("count", n), logger.Elapsed(start))
			}
		}
	}
}

// Sweep removes expired records once.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	return j.store.DeleteExpired(ctx)
}
