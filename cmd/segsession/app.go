package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/segsession/core/config"
	"github.com/dmitrymomot/segsession/core/cookie"
	"github.com/dmitrymomot/segsession/core/logger"
	"github.com/dmitrymomot/segsession/core/sessionhost"
	"github.com/dmitrymomot/segsession/core/sessionmetrics"
	"github.com/dmitrymomot/segsession/integration/database/pg"
	"github.com/dmitrymomot/segsession/integration/database/redis"
)

// app holds the wired dependencies of the serve command.
type app struct {
	log        *slog.Logger
	provider   *sessionhost.Provider
	registry   *prometheus.Registry
	checks     []func(context.Context) error
	sweeper    sessionhost.ExpiredDeleter
	autoCommit bool
	closers    []func()
}

func newApp(ctx context.Context, s settings, log *slog.Logger) (*app, error) {
	a := &app{
		log:        log,
		registry:   prometheus.NewRegistry(),
		autoCommit: s.App.AutoCommit,
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := a.openStore(ctx, s.App)
	if err != nil {
		a.close()
		return nil, err
	}

	cookies, err := cookie.NewFromConfig(s.Cookie)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("cookie manager: %w", err)
	}
	if !cookies.CanSign() {
		log.Warn("COOKIE_SECRETS is empty, session cookies are not signed", logger.Component("session"))
	}

	a.provider, err = sessionhost.NewProviderFromConfig(s.Session, store, cookies,
		sessionhost.WithLogger(log.With(logger.Component("session"))),
		sessionhost.WithObserver(sessionmetrics.New(a.registry)),
	)
	if err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

func (a *app) openStore(ctx context.Context, cfg appConfig) (sessionhost.Store, error) {
	a.log.Info("opening session store", logger.Store(cfg.Store))

	switch cfg.Store {
	case storeMemory:
		store := sessionhost.NewMemoryStore()
		a.sweeper = store
		return store, nil

	case storeRedis:
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.checks = append(a.checks, redis.Healthcheck(client))
		return redis.NewSessionStore(client, rc.KeyPrefix), nil

	case storePostgres:
		var pc pg.Config
		if err := config.Load(&pc); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		a.checks = append(a.checks, pg.Healthcheck(pool))

		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx, pool, pc, a.log.With(logger.Component("migrate"))); err != nil {
				return nil, err
			}
		}

		store := pg.NewSessionStore(pool)
		a.sweeper = store
		return store, nil
	}

	return nil, fmt.Errorf("%w: unknown session store %q", sessionhost.ErrInvalidConfig, cfg.Store)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
