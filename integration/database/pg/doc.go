// Package pg provides PostgreSQL connection management, schema migrations,
// health checking and a PostgreSQL-backed session store.
//
// Connect creates a pgx connection pool and pings it with exponential
// backoff. Migrate applies the embedded migrations with goose through a
// database/sql handle opened over the same pool:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		return err
//	}
//
//	store := pg.NewSessionStore(pool)
//	provider := sessionhost.NewProvider(store, cookies)
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Session Store
//
// SessionStore keeps one row per session in the sessions table (id, jsonb
// data, expires_at). Reads ignore expired rows; DeleteExpired removes them.
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context and TxFromContext retrieves it.
// SessionStore runs its queries inside such a transaction when present, so
// session writes can commit atomically with domain writes:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//
//	ctx = pg.WithTx(ctx, tx)
//	if err := store.Write(ctx, id, data, ttl); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
//
// # Errors
//
//   - ErrEmptyConnectionString, ErrFailedToParseDBConfig, ErrFailedToOpenDBConnection
//   - ErrHealthcheckFailed
//   - ErrFailedToApplyMigrations
//
// IsNotFoundError and IsTxClosedError classify pgx errors.
package pg
