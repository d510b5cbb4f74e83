// Package redis provides Redis client initialization, health checking and a
// Redis-backed session store.
//
// Connect validates the redis:// or rediss:// URL, creates a go-redis client
// and pings it with exponential backoff before returning it:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  time.Second,
//		ConnectTimeout: 30 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Configuration is loaded from REDIS_URL, REDIS_RETRY_ATTEMPTS,
// REDIS_RETRY_INTERVAL, REDIS_CONNECT_TIMEOUT and REDIS_SESSION_PREFIX.
//
// # Session Store
//
// SessionStore implements sessionhost.Store. Each session is one string key
// (prefix + session ID) holding the encoded data, written with SET and the
// host's GC max lifetime as TTL, so Redis expires idle sessions by itself:
//
//	store := redis.NewSessionStore(client, cfg.KeyPrefix)
//	provider := sessionhost.NewProvider(store, cookies)
//
// # Health Checking
//
// Healthcheck returns a function that pings the client, suitable for
// readiness endpoints.
//
// # Errors
//
//   - ErrFailedToParseRedisConnString: the connection URL is malformed
//   - ErrRedisNotReady: Redis did not answer within the retry budget
//   - ErrEmptyConnectionURL: no connection URL was provided
//   - ErrHealthcheckFailed: the health check ping failed
package redis
