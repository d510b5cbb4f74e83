package redis_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/segsession/core/session"
	"github.com/dmitrymomot/segsession/core/sessionhost"
	"github.com/dmitrymomot/segsession/integration/database/redis"
)

func newStore(t *testing.T) (*redis.SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewSessionStore(client, "test:"), mr
}

func TestSessionStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("write read destroy", func(t *testing.T) {
		t.Parallel()

		store, mr := newStore(t)
		require.NoError(t, store.Write(ctx, "abc", []byte(`{"_main":{}}`), time.Minute))

		assert.True(t, mr.Exists("test:abc"))
		assert.Equal(t, time.Minute, mr.TTL("test:abc"))

		raw, err := store.Read(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, `{"_main":{}}`, string(raw))

		require.NoError(t, store.Destroy(ctx, "abc"))
		_, err = store.Read(ctx, "abc")
		assert.ErrorIs(t, err, sessionhost.ErrNotFound)

		assert.NoError(t, store.Destroy(ctx, "abc"))
	})

	t.Run("expiry", func(t *testing.T) {
		t.Parallel()

		store, mr := newStore(t)
		require.NoError(t, store.Write(ctx, "abc", []byte("x"), time.Minute))

		mr.FastForward(2 * time.Minute)

		_, err := store.Read(ctx, "abc")
		assert.ErrorIs(t, err, sessionhost.ErrNotFound)
	})

	t.Run("no ttl", func(t *testing.T) {
		t.Parallel()

		store, mr := newStore(t)
		require.NoError(t, store.Write(ctx, "abc", []byte("x"), 0))
		assert.Zero(t, mr.TTL("test:abc"))
	})

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		_, err := store.Read(ctx, "")
		assert.ErrorIs(t, err, sessionhost.ErrInvalidID)
		assert.ErrorIs(t, store.Write(ctx, "", nil, 0), sessionhost.ErrInvalidID)
	})
}

func TestConnect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		cfg := redis.DefaultConfig()
		cfg.ConnectionURL = "redis://" + mr.Addr() + "/0"

		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, redis.Healthcheck(client)(ctx))
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("bad scheme", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "http://localhost:6379"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Connect(ctx, redis.Config{
			ConnectionURL:  "redis://" + addr,
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: 2 * time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})

	t.Run("healthcheck failure", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
		defer client.Close()
		mr.Close()

		assert.ErrorIs(t, redis.Healthcheck(client)(ctx), redis.ErrHealthcheckFailed)
	})
}

func TestSessionStoreBacksProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newStore(t)
	provider := sessionhost.NewProvider(store, nil)

	w := httptest.NewRecorder()
	mech := provider.For(w, httptest.NewRequest(http.MethodGet, "/", nil))
	sess := session.New(mech, mech)
	require.NoError(t, sess.Init(ctx, session.StartOptions{}, true, nil))
	sess.Segment("cart").Put("total", 42)
	require.NoError(t, sess.Close(ctx))

	raw, err := mr.Get("test:" + sess.ID())
	require.NoError(t, err)
	assert.JSONEq(t, `{"_main":{},"cart":{"total":42}}`, raw)
	assert.Equal(t, 24*time.Minute, mr.TTL("test:"+sess.ID()))
}
