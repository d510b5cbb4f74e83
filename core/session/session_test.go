package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/segsession/core/session"
)

// fakeHost is an in-memory Host that counts writes.
type fakeHost struct {
	name     string
	id       string
	params   session.CookieParams
	data     session.Data
	started  bool
	startErr error

	writes     int
	writeErr   error
	destroys   int
	destroyErr error
	lastOpts   session.StartOptions
}

func newFakeHost(initial session.Data) *fakeHost {
	return &fakeHost{name: "SID", id: "abc123", data: initial}
}

func (h *fakeHost) Start(_ context.Context, opts session.StartOptions) error {
	if h.startErr != nil {
		return h.startErr
	}
	h.started = true
	h.lastOpts = opts
	return nil
}

func (h *fakeHost) Name() string { return h.name }
func (h *fakeHost) ID() string { return h.id }
func (h *fakeHost) CookieParams() session.CookieParams { return h.params }
func (h *fakeHost) SetCookieParams(p session.CookieParams) { h.params = p }
func (h *fakeHost) Data() session.Data { return h.data }
func (h *fakeHost) SetData(d session.Data) { h.data = d }

func (h *fakeHost) WriteClose(context.Context) error {
	h.writes++
	return h.writeErr
}

func (h *fakeHost) Destroy(context.Context) error {
	h.destroys++
	return h.destroyErr
}

// regenHost adds ID regeneration to fakeHost.
type regenHost struct {
	*fakeHost
	next string
}

func (h *regenHost) Regenerate(_ context.Context, _ bool) error {
	h.id = h.next
	return nil
}

// mockCookies implements session.Cookies for testing.
type mockCookies struct {
	mock.Mock
}

func (m *mockCookies) Expire(name string) {
	m.Called(name)
}

func (m *mockCookies) Mirror(name, value string) {
	m.Called(name, value)
}

func startedSession(t *testing.T, host session.Host, autoCommit bool) *session.Session {
	t.Helper()
	cookies := &mockCookies{}
	cookies.On("Mirror", mock.Anything, mock.Anything).Return()
	cookies.On("Expire", mock.Anything).Return()
	sess := session.New(host, cookies)
	require.NoError(t, sess.Init(context.Background(), session.StartOptions{}, autoCommit, nil))
	return sess
}

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("loads host data and captures identity", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(session.Data{"cart": {"items": []any{"a"}}})
		cookies := &mockCookies{}
		cookies.On("Mirror", "SID", "abc123").Return().Once()

		sess := session.New(host, cookies)
		assert.False(t, sess.Status())

		err := sess.Init(context.Background(), session.StartOptions{Name: "SID"}, false, nil)
		require.NoError(t, err)

		assert.True(t, sess.Status())
		assert.Equal(t, "SID", sess.Name())
		assert.Equal(t, "abc123", sess.ID())
		assert.Equal(t, "SID=abc123", sess.SID())
		assert.Equal(t, "SID", host.lastOpts.Name)
		assert.Equal(t, []any{"a"}, sess.Segment("cart").Get("items", nil))
		assert.Empty(t, sess.All())
		cookies.AssertExpectations(t)
	})

	t.Run("second init fails", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		err := sess.Init(context.Background(), session.StartOptions{}, false, nil)
		assert.ErrorIs(t, err, session.ErrAlreadyInitialized)
	})

	t.Run("init through a segment shares the flag", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		root := session.New(host, nil)
		seg := root.Segment("x")
		require.NoError(t, seg.Init(context.Background(), session.StartOptions{}, false, nil))

		assert.True(t, root.Status())
		assert.ErrorIs(t, root.Init(context.Background(), session.StartOptions{}, false, nil), session.ErrAlreadyInitialized)
	})

	t.Run("forwards cookie params", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		params := &session.CookieParams{Path: "/app", HTTPOnly: true, SameSite: "Strict"}
		sess := session.New(host, nil)
		require.NoError(t, sess.Init(context.Background(), session.StartOptions{}, false, params))

		assert.Equal(t, *params, sess.CookieParams())
	})

	t.Run("start failure leaves store uninitialized", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		host.startErr = errors.New("boom")
		sess := session.New(host, nil)

		err := sess.Init(context.Background(), session.StartOptions{}, false, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrStartFailed)
		assert.False(t, sess.Status())
	})

	t.Run("missing identity yields empty strings", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		host.id = ""
		cookies := &mockCookies{}
		sess := session.New(host, cookies)
		require.NoError(t, sess.Init(context.Background(), session.StartOptions{}, false, nil))

		assert.Empty(t, sess.SID())
		assert.Empty(t, sess.Name())
		assert.Empty(t, sess.ID())
		cookies.AssertNotCalled(t, "Mirror", mock.Anything, mock.Anything)
	})

	t.Run("mutating the store does not touch the host slot", func(t *testing.T) {
		t.Parallel()

		initial := session.Data{session.RootSegment: {"k": 1}}
		host := newFakeHost(initial)
		sess := startedSession(t, host, false)
		sess.Put("k", 2)

		assert.Equal(t, 1, initial[session.RootSegment]["k"])
	})
}

func TestSegment(t *testing.T) {
	t.Parallel()

	t.Run("root name returns receiver", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		assert.Same(t, sess, sess.Segment(session.RootSegment))
	})

	t.Run("segments are isolated", func(t *testing.T) {
		t.Parallel()

		root := startedSession(t, newFakeHost(nil), false)
		a := root.Segment("a")
		b := root.Segment("b")

		a.Put("k", "from-a")
		b.Put("k", "from-b")

		assert.Equal(t, map[string]any{"k": "from-a"}, a.All())
		assert.Equal(t, map[string]any{"k": "from-b"}, b.All())
		assert.False(t, root.Has("k"))
		assert.Equal(t, "b", b.SegmentName())
	})

	t.Run("siblings see each other's writes", func(t *testing.T) {
		t.Parallel()

		root := startedSession(t, newFakeHost(nil), false)
		first := root.Segment("shared")
		second := root.Segment("shared")

		first.Put("k", 1)
		assert.Equal(t, 1, second.Get("k", nil))
	})

	t.Run("commit through root persists segment data", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		root := startedSession(t, host, false)
		root.Segment("x").Put("k", "v")

		assert.True(t, root.IsDirty())
		require.NoError(t, root.Commit(context.Background()))

		assert.Equal(t, 1, host.writes)
		assert.Equal(t, "v", host.data["x"]["k"])
		assert.Contains(t, host.data, session.RootSegment)
		assert.False(t, root.IsDirty())
	})

	t.Run("creating a segment does not dirty the store", func(t *testing.T) {
		t.Parallel()

		root := startedSession(t, newFakeHost(nil), false)
		root.Segment("new")
		assert.False(t, root.IsDirty())
	})
}

func TestGet(t *testing.T) {
	t.Parallel()

	sess := startedSession(t, newFakeHost(nil), false)
	sess.Put("present", "value")

	tests := []struct {
		name string
		key  string
		def  any
		want any
	}{
		{name: "stored value", key: "present", def: "d", want: "value"},
		{name: "plain default", key: "missing", def: 42, want: 42},
		{name: "func default", key: "missing", def: func() any { return 42 }, want: 42},
		{name: "typed func default", key: "missing", def: func() int { return 7 }, want: 7},
		{name: "nil default", key: "missing", def: nil, want: nil},
		{name: "typed nil func default", key: "missing", def: (func() any)(nil), want: nil},
		{name: "typed nil func of other type", key: "missing", def: (func() int)(nil), want: nil},
		{name: "func default not called for present key", key: "present", def: func() any { panic("called") }, want: "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sess.Get(tt.key, tt.def))
		})
	}
}

func TestHas(t *testing.T) {
	t.Parallel()

	sess := startedSession(t, newFakeHost(nil), false)
	sess.Put("a", nil)

	assert.True(t, sess.Has("a"), "nil values still exist")
	assert.False(t, sess.Has("b"))
	assert.True(t, sess.HasAny("b", "a"))
	assert.False(t, sess.HasAny("b", "c"))
	assert.False(t, sess.HasAny())
}

func TestPush(t *testing.T) {
	t.Parallel()

	t.Run("absent key starts a list", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Push("list", "a")
		assert.Equal(t, []any{"a"}, sess.Get("list", nil))

		sess.Push("list", "b")
		assert.Equal(t, []any{"a", "b"}, sess.Get("list", nil))
		assert.True(t, sess.IsDirty())
	})

	t.Run("scalar is wrapped", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Put("list", "first")
		sess.Push("list", "second")
		assert.Equal(t, []any{"first", "second"}, sess.Get("list", nil))
	})

	t.Run("typed slices are converted", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Put("list", []string{"a"})
		sess.Push("list", "b").Push("list", "c")
		assert.Equal(t, []any{"a", "b", "c"}, sess.Get("list", nil))
	})

	t.Run("does not alias the previous slice", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		orig := make([]any, 1, 10)
		orig[0] = "a"
		sess.Put("list", orig)
		sess.Push("list", "b")

		assert.Len(t, orig, 1)
		assert.Equal(t, []any{"a", "b"}, sess.Get("list", nil))
	})
}

func TestPull(t *testing.T) {
	t.Parallel()

	sess := startedSession(t, newFakeHost(nil), false)
	sess.Put("k", 5)
	require.NoError(t, sess.Commit(context.Background()))

	assert.Equal(t, 5, sess.Pull("k", "d"))
	assert.False(t, sess.Has("k"))
	assert.True(t, sess.IsDirty())

	assert.Equal(t, "d", sess.Pull("k", "d"))

	var fn func() any
	assert.NotPanics(t, func() {
		assert.Nil(t, sess.Pull("missing", fn))
	})
}

func TestIncrementDecrement(t *testing.T) {
	t.Parallel()

	t.Run("absent key stores literal zero", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Increment("n")
		assert.Equal(t, 0, sess.Get("n", nil))
		assert.True(t, sess.IsDirty())

		sess.Increment("n")
		assert.Equal(t, 1, sess.Get("n", nil))

		sess.Increment("n", 5)
		assert.Equal(t, 6, sess.Get("n", nil))
	})

	t.Run("decrement mirrors increment", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Decrement("n", 3)
		assert.Equal(t, 0, sess.Get("n", nil))

		sess.Decrement("n", 3).Decrement("n")
		assert.Equal(t, -4, sess.Get("n", nil))
	})

	t.Run("keeps numeric kind", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Put("f", float64(1.5))
		sess.Put("i64", int64(10))
		sess.Increment("f").Increment("i64", 2)

		assert.Equal(t, float64(2.5), sess.Get("f", nil))
		assert.Equal(t, int64(12), sess.Get("i64", nil))
	})

	t.Run("non numeric value is left alone", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Put("s", "text")
		sess.Increment("s")
		assert.Equal(t, "text", sess.Get("s", nil))
	})
}

func TestRemoveAndForget(t *testing.T) {
	t.Parallel()

	t.Run("empty name is a no-op", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Put("", "kept")
		require.NoError(t, sess.Commit(context.Background()))

		sess.Remove("")
		assert.True(t, sess.Has(""))
		assert.False(t, sess.IsDirty())
	})

	t.Run("removes key and marks dirty", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.Put("k", 1)
		require.NoError(t, sess.Commit(context.Background()))

		sess.Remove("k")
		assert.False(t, sess.Has("k"))
		assert.True(t, sess.IsDirty())
	})

	t.Run("forget removes every key", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		sess.PutInRoot(map[string]any{"a": 1, "b": 2, "c": 3})
		sess.Forget("a", "c")
		assert.Equal(t, map[string]any{"b": 2}, sess.All())

		sess.Forget("b")
		assert.Empty(t, sess.All())
	})
}

func TestFlush(t *testing.T) {
	t.Parallel()

	t.Run("flush empties only the current segment", func(t *testing.T) {
		t.Parallel()

		root := startedSession(t, newFakeHost(nil), false)
		a := root.Segment("a")
		b := root.Segment("b")
		a.Put("k", 1)
		b.Put("k", 2)

		a.Flush()

		assert.Empty(t, a.All())
		assert.Equal(t, map[string]any{"k": 2}, b.All())
	})

	t.Run("flush all empties every segment", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		root := startedSession(t, host, false)
		root.Put("k", 0)
		root.Segment("a").Put("k", 1)
		b := root.Segment("b")
		b.Put("k", 2)

		root.FlushAll()

		assert.Empty(t, root.All())
		assert.Empty(t, b.All())

		b.Put("again", true)
		require.NoError(t, root.Commit(context.Background()))
		assert.Equal(t, session.Data{"b": {"again": true}}, host.data)
	})
}

func TestPutInRoot(t *testing.T) {
	t.Parallel()

	sess := startedSession(t, newFakeHost(nil), false)
	seg := sess.Segment("prefs")
	seg.Put("old", true)

	seg.PutInRoot(map[string]any{"theme": "dark"})
	assert.Equal(t, map[string]any{"theme": "dark"}, seg.All())

	seg.PutInRoot(nil)
	assert.Empty(t, seg.All())
	assert.True(t, sess.IsDirty())
}

func TestCommit(t *testing.T) {
	t.Parallel()

	t.Run("not dirty performs no write", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		sess := startedSession(t, host, false)
		require.NoError(t, sess.Commit(context.Background()))
		assert.Zero(t, host.writes)
	})

	t.Run("second commit is a no-op", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		sess := startedSession(t, host, false)
		sess.Put("k", "v")

		require.NoError(t, sess.Commit(context.Background()))
		require.NoError(t, sess.Commit(context.Background()))
		assert.Equal(t, 1, host.writes)
	})

	t.Run("write error is wrapped", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		host.writeErr = errors.New("disk full")
		sess := startedSession(t, host, false)
		sess.Put("k", "v")

		err := sess.Commit(context.Background())
		assert.ErrorIs(t, err, session.ErrCommitFailed)
		assert.ErrorIs(t, err, host.writeErr)
	})

	t.Run("committed data is detached from the store", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		sess := startedSession(t, host, false)
		sess.Put("k", "v")
		require.NoError(t, sess.Commit(context.Background()))

		sess.Put("k", "changed")
		assert.Equal(t, "v", host.data[session.RootSegment]["k"])
	})
}

func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("auto commit writes on close", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		sess := startedSession(t, host, true)
		sess.Segment("cart").Push("items", "a")

		require.NoError(t, sess.Close(context.Background()))
		assert.Equal(t, 1, host.writes)
		assert.Equal(t, []any{"a"}, host.data["cart"]["items"])
	})

	t.Run("without auto commit close is a no-op", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		sess := startedSession(t, host, false)
		sess.Put("k", "v")

		require.NoError(t, sess.Close(context.Background()))
		assert.Zero(t, host.writes)
		assert.True(t, sess.IsDirty())
	})

	t.Run("segments do not inherit auto commit", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		root := startedSession(t, host, true)
		seg := root.Segment("x")
		seg.Put("k", "v")

		require.NoError(t, seg.Close(context.Background()))
		assert.Zero(t, host.writes)

		require.NoError(t, root.Close(context.Background()))
		assert.Equal(t, 1, host.writes)
	})
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	t.Run("clears data and expires cookie", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(session.Data{"a": {"k": 1}})
		cookies := &mockCookies{}
		cookies.On("Mirror", "SID", "abc123").Return()
		cookies.On("Expire", "SID").Return().Once()

		sess := session.New(host, cookies)
		require.NoError(t, sess.Init(context.Background(), session.StartOptions{}, false, nil))

		sess.Destroy(context.Background())

		assert.Empty(t, sess.Segment("a").All())
		assert.Nil(t, host.data)
		assert.Equal(t, 1, host.destroys)
		assert.Equal(t, 1, host.writes)
		cookies.AssertExpectations(t)
	})

	t.Run("host failures are suppressed", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		host.destroyErr = errors.New("gone")
		host.writeErr = errors.New("closed")
		sess := startedSession(t, host, false)

		assert.NotPanics(t, func() { sess.Destroy(context.Background()) })
	})

	t.Run("does not depend on the dirty flag", func(t *testing.T) {
		t.Parallel()

		host := newFakeHost(nil)
		sess := startedSession(t, host, false)
		require.False(t, sess.IsDirty())

		sess.Destroy(context.Background())
		assert.Equal(t, 1, host.destroys)
	})
}

func TestRegenerate(t *testing.T) {
	t.Parallel()

	t.Run("updates cached id", func(t *testing.T) {
		t.Parallel()

		host := &regenHost{fakeHost: newFakeHost(nil), next: "fresh"}
		cookies := &mockCookies{}
		cookies.On("Mirror", "SID", "abc123").Return().Once()
		cookies.On("Mirror", "SID", "fresh").Return().Once()

		sess := session.New(host, cookies)
		require.NoError(t, sess.Init(context.Background(), session.StartOptions{}, false, nil))
		require.NoError(t, sess.Regenerate(context.Background(), true))

		assert.Equal(t, "fresh", sess.ID())
		assert.Equal(t, "SID=fresh", sess.SID())
		cookies.AssertExpectations(t)
	})

	t.Run("requires init", func(t *testing.T) {
		t.Parallel()

		sess := session.New(&regenHost{fakeHost: newFakeHost(nil)}, nil)
		assert.ErrorIs(t, sess.Regenerate(context.Background(), false), session.ErrNotInitialized)
	})

	t.Run("unsupported host", func(t *testing.T) {
		t.Parallel()

		sess := startedSession(t, newFakeHost(nil), false)
		assert.ErrorIs(t, sess.Regenerate(context.Background(), false), session.ErrRegenerateUnsupported)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	sess := session.New(newFakeHost(nil), nil)
	ctx := session.WithSession(context.Background(), sess)

	got, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Same(t, sess, session.MustFromContext(ctx))

	_, ok = session.FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { session.MustFromContext(context.Background()) })
}
