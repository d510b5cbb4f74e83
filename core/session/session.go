package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"reflect"

	"github.com/dmitrymomot/segsession/core/logger"
)

// RootSegment is the segment addressed by handles returned from New.
const RootSegment = "_main"

// state is shared by a root handle and every handle derived from it.
type state struct {
	data        Data
	initialized bool
	changed     bool

	name string
	id   string

	host    Host
	cookies Cookies
	logger  *slog.Logger
}

// Session is a handle addressing one segment of a shared session store.
// Handles derived with Segment share the data, the init flag and the dirty
// flag with their parent, so a commit through any of them persists all segments.
//
// A Session is bound to one request and must not be used concurrently.
type Session struct {
	st         *state
	segment    string
	autoCommit bool
}

// Option configures a root session.
type Option func(*state)

// WithLogger sets the logger used for suppressed host failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *state) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an uninitialized root handle over the given host.
func New(host Host, cookies Cookies, opts ...Option) *Session {
	st := &state{
		data:    Data{},
		host:    host,
		cookies: cookies,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(st)
	}
	return &Session{st: st, segment: RootSegment}
}

// Segment returns a handle addressing the named segment.
// The root segment name yields the receiver itself.
func (s *Session) Segment(name string) *Session {
	if name == RootSegment {
		return s
	}
	seg := &Session{st: s.st, segment: name}
	seg.fields()
	return seg
}

// SegmentName returns the segment the handle addresses.
func (s *Session) SegmentName() string {
	return s.segment
}

// Init starts the host session and loads its data into the shared store.
// Passing a non-nil params forwards it to the host before the start.
// autoCommit makes Close commit the store.
func (s *Session) Init(ctx context.Context, opts StartOptions, autoCommit bool, params *CookieParams) error {
	if s.st.initialized {
		return ErrAlreadyInitialized
	}

	if params != nil {
		s.st.host.SetCookieParams(*params)
	}

	if err := s.st.host.Start(ctx, opts); err != nil {
		return errors.Join(ErrStartFailed, err)
	}

	name, id := s.st.host.Name(), s.st.host.ID()
	if name != "" && id != "" {
		s.st.name = name
		s.st.id = id
		if s.st.cookies != nil {
			s.st.cookies.Mirror(name, id)
		}
	}

	s.st.initialized = true
	s.autoCommit = autoCommit
	s.st.data = cloneData(s.st.host.Data())
	s.fields()

	return nil
}

// SID returns "name=id" or an empty string when the identity is unknown.
func (s *Session) SID() string {
	if s.st.name == "" || s.st.id == "" {
		return ""
	}
	return s.st.name + "=" + s.st.id
}

// Name returns the session name assigned by the host.
func (s *Session) Name() string {
	return s.st.name
}

// ID returns the session ID assigned by the host.
func (s *Session) ID() string {
	return s.st.id
}

// CookieParams returns the host's identity cookie parameters.
func (s *Session) CookieParams() CookieParams {
	return s.st.host.CookieParams()
}

// Status reports whether the shared store was initialized.
func (s *Session) Status() bool {
	return s.st.initialized
}

// IsDirty reports whether the shared store has uncommitted changes.
func (s *Session) IsDirty() bool {
	return s.st.changed
}

// HasAny reports whether at least one of the keys exists in the segment.
func (s *Session) HasAny(keys ...string) bool {
	for _, key := range keys {
		if s.Has(key) {
			return true
		}
	}
	return false
}

// Has reports whether key exists in the segment.
func (s *Session) Has(key string) bool {
	_, ok := s.fields()[key]
	return ok
}

// Flush empties the current segment.
func (s *Session) Flush() {
	s.st.data[s.segment] = map[string]any{}
	s.st.changed = true
}

// FlushAll empties every segment of the shared store.
func (s *Session) FlushAll() {
	s.st.data = Data{}
	s.st.changed = true
}

// Put stores value under name, replacing any previous value.
func (s *Session) Put(name string, value any) {
	s.fields()[name] = value
	s.st.changed = true
}

// PutInRoot replaces the whole segment with values.
func (s *Session) PutInRoot(values map[string]any) {
	if values == nil {
		values = map[string]any{}
	}
	s.st.data[s.segment] = values
	s.st.changed = true
}

// Push appends value to the list stored under name.
// A missing key starts an empty list and a scalar is wrapped into a
// single-element list first.
func (s *Session) Push(name string, value any) *Session {
	list := toList(s.Get(name, []any{}))
	list = append(list, value)
	s.Put(name, list)
	return s
}

// All returns the current segment's fields.
func (s *Session) All() map[string]any {
	fields, ok := s.st.data[s.segment]
	if !ok || fields == nil {
		return map[string]any{}
	}
	return fields
}

// Pull returns the value under name and removes it.
func (s *Session) Pull(name string, def any) any {
	v := s.Get(name, def)
	s.Remove(name)
	s.st.changed = true
	return v
}

// Increment adds by (default 1) to the number stored under name.
// A missing key is initialized to 0 without applying the delta.
func (s *Session) Increment(name string, by ...int) *Session {
	return s.add(name, delta(by))
}

// Decrement subtracts by (default 1) from the number stored under name.
// A missing key is initialized to 0 without applying the delta.
func (s *Session) Decrement(name string, by ...int) *Session {
	return s.add(name, -delta(by))
}

func (s *Session) add(name string, d int) *Session {
	if !s.Has(name) {
		s.Put(name, 0)
	} else {
		fields := s.fields()
		if v, ok := addNumber(fields[name], d); ok {
			fields[name] = v
		} else {
			s.st.logger.Debug("session: skipped arithmetic on non-numeric value",
				logger.Segment(s.segment), logger.Field(name))
		}
	}
	s.st.changed = true
	return s
}

// Get returns the value stored under name.
// When the key is missing, a zero-argument function default is called
// and its first result returned; a nil function yields nil and any other
// default is returned as is.
func (s *Session) Get(name string, def any) any {
	if v, ok := s.fields()[name]; ok {
		return v
	}
	return resolveDefault(def)
}

// Remove deletes name from the segment. An empty name is ignored.
func (s *Session) Remove(name string) {
	if name == "" {
		return
	}
	delete(s.fields(), name)
	s.st.changed = true
}

// Forget removes every given key.
func (s *Session) Forget(names ...string) {
	for _, name := range names {
		s.Remove(name)
	}
}

// Regenerate asks the host for a new session ID, keeping the data.
func (s *Session) Regenerate(ctx context.Context, deleteOld bool) error {
	if !s.st.initialized {
		return ErrNotInitialized
	}
	r, ok := s.st.host.(Regenerator)
	if !ok {
		return ErrRegenerateUnsupported
	}
	if err := r.Regenerate(ctx, deleteOld); err != nil {
		return err
	}
	s.st.id = s.st.host.ID()
	if s.st.cookies != nil && s.st.name != "" {
		s.st.cookies.Mirror(s.st.name, s.st.id)
	}
	return nil
}

// Destroy drops the session data in memory and on the host and expires the
// identity cookie. Host failures are logged and suppressed.
func (s *Session) Destroy(ctx context.Context) {
	s.st.data = Data{}

	if name := s.st.host.Name(); name != "" && s.st.cookies != nil {
		s.st.cookies.Expire(name)
	}

	s.st.host.SetData(nil)

	if err := s.st.host.Destroy(ctx); err != nil {
		s.st.logger.DebugContext(ctx, "session: host destroy failed",
			logger.SessionID(s.st.id), logger.Error(err))
	}
	if err := s.st.host.WriteClose(ctx); err != nil {
		s.st.logger.DebugContext(ctx, "session: host close after destroy failed",
			logger.SessionID(s.st.id), logger.Error(err))
	}
}

// Commit writes the shared store back to the host if anything changed.
func (s *Session) Commit(ctx context.Context) error {
	if !s.st.changed {
		return nil
	}
	s.st.changed = false
	s.st.host.SetData(cloneData(s.st.data))
	if err := s.st.host.WriteClose(ctx); err != nil {
		return errors.Join(ErrCommitFailed, err)
	}
	return nil
}

// Close ends the handle's scope: it commits when the handle was initialized
// with auto-commit and does nothing otherwise.
//
//	if err := sess.Init(ctx, session.StartOptions{}, true, nil); err != nil {
//		return err
//	}
//	defer sess.Close(ctx)
func (s *Session) Close(ctx context.Context) error {
	if !s.autoCommit {
		return nil
	}
	return s.Commit(ctx)
}

// fields returns the segment's map, creating it on first touch.
func (s *Session) fields() map[string]any {
	if s.st.data == nil {
		s.st.data = Data{}
	}
	fields, ok := s.st.data[s.segment]
	if !ok || fields == nil {
		fields = map[string]any{}
		s.st.data[s.segment] = fields
	}
	return fields
}

func delta(by []int) int {
	if len(by) == 0 {
		return 1
	}
	return by[0]
}

func resolveDefault(def any) any {
	if def == nil {
		return nil
	}
	if fn, ok := def.(func() any); ok {
		if fn == nil {
			return nil
		}
		return fn()
	}
	v := reflect.ValueOf(def)
	if v.Kind() == reflect.Func && v.IsNil() {
		return nil
	}
	if v.Kind() == reflect.Func && v.Type().NumIn() == 0 {
		out := v.Call(nil)
		if len(out) == 0 {
			return nil
		}
		return out[0].Interface()
	}
	return def
}

// toList returns a fresh []any holding the elements of v,
// or v itself as the only element when it is not a slice.
func toList(v any) []any {
	switch list := v.(type) {
	case []any:
		out := make([]any, len(list), len(list)+1)
		copy(out, list)
		return out
	case nil:
		return []any{nil}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len(), rv.Len()+1)
		for i := range rv.Len() {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// addNumber adds d to a numeric value keeping its kind.
func addNumber(v any, d int) (any, bool) {
	switch n := v.(type) {
	case int:
		return n + d, true
	case int8:
		return n + int8(d), true
	case int16:
		return n + int16(d), true
	case int32:
		return n + int32(d), true
	case int64:
		return n + int64(d), true
	case uint:
		return uint(int(n) + d), true
	case uint8:
		return uint8(int(n) + d), true
	case uint16:
		return uint16(int(n) + d), true
	case uint32:
		return uint32(int64(n) + int64(d)), true
	case uint64:
		return uint64(int64(n) + int64(d)), true
	case float32:
		return n + float32(d), true
	case float64:
		return n + float64(d), true
	}
	return v, false
}

// cloneData copies the segment maps so the store and the host slot never alias.
func cloneData(src Data) Data {
	dst := make(Data, len(src))
	for name, fields := range src {
		if fields == nil {
			dst[name] = map[string]any{}
			continue
		}
		dst[name] = maps.Clone(fields)
	}
	return dst
}
