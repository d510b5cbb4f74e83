package sessionhost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/segsession/core/cookie"
	"github.com/dmitrymomot/segsession/core/logger"
	"github.com/dmitrymomot/segsession/core/session"
)

type status int

const (
	statusNone status = iota
	statusActive
	statusClosed
)

// Mechanism is the session host for one HTTP request. It implements
// session.Host, session.Cookies and session.Regenerator.
//
// A Mechanism must not be used concurrently.
type Mechanism struct {
	p *Provider
	w http.ResponseWriter
	r *http.Request

	name   string
	id     string
	params session.CookieParams
	data   session.Data
	status status
	ttl    time.Duration
	loaded bool
}

var (
	_ session.Host        = (*Mechanism)(nil)
	_ session.Cookies     = (*Mechanism)(nil)
	_ session.Regenerator = (*Mechanism)(nil)
)

// Start resolves the session ID from the request cookie, loads the stored
// data and sends the identity cookie when the ID is new or has a lifetime.
func (m *Mechanism) Start(ctx context.Context, opts session.StartOptions) error {
	if m.status == statusActive {
		return ErrAlreadyStarted
	}

	start := time.Now()
	err := m.start(ctx, opts)
	m.p.observer.ObserveHostOp(OpStart, err, time.Since(start))
	return err
}

func (m *Mechanism) start(ctx context.Context, opts session.StartOptions) error {
	if opts.Name != "" {
		m.name = opts.Name
	}
	if opts.CookieLifetime > 0 {
		m.params.Lifetime = opts.CookieLifetime
	}
	m.ttl = m.p.cfg.GCMaxLifetime
	if opts.GCMaxLifetime > 0 {
		m.ttl = opts.GCMaxLifetime
	}
	strict := m.p.cfg.StrictMode
	if opts.UseStrictMode != nil {
		strict = *opts.UseStrictMode
	}

	id, data, isNew, loaded, err := m.resolve(ctx, strict)
	if err != nil {
		return err
	}
	m.id = id
	m.data = data
	m.loaded = loaded

	if isNew || m.params.Lifetime > 0 {
		if err := m.sendCookie(); err != nil {
			return err
		}
	}

	m.status = statusActive
	if opts.ReadAndClose {
		m.status = statusClosed
	}
	return nil
}

// resolve picks the ID for this request and loads its data.
// isNew reports a freshly generated ID, loaded a record read from the store.
func (m *Mechanism) resolve(ctx context.Context, strict bool) (id string, data session.Data, isNew, loaded bool, err error) {
	if id := m.clientID(ctx); id != "" {
		raw, err := m.p.store.Read(ctx, id)
		switch {
		case err == nil:
			return id, m.decode(ctx, id, raw), false, true, nil
		case errors.Is(err, ErrNotFound):
			if !strict {
				return id, session.Data{}, false, false, nil
			}
			m.p.logger.DebugContext(ctx, "unknown session id rejected", logger.SessionID(id))
		default:
			return "", nil, false, false, fmt.Errorf("read session: %w", err)
		}
	}

	id, err = m.p.newID()
	if err != nil {
		return "", nil, false, false, errors.Join(ErrIDGeneration, err)
	}
	return id, session.Data{}, true, false, nil
}

// clientID returns the ID carried by the request cookie, or "" when the
// cookie is missing, tampered or malformed.
func (m *Mechanism) clientID(ctx context.Context) string {
	if m.r == nil {
		return ""
	}

	var (
		id  string
		err error
	)
	if m.p.cookies.CanSign() {
		id, err = m.p.cookies.GetSigned(m.r, m.name)
	} else {
		id, err = m.p.cookies.Get(m.r, m.name)
	}
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			m.p.logger.DebugContext(ctx, "session cookie rejected",
				logger.SessionName(m.name), logger.Error(err))
		}
		return ""
	}

	if !ValidID(id) {
		m.p.logger.DebugContext(ctx, "malformed session id rejected", logger.SessionName(m.name))
		return ""
	}
	return id
}

func (m *Mechanism) decode(ctx context.Context, id string, raw []byte) session.Data {
	data, err := decode(raw)
	if err != nil {
		m.p.logger.WarnContext(ctx, "stored session data discarded",
			logger.SessionID(id), logger.Error(err))
	}
	return data
}

func (m *Mechanism) sendCookie() error {
	if m.w == nil {
		return nil
	}

	opts := m.cookieOptions()
	if m.params.Lifetime > 0 {
		opts = append(opts, cookie.WithMaxAge(int(m.params.Lifetime.Seconds())))
	}

	if m.p.cookies.CanSign() {
		return m.p.cookies.SetSigned(m.w, m.name, m.id, opts...)
	}
	return m.p.cookies.Set(m.w, m.name, m.id, opts...)
}

// cookieOptions maps the identity cookie parameters to cookie attributes.
func (m *Mechanism) cookieOptions() []cookie.Option {
	path := m.params.Path
	if path == "" {
		path = "/"
	}
	return []cookie.Option{
		cookie.WithPath(path),
		cookie.WithDomain(m.params.Domain),
		cookie.WithSecure(m.params.Secure),
		cookie.WithHTTPOnly(m.params.HTTPOnly),
		cookie.WithSameSite(cookie.ParseSameSite(m.params.SameSite)),
	}
}

// Name returns the session (cookie) name.
func (m *Mechanism) Name() string {
	return m.name
}

// ID returns the current session ID, empty before Start.
func (m *Mechanism) ID() string {
	return m.id
}

// CookieParams returns the identity cookie parameters.
func (m *Mechanism) CookieParams() session.CookieParams {
	return m.params
}

// SetCookieParams updates the identity cookie parameters. Empty Path,
// Domain and SameSite keep their current values; Lifetime and the flags
// are replaced. It is ignored while the session is active.
func (m *Mechanism) SetCookieParams(params session.CookieParams) {
	if m.status == statusActive {
		m.p.logger.Warn("cookie params change ignored on active session", logger.SessionID(m.id))
		return
	}
	if params.Path == "" {
		params.Path = m.params.Path
	}
	if params.Path == "" {
		params.Path = "/"
	}
	if params.Domain == "" {
		params.Domain = m.params.Domain
	}
	if params.SameSite == "" {
		params.SameSite = m.params.SameSite
	}
	m.params = params
}

// Data returns the loaded session data.
func (m *Mechanism) Data() session.Data {
	if m.data == nil {
		return session.Data{}
	}
	return m.data
}

// SetData replaces the data written by WriteClose.
func (m *Mechanism) SetData(data session.Data) {
	m.data = data
}

// WriteClose persists the data and closes the session.
// It does nothing when the session is not active.
func (m *Mechanism) WriteClose(ctx context.Context) error {
	if m.status != statusActive {
		return nil
	}
	m.status = statusClosed

	start := time.Now()
	err := m.write(ctx)
	m.p.observer.ObserveHostOp(OpWrite, err, time.Since(start))
	return err
}

func (m *Mechanism) write(ctx context.Context) error {
	raw, err := encode(m.data)
	if err != nil {
		return err
	}
	return m.p.store.Write(ctx, m.id, raw, m.ttl)
}

// Touch closes a session that was loaded from the store and is still active,
// writing its data back unchanged so the record's TTL restarts. Sessions
// that were committed, destroyed or never stored are left alone.
func (m *Mechanism) Touch(ctx context.Context) error {
	if m.status != statusActive || !m.loaded {
		return nil
	}
	m.status = statusClosed

	start := time.Now()
	err := m.write(ctx)
	m.p.observer.ObserveHostOp(OpTouch, err, time.Since(start))
	return err
}

// Destroy removes the stored session. The session stops being active.
func (m *Mechanism) Destroy(ctx context.Context) error {
	if m.status != statusActive {
		return ErrNotStarted
	}
	m.status = statusNone
	m.data = nil

	start := time.Now()
	err := m.p.store.Destroy(ctx, m.id)
	m.p.observer.ObserveHostOp(OpDestroy, err, time.Since(start))
	return err
}

// Regenerate replaces the session ID keeping the data, optionally removing
// the old record, and sends the new identity cookie.
func (m *Mechanism) Regenerate(ctx context.Context, deleteOld bool) error {
	if m.status != statusActive {
		return ErrNotStarted
	}

	start := time.Now()
	err := m.regenerate(ctx, deleteOld)
	m.p.observer.ObserveHostOp(OpRegenerate, err, time.Since(start))
	return err
}

func (m *Mechanism) regenerate(ctx context.Context, deleteOld bool) error {
	id, err := m.p.newID()
	if err != nil {
		return errors.Join(ErrIDGeneration, err)
	}

	if deleteOld {
		if err := m.p.store.Destroy(ctx, m.id); err != nil {
			return fmt.Errorf("destroy old session: %w", err)
		}
	}

	m.id = id
	return m.sendCookie()
}

// Expire sends the named cookie already expired and hides it from the request.
func (m *Mechanism) Expire(name string) {
	if m.w != nil {
		m.p.cookies.Expire(m.w, name, m.cookieOptions()...)
	}
	cookie.Forget(m.r, name)
}

// Mirror makes value visible as the named request cookie, signed when the
// provider signs cookies.
func (m *Mechanism) Mirror(name, value string) {
	if m.p.cookies.CanSign() {
		signed, err := m.p.cookies.Sign(value)
		if err != nil {
			m.p.logger.Debug("cookie mirror skipped", logger.SessionName(name), logger.Error(err))
			return
		}
		value = signed
	}
	cookie.Mirror(m.r, name, value)
}
