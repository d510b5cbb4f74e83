package session

import (
	"context"
	"time"
)

// Data is the backing store of a session: segment name mapped to the
// segment's fields.
type Data map[string]map[string]any

// StartOptions configures a single session start.
// Zero values fall back to the host's configuration.
type StartOptions struct {
	// Name overrides the session (cookie) name.
	Name string
	// CookieLifetime overrides the identity cookie lifetime.
	CookieLifetime time.Duration
	// GCMaxLifetime overrides how long stored data is kept after the last write.
	GCMaxLifetime time.Duration
	// ReadAndClose loads the data and closes the session right away.
	// Subsequent writes to the host are ignored.
	ReadAndClose bool
	// UseStrictMode rejects client-supplied IDs that the host does not know.
	// Nil keeps the host default.
	UseStrictMode *bool
}

// CookieParams describes the identity cookie attributes.
type CookieParams struct {
	Lifetime time.Duration `json:"lifetime"`
	Path     string        `json:"path"`
	Domain   string        `json:"domain"`
	Secure   bool          `json:"secure"`
	HTTPOnly bool          `json:"httponly"`
	SameSite string        `json:"samesite"` // "Lax", "Strict", "None" or ""
}

// Host is the session mechanism the store is layered on.
// It owns ID generation, cookie transmission and persistence.
type Host interface {
	Start(ctx context.Context, opts StartOptions) error
	Name() string
	ID() string
	CookieParams() CookieParams
	SetCookieParams(params CookieParams)
	// Data returns the host's session data slot, read once at init.
	Data() Data
	// SetData replaces the host's session data slot, written once at commit.
	SetData(data Data)
	// WriteClose persists the data slot and closes the session.
	WriteClose(ctx context.Context) error
	Destroy(ctx context.Context) error
}

// Cookies is the request/response cookie view used for the identity cookie.
type Cookies interface {
	// Expire sends the named cookie with an empty value and a past expiry
	// on path "/" and removes it from the incoming request view.
	Expire(name string)
	// Mirror makes value visible as the named incoming request cookie.
	Mirror(name, value string)
}

// Regenerator is implemented by hosts able to replace the session ID
// while keeping its data.
type Regenerator interface {
	Regenerate(ctx context.Context, deleteOld bool) error
}
