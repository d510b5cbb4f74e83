package sessionhost

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/segsession/core/session"
)

// Config provides environment-based configuration for the session host.
type Config struct {
	// Name is the identity cookie name.
	Name string `env:"SESSION_NAME" envDefault:"SEGSESSID"`

	// CookieLifetime is the identity cookie lifetime; zero means a browser-session cookie.
	CookieLifetime time.Duration `env:"SESSION_COOKIE_LIFETIME" envDefault:"0s"`
	CookiePath     string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain   string        `env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string        `env:"SESSION_COOKIE_SAME_SITE" envDefault:"Lax"`

	// GCMaxLifetime is how long stored data is kept after the last write.
	GCMaxLifetime time.Duration `env:"SESSION_GC_MAX_LIFETIME" envDefault:"24m"`

	// StrictMode rejects client-supplied IDs unknown to the store.
	StrictMode bool `env:"SESSION_STRICT_MODE" envDefault:"true"`

	// IDFormat selects the ID generator: "random" or "uuid".
	IDFormat string `env:"SESSION_ID_FORMAT" envDefault:"random"`
}

// DefaultConfig returns a Config with the same values as the env defaults.
func DefaultConfig() Config {
	return Config{
		Name:           "SEGSESSID",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		GCMaxLifetime:  24 * time.Minute,
		StrictMode:     true,
		IDFormat:       "random",
	}
}

// Validate checks the values that have no usable fallback.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty session name", ErrInvalidConfig)
	}
	if c.CookieLifetime < 0 || c.GCMaxLifetime < 0 {
		return fmt.Errorf("%w: negative lifetime", ErrInvalidConfig)
	}
	if _, err := GeneratorFor(c.IDFormat); err != nil {
		return err
	}
	return nil
}

// CookieParams returns the identity cookie parameters described by the config.
func (c Config) CookieParams() session.CookieParams {
	return session.CookieParams{
		Lifetime: c.CookieLifetime,
		Path:     c.CookiePath,
		Domain:   c.CookieDomain,
		Secure:   c.CookieSecure,
		HTTPOnly: c.CookieHTTPOnly,
		SameSite: c.CookieSameSite,
	}
}
