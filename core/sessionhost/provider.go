package sessionhost

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/segsession/core/cookie"
)

// Provider creates per-request Mechanisms over a shared store.
// It is safe for concurrent use.
type Provider struct {
	store    Store
	cookies  *cookie.Manager
	cfg      Config
	newID    IDGenerator
	logger   *slog.Logger
	observer Observer
}

// Option configures a Provider.
type Option func(*Provider)

// WithConfig replaces the provider configuration.
func WithConfig(cfg Config) Option {
	return func(p *Provider) {
		p.cfg = cfg
	}
}

// WithLogger sets the logger for suppressed failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver sets the observer notified after every host operation.
func WithObserver(o Observer) Option {
	return func(p *Provider) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(p *Provider) {
		if g != nil {
			p.newID = g
		}
	}
}

// NewProvider creates a provider. A nil cookie manager means plain, unsigned cookies.
func NewProvider(store Store, cookies *cookie.Manager, opts ...Option) *Provider {
	if cookies == nil {
		// Without secrets New cannot fail.
		cookies, _ = cookie.New(nil)
	}

	p := &Provider{
		store:    store,
		cookies:  cookies,
		cfg:      DefaultConfig(),
		newID:    RandomID,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewProviderFromConfig validates cfg and creates a provider using the
// ID generator it names. Options are applied after the config.
func NewProviderFromConfig(cfg Config, store Store, cookies *cookie.Manager, opts ...Option) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gen, err := GeneratorFor(cfg.IDFormat)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithConfig(cfg), WithIDGenerator(gen)}, opts...)
	return NewProvider(store, cookies, opts...), nil
}

// Config returns the provider configuration.
func (p *Provider) Config() Config {
	return p.cfg
}

// Store returns the backing store.
func (p *Provider) Store() Store {
	return p.store
}

// For returns a mechanism bound to one request/response pair.
func (p *Provider) For(w http.ResponseWriter, r *http.Request) *Mechanism {
	return &Mechanism{
		p:      p,
		w:      w,
		r:      r,
		name:   p.cfg.Name,
		params: p.cfg.CookieParams(),
	}
}
