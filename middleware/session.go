package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/segsession/core/logger"
	"github.com/dmitrymomot/segsession/core/session"
	"github.com/dmitrymomot/segsession/core/sessionhost"
)

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Provider creates the per-request session host (required).
	Provider *sessionhost.Provider
	// Options are passed to every session start.
	Options session.StartOptions
	// AutoCommit commits the session after the handler returns.
	AutoCommit bool
	// CookieParams overrides the identity cookie parameters when non-nil.
	CookieParams *session.CookieParams
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
	// ErrorHandler writes the response when the session cannot be started.
	// Default: 500 Internal Server Error.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Session creates middleware that starts a segmented session for every
// request, stores it in the request context and commits it after the
// handler returns.
//
//	r := chi.NewRouter()
//	r.Use(middleware.Session(provider))
//
//	r.Post("/cart", func(w http.ResponseWriter, r *http.Request) {
//		session.MustFromContext(r.Context()).Segment("cart").Push("items", r.FormValue("sku"))
//	})
func Session(provider *sessionhost.Provider) func(http.Handler) http.Handler {
	return SessionWithConfig(SessionConfig{
		Provider:   provider,
		AutoCommit: true,
	})
}

// SessionWithConfig creates a session middleware with custom configuration.
//
// Without AutoCommit handlers persist changes by calling Commit themselves.
// The commit runs on a context detached from request cancellation so a
// client disconnect does not lose the write. Commit failures are logged:
// the response has already been sent by then.
func SessionWithConfig(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Provider == nil {
		panic("session middleware: provider is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			mech := cfg.Provider.For(w, r)
			sess := session.New(mech, mech, session.WithLogger(cfg.Logger))

			if err := sess.Init(r.Context(), cfg.Options, cfg.AutoCommit, cfg.CookieParams); err != nil {
				cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to start session",
					logger.Method(r.Method), logger.Path(r.URL.Path), logger.Error(err))
				cfg.ErrorHandler(w, r, err)
				return
			}

			defer func() {
				ctx := context.WithoutCancel(r.Context())
				if err := sess.Close(ctx); err != nil {
					cfg.Logger.ErrorContext(ctx, "session middleware: failed to commit session",
						logger.SessionID(sess.ID()), logger.Error(err))
				}
				// Clean sessions are still written back so the store TTL restarts.
				if err := mech.Touch(ctx); err != nil {
					cfg.Logger.WarnContext(ctx, "session middleware: failed to refresh session",
						logger.SessionID(sess.ID()), logger.Error(err))
				}
			}()

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}
