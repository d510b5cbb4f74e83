package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/segsession/core/health"
	"github.com/dmitrymomot/segsession/core/logger"
	"github.com/dmitrymomot/segsession/core/session"
	"github.com/dmitrymomot/segsession/middleware"
)

// Segment names used by the demo handlers.
const (
	segmentCart  = "cart"
	segmentFlash = "flash"
	segmentAuth  = "auth"
)

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: a.log,
		Skip:   isProbe,
	}))

	r.Get("/livez", health.Liveness)
	r.Get("/healthz", health.Readiness(a.log, a.checks...))
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders())
		r.Use(middleware.SessionWithConfig(middleware.SessionConfig{
			Provider:   a.provider,
			AutoCommit: a.autoCommit,
			Logger:     a.log,
		}))
		if !a.autoCommit {
			r.Use(commitAfter(a.log))
		}

		r.Get("/", visits)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", showCart)
			r.Post("/", addToCart)
			r.Delete("/", clearCart)
		})

		r.Get("/flash", readFlash)
		r.Post("/flash", writeFlash)

		r.Post("/login", login(a.log))
		r.Post("/logout", logout)
	})

	return r
}

func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/livez", "/healthz", "/metrics":
		return true
	}
	return false
}

// commitAfter commits the session explicitly when auto-commit is disabled.
func commitAfter(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if sess, ok := session.FromContext(r.Context()); ok {
				if err := sess.Commit(r.Context()); err != nil {
					log.ErrorContext(r.Context(), "session commit failed", logger.Error(err))
				}
			}
		})
	}
}

// visits counts requests in the root segment.
func visits(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	sess.Increment("visits")

	writeJSON(w, http.StatusOK, map[string]any{
		"sid":    sess.SID(),
		"visits": sess.Get("visits", 0),
		"user":   sess.Segment(segmentAuth).Get("user", nil),
	})
}

func showCart(w http.ResponseWriter, r *http.Request) {
	cart := session.MustFromContext(r.Context()).Segment(segmentCart)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": cart.Get("items", func() any { return []any{} }),
	})
}

func addToCart(w http.ResponseWriter, r *http.Request) {
	sku := r.FormValue("sku")
	if sku == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "sku is required"})
		return
	}

	cart := session.MustFromContext(r.Context()).Segment(segmentCart)
	cart.Push("items", sku).Increment("count")

	writeJSON(w, http.StatusCreated, map[string]any{
		"items": cart.Get("items", nil),
	})
}

func clearCart(w http.ResponseWriter, r *http.Request) {
	session.MustFromContext(r.Context()).Segment(segmentCart).Flush()
	w.WriteHeader(http.StatusNoContent)
}

func writeFlash(w http.ResponseWriter, r *http.Request) {
	msg := r.FormValue("message")
	if msg == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "message is required"})
		return
	}
	session.MustFromContext(r.Context()).Segment(segmentFlash).Put("message", msg)
	w.WriteHeader(http.StatusNoContent)
}

// readFlash returns the flash message once.
func readFlash(w http.ResponseWriter, r *http.Request) {
	flash := session.MustFromContext(r.Context()).Segment(segmentFlash)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": flash.Pull("message", ""),
	})
}

// login stores the user in the auth segment under a fresh session ID.
func login(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.FormValue("user")
		if user == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "user is required"})
			return
		}

		sess := session.MustFromContext(r.Context())
		if err := sess.Regenerate(r.Context(), true); err != nil {
			log.ErrorContext(r.Context(), "session regenerate failed", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "login failed"})
			return
		}
		sess.Segment(segmentAuth).Put("user", user)

		writeJSON(w, http.StatusOK, map[string]any{"user": user, "sid": sess.SID()})
	}
}

func logout(w http.ResponseWriter, r *http.Request) {
	session.MustFromContext(r.Context()).Destroy(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
