// Package middleware provides net/http middleware for the segmented session
// store and the request plumbing around it.
//
// Every middleware has the func(http.Handler) http.Handler shape, so it plugs
// into chi, http.ServeMux wrappers or any other router. Each one has a
// default constructor and a WithConfig variant, and most accept a Skip
// function to bypass specific requests.
//
// # Session Middleware
//
// Session starts a session for every request, makes it available through
// session.FromContext and commits it when the handler returns:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.Logging(log))
//	r.Use(middleware.SessionWithConfig(middleware.SessionConfig{
//		Provider:   provider,
//		AutoCommit: true,
//		Logger:     log,
//		Skip: func(r *http.Request) bool {
//			return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
//		},
//	}))
//
// A failed start is logged and answered by ErrorHandler (500 by default).
//
// # Request ID Middleware
//
// RequestID assigns a UUID to every request, stores it in the context and
// sends it in the X-Request-ID response header. GetRequestID reads it back.
//
// # Logging Middleware
//
// Logging writes one structured record per request with method, path,
// status, duration and request ID. 5xx responses are logged at error level,
// requests slower than SlowRequestThreshold at warning level.
//
// # Security Headers Middleware
//
// SecurityHeaders sets X-Frame-Options, HSTS, Referrer-Policy and related
// headers. StrictSecurity and BalancedSecurity are ready-made configurations;
// IsDevelopment drops HSTS.
package middleware
