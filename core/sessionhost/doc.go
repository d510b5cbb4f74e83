// Package sessionhost provides the cookie-based session mechanism that
// github.com/dmitrymomot/segsession/core/session is layered on.
//
// A Provider is created once and holds the Store, the cookie.Manager used
// for the identity cookie and the host configuration. For binds it to a
// single request and returns a Mechanism, which implements session.Host,
// session.Cookies and session.Regenerator:
//
//	store := sessionhost.NewMemoryStore()
//	provider := sessionhost.NewProvider(store, cookies)
//
//	func handle(w http.ResponseWriter, r *http.Request) {
//		mech := provider.For(w, r)
//		sess := session.New(mech, mech)
//		if err := sess.Init(r.Context(), session.StartOptions{}, true, nil); err != nil {
//			http.Error(w, "session unavailable", http.StatusInternalServerError)
//			return
//		}
//		defer sess.Close(context.WithoutCancel(r.Context()))
//		sess.Segment("cart").Push("items", r.FormValue("sku"))
//	}
//
// # Identity
//
// Start reads the ID from the request cookie (verified when the cookie
// manager has secrets). Malformed or tampered IDs are replaced with a fresh
// one. In strict mode an ID the store does not know is replaced too; outside
// strict mode it is adopted. The identity cookie is sent when the ID is new
// and on every start when a cookie lifetime is configured.
//
// # Storage
//
// Data is stored as JSON through the Store interface. MemoryStore ships with
// this package; Redis and PostgreSQL stores live under integration/database.
// Records expire after the GC max lifetime measured from the last write.
// Touch writes a clean, previously stored session back so reading it also
// keeps it alive.
// Stored data that cannot be decoded is logged and replaced with an empty
// session.
//
// # Configuration
//
// Config is loaded from the environment (SESSION_NAME, SESSION_COOKIE_*,
// SESSION_GC_MAX_LIFETIME, SESSION_STRICT_MODE, SESSION_ID_FORMAT) and turned
// into a provider with NewProviderFromConfig.
package sessionhost
