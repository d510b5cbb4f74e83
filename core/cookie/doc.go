// Package cookie provides HTTP cookie helpers used to carry the session
// identity: a Manager with secure defaults, optional HMAC-SHA256 signing with
// key rotation, size limits, and helpers that rewrite the incoming request's
// cookie view.
//
// # Basic Usage
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")},
//		cookie.WithSecure(true),
//	)
//	if err != nil {
//		return err
//	}
//
//	// Plain value
//	err = m.Set(w, "theme", "dark", cookie.WithMaxAge(3600))
//
//	// Signed value; tampering is detected on read
//	err = m.SetSigned(w, "sid", id)
//	id, err := m.GetSigned(r, "sid")
//
//	// Expire on the client
//	m.Expire(w, "sid", cookie.WithDomain("example.com"))
//
// A manager created without secrets works for plain cookies; Sign, Verify,
// SetSigned and GetSigned return ErrNoSecret.
//
// # Key Rotation
//
// The first secret signs new values, every secret is tried on verification:
//
//	m, _ := cookie.New([]string{newSecret, oldSecret})
//
// # Request View
//
// Mirror and Forget rewrite the request's Cookie header so code running
// later in the same request observes a cookie that was just issued or expired:
//
//	cookie.Mirror(r, "sid", id)
//	cookie.Forget(r, "sid")
//
// # Configuration
//
// Config maps COOKIE_* environment variables; NewFromConfig builds a Manager
// from it. COOKIE_SECRETS accepts a comma-separated list.
package cookie
