// Package session provides a segmented key-value store over a host session
// mechanism, with batched, deferred write-back.
//
// A root *Session addresses the "_main" segment. Segment returns handles for
// other segments; all of them share one backing store, one init flag and one
// dirty flag, so mutations through any handle are visible to its siblings and
// a single Commit persists every segment.
//
// # Basic Usage
//
//	sess := session.New(host, cookies)
//	if err := sess.Init(ctx, session.StartOptions{}, true, nil); err != nil {
//		return err
//	}
//	defer sess.Close(ctx) // commits because autoCommit is true
//
//	sess.Increment("visits")
//
//	cart := sess.Segment("cart")
//	cart.Push("items", "sku-42")
//
//	flash := sess.Segment("flash")
//	msg := flash.Pull("notice", "")
//
// Values are any JSON-compatible Go value. Get accepts a default that is
// returned for missing keys; a zero-argument function default is called
// instead:
//
//	theme := sess.Get("theme", func() any { return loadTheme() })
//
// # Commit
//
// Mutations only mark the shared store dirty. Commit writes the whole store
// back through Host.WriteClose when dirty and is a no-op otherwise, so it is
// safe to call from several places. Close commits only for handles
// initialized with autoCommit.
//
// # Host
//
// The package does not generate IDs, send cookies or store anything on its
// own. A Host implementation (see core/sessionhost) provides those; Cookies
// exposes the identity cookie for Destroy and for mirroring the ID into the
// incoming request.
//
// # Errors
//
//   - ErrAlreadyInitialized: Init called on an already started store
//   - ErrStartFailed: the host failed to start the session
//   - ErrCommitFailed: the host failed to persist the data
//   - ErrNotInitialized, ErrRegenerateUnsupported: Regenerate preconditions
//
// Host failures during Destroy are logged at debug level and suppressed.
package session
