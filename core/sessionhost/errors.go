package sessionhost

import "errors"

var (
	// ErrNotFound is returned by stores when no live record exists for an ID.
	ErrNotFound = errors.New("sessionhost: session not found")
	// ErrNotStarted is returned by operations that need an active session.
	ErrNotStarted = errors.New("sessionhost: session not started")
	// ErrAlreadyStarted is returned when Start is called on an active session.
	ErrAlreadyStarted = errors.New("sessionhost: session already started")
	// ErrInvalidID is returned by stores for empty or malformed IDs.
	ErrInvalidID = errors.New("sessionhost: invalid session id")
	// ErrIDGeneration is returned when a new session ID cannot be generated.
	ErrIDGeneration = errors.New("sessionhost: failed to generate session id")
	// ErrEncode is returned when session data cannot be serialized.
	ErrEncode = errors.New("sessionhost: failed to encode session data")
	// ErrDecode wraps stored data that cannot be deserialized.
	ErrDecode = errors.New("sessionhost: failed to decode session data")
	// ErrInvalidConfig is returned for unusable configuration values.
	ErrInvalidConfig = errors.New("sessionhost: invalid configuration")
)
