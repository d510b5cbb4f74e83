package session

import "errors"

var (
	// ErrAlreadyInitialized is returned by Init when the shared store was started already.
	ErrAlreadyInitialized = errors.New("session: already initialized")
	// ErrStartFailed is returned when the host could not start the session.
	ErrStartFailed = errors.New("session: failed to start")
	// ErrCommitFailed is returned when the host could not persist the data.
	ErrCommitFailed = errors.New("session: failed to commit")
	// ErrRegenerateUnsupported is returned when the host cannot regenerate IDs.
	ErrRegenerateUnsupported = errors.New("session: host does not support id regeneration")
	// ErrNotInitialized is returned by operations that require a started session.
	ErrNotInitialized = errors.New("session: not initialized")
)
