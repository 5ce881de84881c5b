package library

import "errors"

// Scan errors.
var (
	// ErrUnreadable reports a directory that cannot be enumerated (permission
	// revoked, directory deleted, handle stale). Callers must treat this as
	// "this level is currently unavailable", not as an empty level.
	ErrUnreadable = errors.New("directory unreadable")

	// ErrNotDirectory reports a scan target that exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)
