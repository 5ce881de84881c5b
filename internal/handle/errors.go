package handle

import "errors"

// Handle errors. Unset and stale are deliberately distinct so a caller can
// prompt for re-selection instead of first-run setup.
var (
	// ErrUnset reports that no root handle has been configured yet.
	ErrUnset = errors.New("no root handle configured")

	// ErrStale reports a persisted handle whose underlying directory is no
	// longer valid (moved, deleted, or permission revoked).
	ErrStale = errors.New("root handle is stale")

	// ErrNotDirectory reports an attempt to save a handle to something that
	// is not a directory.
	ErrNotDirectory = errors.New("root handle target is not a directory")

	// ErrAccessTimeout reports that the scoped access lock could not be
	// acquired in time.
	ErrAccessTimeout = errors.New("access lock timeout")
)
