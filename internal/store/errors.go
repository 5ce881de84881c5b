package store

import "errors"

// Record store errors. Every operation reports a typed failure; nothing is
// retried automatically.
var (
	// ErrCreateFailed reports an I/O failure while creating a song folder or
	// its marker file.
	ErrCreateFailed = errors.New("create song failed")

	// ErrWriteFailed reports an I/O failure while writing a record back to
	// its marker file.
	ErrWriteFailed = errors.New("write song failed")

	// ErrDeleteFailed reports an I/O failure while removing a song folder.
	ErrDeleteFailed = errors.New("delete song failed")

	// ErrMarkerExists reports a convert on a directory that already holds a
	// marker file; convert is only valid on a category.
	ErrMarkerExists = errors.New("marker file already exists")

	// ErrNoMarkerPath reports a write on a record that has no backing marker
	// file location assigned.
	ErrNoMarkerPath = errors.New("record has no marker path")

	// ErrUnsafePath reports a delete aimed at an empty path or a filesystem
	// root.
	ErrUnsafePath = errors.New("refusing to delete unsafe path")
)
