package song

import "errors"

// Codec errors.
var (
	// ErrMalformed reports a document that is not valid JSON or is missing
	// required scalar fields (id, title, timestamps).
	ErrMalformed = errors.New("malformed song document")

	// ErrNilRecord reports an encode call with a nil record.
	ErrNilRecord = errors.New("record is nil")
)
