package song

import (
	"encoding/json"
	"fmt"
	"time"
)

// Encode serializes a record to its canonical on-disk JSON form.
//
// The document is indented UTF-8 JSON with stable, sorted keys and RFC 3339
// timestamps, so the file stays legible when browsed through an ordinary
// file manager. Encode is a pure transform; it never touches the record.
func Encode(record *Song) ([]byte, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	data, marshalErr := json.MarshalIndent(record, "", "  ")
	if marshalErr != nil {
		return nil, fmt.Errorf("encoding song: %w", marshalErr)
	}

	return append(data, '\n'), nil
}

// songDocument mirrors the wire format with pointer fields so decode can
// distinguish absent fields from zero values.
type songDocument struct {
	ID        *string    `json:"id"`
	Title     *string    `json:"title"`
	Entries   *[]Entry   `json:"entries"`
	Text      *string    `json:"text"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Decode parses a marker file document into a record.
//
// Modern documents carry an entries array, which is used directly. A legacy
// document instead carries a top-level "text" string; it is normalized into
// a one-entry lyrics record inheriting the record's own timestamps. The
// normalization is one-way: writing the record back always emits the
// entries-array shape. A parseable document with neither shape decodes to
// zero entries and then gains one default empty lyrics entry so callers
// never see an empty record.
//
// Invalid JSON or missing required scalar fields fail with ErrMalformed.
func Decode(data []byte) (*Song, error) {
	var doc songDocument

	unmarshalErr := json.Unmarshal(data, &doc)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, unmarshalErr)
	}

	if doc.ID == nil || *doc.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformed)
	}

	if doc.Title == nil {
		return nil, fmt.Errorf("%w: missing title", ErrMalformed)
	}

	if doc.CreatedAt == nil || doc.UpdatedAt == nil {
		return nil, fmt.Errorf("%w: missing timestamps", ErrMalformed)
	}

	record := &Song{
		ID:        *doc.ID,
		Title:     *doc.Title,
		CreatedAt: *doc.CreatedAt,
		UpdatedAt: *doc.UpdatedAt,
	}

	entries, entriesErr := decodeEntries(&doc)
	if entriesErr != nil {
		return nil, entriesErr
	}

	record.Entries = entries

	return record, nil
}

// decodeEntries applies the three-step fallback: entries array, legacy text,
// then the non-empty default.
func decodeEntries(doc *songDocument) ([]Entry, error) {
	if doc.Entries != nil {
		entries := *doc.Entries

		for idx := range entries {
			validateErr := validateEntry(&entries[idx])
			if validateErr != nil {
				return nil, validateErr
			}
		}

		if len(entries) > 0 {
			return entries, nil
		}

		// Present but empty: recoverable, fall through to the default entry.
	} else if doc.Text != nil {
		// Legacy single-text document.
		return []Entry{{
			ID:        NewID(),
			Kind:      KindLyrics,
			Title:     "Lyrics",
			Text:      *doc.Text,
			CreatedAt: *doc.CreatedAt,
			UpdatedAt: *doc.UpdatedAt,
		}}, nil
	}

	return []Entry{defaultLyricsEntry(*doc.CreatedAt)}, nil
}

// validateEntry checks the scalar fields an entries-array element must carry.
// An entries array that is present but structurally invalid is malformed; the
// legacy fallback applies only when the array is absent entirely.
func validateEntry(entry *Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: entry missing id", ErrMalformed)
	}

	if !IsValidKind(entry.Kind) {
		return fmt.Errorf("%w: entry kind %q", ErrMalformed, entry.Kind)
	}

	return nil
}
