// Package song defines the Song record model and its on-disk JSON codec.
//
// A song is one marker file (*.songbook) inside a library directory. The
// in-memory record is a value copy of the file contents: it is constructed
// on read, edited freely, and committed back with a single explicit write.
package song

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MarkerExt is the file extension that reclassifies a directory as a song.
const MarkerExt = ".songbook"

// Kind identifies what an entry holds.
type Kind string

// Entry kinds.
const (
	KindLyrics Kind = "lyrics"
	KindNotes  Kind = "notes"
	KindAudio  Kind = "audio"
	KindVideo  Kind = "video"
)

// validKinds are the allowed entry kinds.
var validKinds = []Kind{KindLyrics, KindNotes, KindAudio, KindVideo}

// IsValidKind checks if the kind is valid.
func IsValidKind(k Kind) bool {
	return slices.Contains(validKinds, k)
}

// Entry is one unit of content inside a song.
//
// Binary payloads are present only for audio/video kinds. Text is meaningful
// for lyrics/notes but is kept on all kinds so recordings can cache a
// transcript alongside their bytes.
//
// Fields are declared in sorted JSON-key order so encoding emits a canonical
// document.
type Entry struct {
	AudioData []byte    `json:"audioData"`
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Title     string    `json:"title"`
	Kind      Kind      `json:"type"`
	UpdatedAt time.Time `json:"updatedAt"`
	VideoData []byte    `json:"videoData"`
}

// Song is the decoded in-memory form of one marker file.
//
// Entries keep insertion order; that order is the display order. Path is the
// backing marker file location, assigned when the record is loaded or
// written, and never serialized.
//
// Fields are declared in sorted JSON-key order so encoding emits a canonical
// document.
type Song struct {
	CreatedAt time.Time `json:"createdAt"`
	Entries   []Entry   `json:"entries"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`

	Path string `json:"-"`
}

// Now returns the current UTC time at second precision, the resolution the
// on-disk format keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// NewID returns a fresh opaque identifier for records and entries.
func NewID() string {
	return uuid.NewString()
}

// New constructs a record for the given title with one default lyrics entry,
// so the UI never encounters an empty record.
func New(title string) *Song {
	now := Now()

	return &Song{
		ID:        NewID(),
		Title:     title,
		Entries:   []Entry{defaultLyricsEntry(now)},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewEntry constructs an entry of the given kind with fresh timestamps.
func NewEntry(kind Kind, title string) Entry {
	now := Now()

	return Entry{
		ID:        NewID(),
		Kind:      kind,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// defaultLyricsEntry is the empty lyrics entry a record falls back to; a
// record never holds zero entries.
func defaultLyricsEntry(at time.Time) Entry {
	return Entry{
		ID:        NewID(),
		Kind:      KindLyrics,
		Title:     "Lyrics",
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// PlainText flattens the record to the concatenated text of its lyrics and
// notes entries, in display order. This is the shape collaborators that only
// understand plain song text consume; they never see the file format.
func (s *Song) PlainText() string {
	var builder strings.Builder

	for _, entry := range s.Entries {
		if entry.Kind != KindLyrics && entry.Kind != KindNotes {
			continue
		}

		if entry.Text == "" {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}

		builder.WriteString(entry.Text)
	}

	return builder.String()
}
