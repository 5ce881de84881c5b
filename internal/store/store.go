// Package store performs the mutations of the song library: creating song
// folders, converting plain folders into songs in place, writing records
// back, and deleting songs.
//
// Each operation is independently atomic at the single-file level; there are
// no cross-file transactions. Marker writes go through an atomic replace
// (write-to-temp-then-rename), so a reader always observes either the old or
// the new complete content, never a torn file. The store assumes a single
// writer per application instance and takes no lock against external
// processes mutating the same tree; a cloud sync agent racing a save is
// last-write-wins.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"songbook/internal/library"
	"songbook/internal/song"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// Create makes a new song folder under parentDir and writes a fresh record
// into it. The folder is named from a filesystem-sanitized version of title;
// the marker file keeps the sanitized title plus the marker extension.
//
// A failure after the folder exists but before the marker is written leaves
// an orphan empty directory behind. That is acceptable: it classifies as an
// empty category and is recoverable via Convert.
func Create(parentDir, title string) (*song.Song, error) {
	name := SanitizeName(title)
	if name == "" {
		return nil, fmt.Errorf("%w: empty title", ErrCreateFailed)
	}

	dir := filepath.Join(parentDir, name)

	mkdirErr := os.Mkdir(dir, dirPerms)
	if mkdirErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, mkdirErr)
	}

	record := song.New(title)
	record.Path = filepath.Join(dir, name+song.MarkerExt)

	writeErr := writeMarker(record)
	if writeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, writeErr)
	}

	return record, nil
}

// Convert turns an existing plain folder into a song in place by writing a
// marker file named after the directory, with the directory's name as the
// record title. It fails with ErrMarkerExists when the directory already
// classifies as a song.
func Convert(dir string) (*song.Song, error) {
	class, classifyErr := library.Classify(dir)
	if classifyErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, classifyErr)
	}

	if class.Record != nil || class.Warning != nil {
		return nil, fmt.Errorf("%w: %s", ErrMarkerExists, dir)
	}

	name := filepath.Base(filepath.Clean(dir))

	record := song.New(name)
	record.Path = filepath.Join(dir, name+song.MarkerExt)

	writeErr := writeMarker(record)
	if writeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, writeErr)
	}

	return record, nil
}

// Write commits the record to its marker file via atomic replace.
//
// UpdatedAt is bumped exactly once per call, not on every in-memory edit, so
// explicit saves are the only thing generating write traffic to a
// cloud-synced file. The in-memory record is a value copy; Write does not
// compare against the current on-disk state (last write wins).
func Write(record *song.Song) error {
	if record == nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, song.ErrNilRecord)
	}

	if record.Path == "" {
		return fmt.Errorf("%w: %w", ErrWriteFailed, ErrNoMarkerPath)
	}

	record.UpdatedAt = song.Now()

	writeErr := writeMarker(record)
	if writeErr != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, writeErr)
	}

	return nil
}

// Delete recursively removes the song folder and everything inside it.
// Irreversible; any confirmation happens before the call. The only guard is
// a sanity check against empty and root paths.
func Delete(dir string) error {
	cleaned := filepath.Clean(dir)
	if dir == "" || cleaned == string(os.PathSeparator) || cleaned == "." {
		return fmt.Errorf("%w: %q", ErrUnsafePath, dir)
	}

	removeErr := os.RemoveAll(cleaned)
	if removeErr != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, removeErr)
	}

	return nil
}

// SanitizeName makes a title safe to use as a file or directory name by
// replacing forward slashes and trimming surrounding whitespace.
func SanitizeName(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, "/", "-"))
}

// writeMarker encodes the record and atomically replaces its marker file.
func writeMarker(record *song.Song) error {
	data, encodeErr := song.Encode(record)
	if encodeErr != nil {
		return encodeErr
	}

	writeErr := atomic.WriteFile(record.Path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("writing marker file: %w", writeErr)
	}

	// atomic.WriteFile doesn't set permissions for new files.
	chmodErr := os.Chmod(record.Path, filePerms)
	if chmodErr != nil {
		return fmt.Errorf("setting marker permissions: %w", chmodErr)
	}

	return nil
}
