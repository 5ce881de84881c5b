package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"songbook/internal/song"
)

// Classification is the result of inspecting one directory's immediate
// entries. A directory with a marker file is a song; everything else is a
// category. Categories carry no record and no marker path.
type Classification struct {
	// MarkerPath is the marker file backing the song, empty for categories.
	MarkerPath string

	// Record is the decoded song, nil for categories.
	Record *song.Song

	// Warning is set when a marker file existed but could not be read or
	// decoded. The directory degrades to a category so navigation never
	// dead-ends, but the failure is surfaced rather than swallowed.
	Warning *Warning
}

// Classify inspects the immediate entries of dir and decides whether it is a
// song leaf or a category node.
//
// When more than one marker file is present the lexicographically-first
// filename wins; the choice is deterministic and does not depend on
// filesystem enumeration order.
func Classify(dir string) (Classification, error) {
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		return Classification{}, fmt.Errorf("%w: %w", ErrUnreadable, readErr)
	}

	markers := make([]string, 0, 1)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		if strings.HasSuffix(name, song.MarkerExt) {
			markers = append(markers, name)
		}
	}

	if len(markers) == 0 {
		return Classification{}, nil
	}

	sort.Strings(markers)

	markerPath := filepath.Join(dir, markers[0])

	data, readErr := os.ReadFile(markerPath)
	if readErr != nil {
		return Classification{
			Warning: &Warning{Path: markerPath, Err: readErr},
		}, nil
	}

	record, decodeErr := song.Decode(data)
	if decodeErr != nil {
		return Classification{
			Warning: &Warning{Path: markerPath, Err: decodeErr},
		}, nil
	}

	record.Path = markerPath

	return Classification{MarkerPath: markerPath, Record: record}, nil
}
