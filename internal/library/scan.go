package library

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// ScanLevel enumerates exactly one level of the tree: it classifies dir
// itself and, for a category, classifies each immediate subdirectory. It is
// deliberately non-recursive; deeper levels are scanned on demand when the
// caller navigates into them, so returned children are themselves unscanned.
//
// Children are ordered by descending freshness. Hidden entries and plain
// files other than the marker never appear as children. A song directory is
// a leaf: its subdirectories are not enumerated.
//
// Warnings carry per-child problems (typically undecodable markers) that
// degraded a child to a category without aborting the scan. Two concurrent
// scans of the same directory each produce an independent snapshot; callers
// use the most recently completed one.
func ScanLevel(dir string) (*Node, []Warning, error) {
	node := &Node{
		Name: filepath.Base(filepath.Clean(dir)),
		Path: dir,
	}

	info, statErr := os.Stat(dir)
	if statErr != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnreadable, statErr)
	}

	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	var warnings []Warning

	class, classifyErr := Classify(dir)
	if classifyErr != nil {
		return nil, nil, classifyErr
	}

	if class.Warning != nil {
		warnings = append(warnings, *class.Warning)
	}

	if class.Record != nil {
		// Song directories are leaves; nothing below them is surfaced.
		node.Record = class.Record
		node.Freshness = class.Record.UpdatedAt

		return node, warnings, nil
	}

	node.Freshness = info.ModTime()

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnreadable, readErr)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		child, childWarnings := scanChild(filepath.Join(dir, name), name, entry)
		warnings = append(warnings, childWarnings...)
		node.Children = append(node.Children, child)
	}

	// Descending freshness; the stable sort keeps enumeration order on ties.
	slices.SortStableFunc(node.Children, func(a, b *Node) int {
		return b.Freshness.Compare(a.Freshness)
	})

	return node, warnings, nil
}

// scanChild classifies one immediate subdirectory without descending into it.
func scanChild(path, name string, entry os.DirEntry) (*Node, []Warning) {
	child := &Node{Name: name, Path: path}

	var warnings []Warning

	class, classifyErr := Classify(path)
	if classifyErr != nil {
		// The child itself is unreadable; surface it and keep the sibling
		// list intact.
		warnings = append(warnings, Warning{Path: path, Err: classifyErr})
	}

	if class.Warning != nil {
		warnings = append(warnings, *class.Warning)
	}

	if class.Record != nil {
		child.Record = class.Record
		child.Freshness = class.Record.UpdatedAt

		return child, warnings
	}

	child.Freshness = dirModTime(entry)

	return child, warnings
}

// dirModTime returns the directory's modification time, or the zero time
// (which sorts last) when the info is unavailable.
func dirModTime(entry os.DirEntry) time.Time {
	info, infoErr := entry.Info()
	if infoErr != nil {
		return time.Time{}
	}

	return info.ModTime()
}
