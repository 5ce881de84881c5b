// Package library discovers the song tree inside a user-chosen directory.
//
// A directory containing a *.songbook marker file is a song leaf; every
// other directory is a purely navigational category. Discovery is lazy and
// cooperative: each ScanLevel call enumerates exactly one directory level,
// and the caller drives deeper navigation one step at a time. Nodes are
// fresh values per scan with no cross-scan identity; a node's identity is
// its filesystem path, since a folder outlives edits to the record inside.
package library

import (
	"time"

	"songbook/internal/song"
)

// Node represents one directory in the song tree.
type Node struct {
	// Name is the display name, the directory's base name.
	Name string

	// Path is the directory's filesystem location and the node's identity.
	Path string

	// Children holds the classified immediate subdirectories, populated only
	// when this node itself has been passed to ScanLevel. A category node
	// that has not been scanned yet has an empty children list.
	Children []*Node

	// Record is the decoded song when the directory classifies as a song,
	// nil for categories. A node with a record is a leaf: nothing below it
	// is traversed or displayed.
	Record *song.Song

	// Freshness orders siblings: a song's updatedAt, or the directory's
	// modification time for categories and songs whose record is unreadable.
	// The zero time sorts last.
	Freshness time.Time
}

// IsSong reports whether the node classified as a song leaf.
func (n *Node) IsSong() bool {
	return n.Record != nil
}

// Warning reports a per-directory problem that degraded classification but
// did not abort the surrounding scan, such as a marker file that fails to
// decode. Siblings remain navigable; the caller decides how to surface it.
type Warning struct {
	Path string
	Err  error
}
