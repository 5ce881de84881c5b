package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"songbook/internal/library"
	"songbook/internal/song"
	"songbook/internal/testutil"
)

// makeSongDir creates a song folder under root whose record carries the
// given updatedAt.
func makeSongDir(t *testing.T, root, name string, clock *testutil.Clock) {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.Mkdir(dir, 0o755))

	record := song.New(name)
	record.CreatedAt = clock.Next()
	record.UpdatedAt = record.CreatedAt
	record.Entries[0].CreatedAt = record.CreatedAt
	record.Entries[0].UpdatedAt = record.CreatedAt

	writeRecord(t, dir, name+song.MarkerExt, record)
}

func Test_ScanLevel_Orders_Children_By_Descending_Freshness(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	clock := testutil.NewClock()

	// Created oldest-first; the scan must return newest-first.
	makeSongDir(t, root, "oldest", clock)
	makeSongDir(t, root, "middle", clock)
	makeSongDir(t, root, "newest", clock)

	node, warnings, err := library.ScanLevel(root)
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Len(t, node.Children, 3)
	require.Equal(t, "newest", node.Children[0].Name)
	require.Equal(t, "middle", node.Children[1].Name)
	require.Equal(t, "oldest", node.Children[2].Name)
}

func Test_ScanLevel_Excludes_Hidden_And_Plain_Files(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".hidden"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "visible"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	node, _, err := library.ScanLevel(root)
	require.NoError(t, err)

	require.Len(t, node.Children, 1)
	require.Equal(t, "visible", node.Children[0].Name)
}

func Test_ScanLevel_Song_Directory_Is_A_Leaf(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRecord(t, root, "Demo.songbook", song.New("Demo"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "nested"), 0o755))

	node, _, err := library.ScanLevel(root)
	require.NoError(t, err)

	require.True(t, node.IsSong())
	require.Empty(t, node.Children, "subdirectories of a song must not be surfaced")
}

func Test_ScanLevel_Song_With_Subdirectories_Classifies_As_Song_Child(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "DualRole")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeRecord(t, dir, "DualRole.songbook", song.New("DualRole"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "inner"), 0o755))

	node, _, err := library.ScanLevel(root)
	require.NoError(t, err)

	require.Len(t, node.Children, 1)
	child := node.Children[0]
	require.True(t, child.IsSong())
	require.Empty(t, child.Children)
}

func Test_ScanLevel_Children_Are_Unscanned_One_Level_Deeper(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "outer", "inner"), 0o755))

	node, _, err := library.ScanLevel(root)
	require.NoError(t, err)

	require.Len(t, node.Children, 1)
	require.Empty(t, node.Children[0].Children, "children must stay lazy until scanned")

	// Scanning the child fills in its own level.
	inner, _, err := library.ScanLevel(node.Children[0].Path)
	require.NoError(t, err)
	require.Len(t, inner.Children, 1)
	require.Equal(t, "inner", inner.Children[0].Name)
}

func Test_ScanLevel_Undecodable_Sibling_Warns_But_Does_Not_Abort(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	clock := testutil.NewClock()
	makeSongDir(t, root, "good", clock)

	brokenDir := filepath.Join(root, "broken")
	require.NoError(t, os.Mkdir(brokenDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(brokenDir, "broken.songbook"), []byte("{"), 0o644))

	node, warnings, err := library.ScanLevel(root)
	require.NoError(t, err)

	require.Len(t, node.Children, 2, "siblings must remain navigable")
	require.Len(t, warnings, 1)
	require.ErrorIs(t, warnings[0].Err, song.ErrMalformed)

	// The broken directory degrades to a category ordered by dir mtime.
	for _, child := range node.Children {
		if child.Name == "broken" {
			require.False(t, child.IsSong())
			require.False(t, child.Freshness.IsZero())
		}
	}
}

func Test_ScanLevel_Missing_Directory_Is_Unreadable(t *testing.T) {
	t.Parallel()

	_, _, err := library.ScanLevel(filepath.Join(t.TempDir(), "gone"))
	require.ErrorIs(t, err, library.ErrUnreadable)
}

func Test_ScanLevel_File_Target_Is_Not_A_Directory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, _, err := library.ScanLevel(path)
	require.ErrorIs(t, err, library.ErrNotDirectory)
}
