package handle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveWithoutHandleReportsUnset(t *testing.T) {
	t.Parallel()

	mgr := NewManager(t.TempDir())

	_, err := mgr.Resolve()
	if !errors.Is(err, ErrUnset) {
		t.Fatalf("Resolve() error = %v, want ErrUnset", err)
	}

	if mgr.Status() != StatusUnset {
		t.Errorf("status = %q, want %q", mgr.Status(), StatusUnset)
	}
}

func TestSaveThenResolve(t *testing.T) {
	t.Parallel()

	prefs := t.TempDir()
	root := t.TempDir()
	mgr := NewManager(prefs)

	saveErr := mgr.Save(root)
	if saveErr != nil {
		t.Fatalf("Save: %v", saveErr)
	}

	got, resolveErr := mgr.Resolve()
	if resolveErr != nil {
		t.Fatalf("Resolve: %v", resolveErr)
	}

	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	if mgr.Status() != StatusValid {
		t.Errorf("status = %q, want %q", mgr.Status(), StatusValid)
	}
}

func TestResolveSurvivesRestart(t *testing.T) {
	t.Parallel()

	prefs := t.TempDir()
	root := t.TempDir()

	saveErr := NewManager(prefs).Save(root)
	if saveErr != nil {
		t.Fatalf("Save: %v", saveErr)
	}

	// A cold start re-resolves from the persisted document.
	fresh := NewManager(prefs)

	got, resolveErr := fresh.Resolve()
	if resolveErr != nil {
		t.Fatalf("Resolve after restart: %v", resolveErr)
	}

	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestDeletedRootReportsStaleNotUnset(t *testing.T) {
	t.Parallel()

	prefs := t.TempDir()
	root := filepath.Join(t.TempDir(), "library")

	mkdirErr := os.Mkdir(root, 0o755)
	if mkdirErr != nil {
		t.Fatalf("mkdir: %v", mkdirErr)
	}

	mgr := NewManager(prefs)

	saveErr := mgr.Save(root)
	if saveErr != nil {
		t.Fatalf("Save: %v", saveErr)
	}

	removeErr := os.RemoveAll(root)
	if removeErr != nil {
		t.Fatalf("remove root: %v", removeErr)
	}

	_, resolveErr := mgr.Resolve()
	if !errors.Is(resolveErr, ErrStale) {
		t.Fatalf("Resolve() error = %v, want ErrStale", resolveErr)
	}

	if errors.Is(resolveErr, ErrUnset) {
		t.Error("stale must be distinguishable from unset")
	}

	if mgr.Status() != StatusStale {
		t.Errorf("status = %q, want %q", mgr.Status(), StatusStale)
	}
}

func TestRecreatedRootRePersistsOnce(t *testing.T) {
	t.Parallel()

	prefs := t.TempDir()
	root := filepath.Join(t.TempDir(), "library")

	mkdirErr := os.Mkdir(root, 0o755)
	if mkdirErr != nil {
		t.Fatalf("mkdir: %v", mkdirErr)
	}

	mgr := NewManager(prefs)

	saveErr := mgr.Save(root)
	if saveErr != nil {
		t.Fatalf("Save: %v", saveErr)
	}

	// Replace the directory: same path, different inode. This is what a
	// sync agent re-materializing the folder looks like.
	removeErr := os.RemoveAll(root)
	if removeErr != nil {
		t.Fatalf("remove root: %v", removeErr)
	}

	mkdirErr = os.Mkdir(root, 0o755)
	if mkdirErr != nil {
		t.Fatalf("recreate root: %v", mkdirErr)
	}

	got, resolveErr := mgr.Resolve()
	if resolveErr != nil {
		t.Fatalf("Resolve: %v", resolveErr)
	}

	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	// The implicit re-persist updated the stored fingerprint: a fresh
	// manager resolves cleanly with no further mismatch.
	fresh := NewManager(prefs)

	_, resolveErr = fresh.Resolve()
	if resolveErr != nil {
		t.Fatalf("Resolve after re-persist: %v", resolveErr)
	}

	stored, loadErr := fresh.load()
	if loadErr != nil {
		t.Fatalf("load: %v", loadErr)
	}

	fp, fpErr := fingerprint(want)
	if fpErr != nil {
		t.Fatalf("fingerprint: %v", fpErr)
	}

	if stored.Inode != fp.inode || stored.Device != fp.device {
		t.Error("re-persist did not refresh the stored fingerprint")
	}
}

func TestSaveToFileReportsNotDirectory(t *testing.T) {
	t.Parallel()

	prefs := t.TempDir()
	path := filepath.Join(t.TempDir(), "plain.txt")

	writeErr := os.WriteFile(path, []byte("x"), 0o644)
	if writeErr != nil {
		t.Fatalf("write: %v", writeErr)
	}

	saveErr := NewManager(prefs).Save(path)
	if !errors.Is(saveErr, ErrNotDirectory) {
		t.Fatalf("Save() error = %v, want ErrNotDirectory", saveErr)
	}
}

func TestCorruptHandleFileReportsUnset(t *testing.T) {
	t.Parallel()

	prefs := t.TempDir()

	writeErr := os.WriteFile(filepath.Join(prefs, handleFileName), []byte("{{{"), 0o600)
	if writeErr != nil {
		t.Fatalf("write: %v", writeErr)
	}

	_, resolveErr := NewManager(prefs).Resolve()
	if !errors.Is(resolveErr, ErrUnset) {
		t.Fatalf("Resolve() error = %v, want ErrUnset", resolveErr)
	}
}

func TestHandleFileAcceptsJSONC(t *testing.T) {
	t.Parallel()

	prefs := t.TempDir()
	root := t.TempDir()

	mgr := NewManager(prefs)

	saveErr := mgr.Save(root)
	if saveErr != nil {
		t.Fatalf("Save: %v", saveErr)
	}

	// Hand-edit the prefs file with a comment; resolution must survive it.
	path := filepath.Join(prefs, handleFileName)

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read: %v", readErr)
	}

	edited := append([]byte("// chosen via the folder picker\n"), data...)

	writeErr := os.WriteFile(path, edited, 0o600)
	if writeErr != nil {
		t.Fatalf("write: %v", writeErr)
	}

	_, resolveErr := NewManager(prefs).Resolve()
	if resolveErr != nil {
		t.Fatalf("Resolve with JSONC handle file: %v", resolveErr)
	}
}
