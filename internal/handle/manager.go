// Package handle acquires, persists, and re-resolves the long-lived handle
// to the user-chosen root directory of the song library.
//
// The handle is an opaque, persistable capability: the chosen path plus a
// device/inode fingerprint, stored as a JSON document in the app's
// preference directory. It is re-resolved, never reused directly, on every
// cold start. Access to the resolved directory is bracketed by a scoped
// guard (see Access); every scan or mutation of the tree runs inside one.
package handle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"songbook/internal/song"
)

// Resolution states. From valid, nothing transitions except a restart or an
// explicit re-selection, both of which re-enter resolving.
const (
	StatusUnset     = "unset"
	StatusResolving = "resolving"
	StatusValid     = "valid"
	StatusStale     = "stale"
)

// handleFileName is the persisted handle document inside the prefs dir.
const handleFileName = "root.json"

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// storedHandle is the persisted form of the capability. The fingerprint lets
// Resolve distinguish "same directory" from "a different directory now lives
// at this path".
type storedHandle struct {
	Path    string    `json:"path"`
	Device  uint64    `json:"device"`
	Inode   uint64    `json:"inode"`
	SavedAt time.Time `json:"saved_at"` //nolint:tagliatelle // snake_case for prefs file
}

// Manager owns the persisted root handle.
type Manager struct {
	prefsDir string
	status   string
}

// NewManager creates a manager persisting into prefsDir.
func NewManager(prefsDir string) *Manager {
	return &Manager{prefsDir: prefsDir, status: StatusUnset}
}

// DefaultPrefsDir returns the preference directory,
// $XDG_CONFIG_HOME/songbook or ~/.config/songbook.
func DefaultPrefsDir(env map[string]string) (string, error) {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "songbook"), nil
	}

	home, homeErr := os.UserHomeDir()
	if homeErr != nil {
		return "", fmt.Errorf("determining prefs dir: %w", homeErr)
	}

	return filepath.Join(home, ".config", "songbook"), nil
}

// Status returns the current resolution state.
func (m *Manager) Status() string {
	return m.status
}

// Save durably persists a freshly granted handle to dir. The grant itself
// (a user-facing folder picker) happens outside this package; Save only
// records the capability.
func (m *Manager) Save(dir string) error {
	abs, absErr := filepath.Abs(dir)
	if absErr != nil {
		return fmt.Errorf("resolving root path: %w", absErr)
	}

	fp, fpErr := fingerprint(abs)
	if fpErr != nil {
		return fpErr
	}

	saveErr := m.persist(storedHandle{
		Path:    abs,
		Device:  fp.device,
		Inode:   fp.inode,
		SavedAt: song.Now(),
	})
	if saveErr != nil {
		return saveErr
	}

	m.status = StatusValid

	return nil
}

// Resolve reconstructs a usable root directory from the persisted handle.
//
// When the stored fingerprint no longer matches but the path still resolves
// to a directory, the manager re-persists once with the fresh fingerprint
// and reports the handle valid; it does not loop or retry beyond that single
// attempt. A path that no longer resolves reports ErrStale. A missing or
// unparsable handle document reports ErrUnset.
func (m *Manager) Resolve() (string, error) {
	m.status = StatusResolving

	stored, loadErr := m.load()
	if loadErr != nil {
		m.status = StatusUnset

		return "", loadErr
	}

	fp, fpErr := fingerprint(stored.Path)
	if fpErr != nil {
		m.status = StatusStale

		return "", fmt.Errorf("%w: %w", ErrStale, fpErr)
	}

	if fp.device != stored.Device || fp.inode != stored.Inode {
		// The directory at this path is not the one we were granted; the
		// path itself still works, so re-persist the just-resolved reference
		// exactly once.
		stored.Device = fp.device
		stored.Inode = fp.inode
		stored.SavedAt = song.Now()

		persistErr := m.persist(stored)
		if persistErr != nil {
			m.status = StatusStale

			return "", fmt.Errorf("%w: re-persisting handle: %w", ErrStale, persistErr)
		}
	}

	m.status = StatusValid

	return stored.Path, nil
}

// load reads and parses the persisted handle document. The document is
// standardized through hujson so a hand-edited prefs file with comments or
// trailing commas still parses.
func (m *Manager) load() (storedHandle, error) {
	data, readErr := os.ReadFile(filepath.Join(m.prefsDir, handleFileName))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return storedHandle{}, ErrUnset
		}

		return storedHandle{}, fmt.Errorf("%w: %w", ErrUnset, readErr)
	}

	standardized, huErr := hujson.Standardize(data)
	if huErr != nil {
		return storedHandle{}, fmt.Errorf("%w: invalid handle file: %w", ErrUnset, huErr)
	}

	var stored storedHandle

	unmarshalErr := json.Unmarshal(standardized, &stored)
	if unmarshalErr != nil {
		return storedHandle{}, fmt.Errorf("%w: invalid handle file: %w", ErrUnset, unmarshalErr)
	}

	if stored.Path == "" {
		return storedHandle{}, fmt.Errorf("%w: handle file has no path", ErrUnset)
	}

	return stored, nil
}

// persist atomically replaces the handle document.
func (m *Manager) persist(stored storedHandle) error {
	mkdirErr := os.MkdirAll(m.prefsDir, dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("creating prefs dir: %w", mkdirErr)
	}

	data, marshalErr := json.MarshalIndent(stored, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("encoding handle: %w", marshalErr)
	}

	path := filepath.Join(m.prefsDir, handleFileName)

	writeErr := atomic.WriteFile(path, bytes.NewReader(append(data, '\n')))
	if writeErr != nil {
		return fmt.Errorf("writing handle file: %w", writeErr)
	}

	chmodErr := os.Chmod(path, filePerms)
	if chmodErr != nil {
		return fmt.Errorf("setting handle file permissions: %w", chmodErr)
	}

	return nil
}

// dirFingerprint identifies a directory independent of its path.
type dirFingerprint struct {
	device uint64
	inode  uint64
}

// fingerprint stats path and requires it to be a directory.
func fingerprint(path string) (dirFingerprint, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return dirFingerprint{}, fmt.Errorf("stat root: %w", statErr)
	}

	if !info.IsDir() {
		return dirFingerprint{}, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	var stat syscall.Stat_t

	statErr = syscall.Stat(path, &stat)
	if statErr != nil {
		return dirFingerprint{}, fmt.Errorf("stat root: %w", statErr)
	}

	return dirFingerprint{device: uint64(stat.Dev), inode: stat.Ino}, nil
}
