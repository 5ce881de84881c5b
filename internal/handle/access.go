package handle

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// AccessTimeout is the timeout for acquiring the scoped access lock.
const AccessTimeout = 2 * time.Second

// accessLockName is the lock file inside the prefs dir. The lock lives next
// to the handle document, never inside the synced root itself, so acquiring
// access does not generate sync traffic.
const accessLockName = "root.lock"

// Access is the scoped guard bracketing all work against the root tree:
// begin-access before any scan or mutation touches it, end-access afterward,
// on every exit path including errors. Within one application instance the
// underlying flock serializes operations; it offers no protection against
// external sync agents, which remain last-write-wins.
type Access struct {
	root     string
	lockPath string
	file     *os.File
}

// Begin resolves the handle and acquires scoped access to the root.
// The caller must Close the returned Access when done.
func (m *Manager) Begin() (*Access, error) {
	root, resolveErr := m.Resolve()
	if resolveErr != nil {
		return nil, resolveErr
	}

	lockPath := filepath.Join(m.prefsDir, accessLockName)

	file, lockErr := acquireFlock(lockPath, AccessTimeout)
	if lockErr != nil {
		return nil, lockErr
	}

	return &Access{root: root, lockPath: lockPath, file: file}, nil
}

// Root returns the resolved root directory this guard brackets.
func (a *Access) Root() string {
	return a.root
}

// Close releases the scoped access. Safe to call more than once.
// Order matters: remove while holding the lock, then unlock, then close.
func (a *Access) Close() {
	if a.file != nil {
		_ = os.Remove(a.lockPath)
		_ = syscall.Flock(int(a.file.Fd()), syscall.LOCK_UN)
		_ = a.file.Close()
		a.file = nil
	}
}

// acquireFlock takes an exclusive lock on lockPath, retrying until the
// timeout. It re-verifies the inode after acquisition to handle the race
// between flock and lock file removal by the previous holder.
func acquireFlock(lockPath string, timeout time.Duration) (*os.File, error) {
	deadline := time.Now().Add(timeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrAccessTimeout, lockPath)
		}

		file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
		if openErr != nil {
			return nil, fmt.Errorf("opening access lock: %w", openErr)
		}

		var openStat syscall.Stat_t

		fstatErr := syscall.Fstat(int(file.Fd()), &openStat)
		if fstatErr != nil {
			_ = file.Close()

			return nil, fmt.Errorf("fstat access lock: %w", fstatErr)
		}

		fd := int(file.Fd())
		done := make(chan error, 1)

		go func() {
			done <- syscall.Flock(fd, syscall.LOCK_EX)
		}()

		select {
		case flockErr := <-done:
			if flockErr != nil {
				_ = file.Close()

				return nil, fmt.Errorf("flock: %w", flockErr)
			}

			// If the file at the path was deleted and recreated while we
			// waited, retry against the new file.
			var pathStat syscall.Stat_t

			statErr := syscall.Stat(lockPath, &pathStat)
			if statErr != nil || pathStat.Ino != openStat.Ino {
				_ = syscall.Flock(fd, syscall.LOCK_UN)
				_ = file.Close()

				continue
			}

			return file, nil
		case <-time.After(remaining):
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrAccessTimeout, lockPath)
		}
	}
}
