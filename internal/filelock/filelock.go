// Package filelock provides advisory file locking and atomic writes so that
// exports from concurrent shells never leave a half-written file behind.
package filelock

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix ends every lock file name.
const LockSuffix = ".lock"

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Lock acquires an exclusive lock on the file, blocking until the lock is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWriteFunc streams content produced by write into a temporary file in
// the target directory, then renames it over path. Readers see either the old
// file or the complete new one. On any failure the temporary file is removed
// and the original file, if any, is left unchanged.
func AtomicWriteFunc(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory keeps the rename on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	buffered := bufio.NewWriter(tempFile)
	if err := write(buffered); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil

	return nil
}

// DefaultLockDir is used when the caller names no lock directory.
func DefaultLockDir() string {
	return filepath.Join(os.TempDir(), "licensesearch-locks")
}

// LockPath names the lock file guarding target. Lock files live in lockDir,
// never beside the target, and are keyed by the target's absolute path.
func LockPath(lockDir, target string) string {
	if lockDir == "" {
		lockDir = DefaultLockDir()
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = filepath.Clean(target)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:8])+LockSuffix)
}

// LockAndWriteFunc acquires the lock for path inside lockDir, performs an
// atomic write, and releases the lock. Writers to the same path from any
// process sharing lockDir are serialized.
func LockAndWriteFunc(lockDir, path string, write func(io.Writer) error) error {
	lockPath := LockPath(lockDir, path)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := NewFileLock(lockPath)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	return AtomicWriteFunc(path, write)
}
