// Package storelock implements the single-writer discipline required by
// design note §9: the store's append-only files (WAL, root chain, audit
// log) assume one writer at a time. Every command that touches a store
// holds an exclusive, non-blocking lock on a ".lock" file at the store
// root for the command's whole duration.
package storelock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"backupvault/internal/fsutil"
)

// ErrLocked is returned when another process already holds the store lock.
var ErrLocked = errors.New("store is locked by another process")

const lockFileName = ".lock"

// Lock is a held exclusive lock on a store directory.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive, non-blocking lock on storeDir. It creates
// storeDir if necessary. Callers must call Release when the command
// finishes, successfully or not.
func Acquire(storeDir string) (*Lock, error) {
	if err := fsutil.EnsureDir(storeDir); err != nil {
		return nil, err
	}

	fl := flock.New(filepath.Join(storeDir, lockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, storeDir)
	}
	return &Lock{fl: fl}, nil
}

// Release unlocks the store. Safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
