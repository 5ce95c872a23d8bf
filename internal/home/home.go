// Package home manages the backupvault home directory layout.
//
// The home directory owns state that sits outside any single store: the
// access policy file that governs which commands a user may run, and the
// default store location when a command's --store flag is omitted. The
// audit log itself lives inside the store directory it describes (see
// the store layout in package snapshot), since an audit trail is
// meaningless detached from the store it audits.
//
// Layout:
//
//	<root>/
//	  policy.yaml   (users -> role -> permitted commands)
//	  store/        (default store directory)
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir represents a backupvault home directory.
type Dir struct {
	root string
}

// New creates a Dir with an explicit root path.
func New(root string) Dir {
	return Dir{root: root}
}

// Default returns a Dir using the platform-appropriate default location:
//   - Linux:   ~/.config/backupvault
//   - macOS:   ~/Library/Application Support/backupvault
//   - Windows: %APPDATA%/backupvault
func Default() (Dir, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Dir{}, fmt.Errorf("determine config directory: %w", err)
	}
	return Dir{root: filepath.Join(base, "backupvault")}, nil
}

// Root returns the home directory path.
func (d Dir) Root() string {
	return d.root
}

// PolicyPath returns the path to the access-control policy file.
func (d Dir) PolicyPath() string {
	return filepath.Join(d.root, "policy.yaml")
}

// DefaultStoreDir returns the store directory used when no --store flag
// is given.
func (d Dir) DefaultStoreDir() string {
	return filepath.Join(d.root, "store")
}

// EnsureExists creates the home directory (and parents) if it doesn't exist.
func (d Dir) EnsureExists() error {
	if err := os.MkdirAll(d.root, 0o750); err != nil {
		return fmt.Errorf("create home directory %s: %w", d.root, err)
	}
	return nil
}
