// Package fsutil is the filesystem adapter: a deterministic tree walk,
// chunked reads, atomic directory rename, and recursive delete. It is the
// only package in this module that touches raw path strings and os file
// APIs for the source tree being backed up.
package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FileEntry pairs a POSIX-style relative path with its absolute path on disk.
type FileEntry struct {
	RelPath string
	AbsPath string
}

// Walk returns every regular file under root, sorted lexicographically by
// RelPath with path separators normalized to "/". Symlinks and other
// non-regular files are skipped, not followed and not reported as errors.
func Walk(root string) ([]FileEntry, error) {
	return WalkFiltered(root, nil)
}

// WalkFiltered is Walk with an additional set of doublestar glob patterns;
// any relative path matching at least one pattern is excluded from the
// result. Patterns are matched against the POSIX-normalized relative path,
// the same string stored in manifest file records.
func WalkFiltered(root string, excludes []string) ([]FileEntry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var entries []FileEntry
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.Mode().IsRegular() {
			// Skip directories, symlinks, devices, sockets, etc.
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(rel, excludes) {
			return nil
		}

		entries = append(entries, FileEntry{RelPath: rel, AbsPath: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries, nil
}

func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		ok, err := doublestar.Match(pattern, relPath)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// ReadChunks streams successive blocks of chunkSize bytes from path,
// calling fn for each one in order. The final block may be shorter than
// chunkSize; an empty file yields zero blocks.
func ReadChunks(path string, chunkSize int, fn func([]byte) error) error {
	f, err := os.Open(path) //nolint:gosec // caller controls path, source tree being backed up
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	for {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			if callErr := fn(buf[:n]); callErr != nil {
				return callErr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o640)
}

// EnsureDir creates path (and parents) if it does not already exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o750)
}

// AtomicRename renames oldPath to newPath. On the same filesystem (both
// paths live under the same store directory in this codebase) os.Rename
// is atomic with respect to concurrent readers: they observe either the
// old name or the new one, never a half-renamed state.
func AtomicRename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// RemoveDir recursively deletes path. It is idempotent: deleting a path
// that does not exist is not an error.
func RemoveDir(path string) error {
	return os.RemoveAll(path)
}

// Exists reports whether path exists (file or directory).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
