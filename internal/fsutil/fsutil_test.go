package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkSortedAndNormalized(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "b.txt"), "b")
	mustWrite(t, filepath.Join(dir, "a", "c.txt"), "c")
	mustWrite(t, filepath.Join(dir, "a.txt"), "a")

	entries, err := Walk(dir)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"a.txt", "a/c.txt", "b.txt"}
	for i, e := range entries {
		if e.RelPath != want[i] {
			t.Fatalf("entries[%d].RelPath = %s, want %s", i, e.RelPath, want[i])
		}
	}
}

func TestWalkFilteredExcludesGlob(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "keep.txt"), "k")
	mustWrite(t, filepath.Join(dir, "skip.log"), "s")
	mustWrite(t, filepath.Join(dir, "nested", "skip.log"), "s")

	entries, err := WalkFiltered(dir, []string{"**/*.log"})
	if err != nil {
		t.Fatalf("WalkFiltered: %v", err)
	}
	if len(entries) != 1 || entries[0].RelPath != "keep.txt" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestReadChunksEmptyFileYieldsNoBlocks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	mustWrite(t, path, "")

	var calls int
	if err := ReadChunks(path, 4, func([]byte) error { calls++; return nil }); err != nil {
		t.Fatalf("ReadChunks: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected 0 blocks for empty file, got %d", calls)
	}
}

func TestReadChunksLastBlockShorter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	mustWrite(t, path, "abcdefg")

	var blocks [][]byte
	if err := ReadChunks(path, 3, func(b []byte) error {
		cp := append([]byte(nil), b...)
		blocks = append(blocks, cp)
		return nil
	}); err != nil {
		t.Fatalf("ReadChunks: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if string(blocks[0]) != "abc" || string(blocks[1]) != "def" || string(blocks[2]) != "g" {
		t.Fatalf("unexpected blocks: %q", blocks)
	}
}

func TestAtomicRenameVisibleAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "staging")
	newPath := filepath.Join(dir, "final")
	if err := EnsureDir(oldPath); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := AtomicRename(oldPath, newPath); err != nil {
		t.Fatalf("AtomicRename: %v", err)
	}
	if Exists(oldPath) {
		t.Fatal("old path should not exist after rename")
	}
	if !IsDir(newPath) {
		t.Fatal("new path should be a directory after rename")
	}
}

func TestRemoveDirIdempotent(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")
	if err := RemoveDir(missing); err != nil {
		t.Fatalf("RemoveDir on missing path should be a no-op, got %v", err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := WriteFile(path, []byte(content)); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	_ = os.Chmod(path, 0o640)
}
