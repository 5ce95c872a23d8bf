package wal

import (
	"path/filepath"
	"testing"
)

func TestCommittedSetMissingFileIsEmpty(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "wal.log"))
	set, err := w.CommittedSet()
	if err != nil {
		t.Fatalf("CommittedSet: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
}

func TestBeginWithoutCommitIsIncomplete(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "wal.log"))
	if err := w.Begin("snap-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	set, err := w.CommittedSet()
	if err != nil {
		t.Fatalf("CommittedSet: %v", err)
	}
	if set["snap-1"] {
		t.Fatal("snapshot with only BEGIN must not be in the committed set")
	}
}

func TestBeginThenCommit(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "wal.log"))
	if err := w.Begin("snap-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := w.Commit("snap-1"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	set, err := w.CommittedSet()
	if err != nil {
		t.Fatalf("CommittedSet: %v", err)
	}
	if !set["snap-1"] {
		t.Fatal("snapshot with BEGIN+COMMIT must be in the committed set")
	}
}

func TestMultipleSnapshotsIndependentlyTracked(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "wal.log"))
	_ = w.Begin("snap-1")
	_ = w.Commit("snap-1")
	_ = w.Begin("snap-2") // never committed

	set, err := w.CommittedSet()
	if err != nil {
		t.Fatalf("CommittedSet: %v", err)
	}
	if !set["snap-1"] || set["snap-2"] {
		t.Fatalf("unexpected committed set: %v", set)
	}
}

func TestNeverRewritesExistingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w := New(path)
	_ = w.Begin("snap-1")
	_ = w.Commit("snap-1")
	_ = w.Begin("snap-2")
	_ = w.Commit("snap-2")

	set, err := w.CommittedSet()
	if err != nil {
		t.Fatalf("CommittedSet: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected both snapshots committed, got %v", set)
	}
}
