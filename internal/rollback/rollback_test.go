package rollback

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestVerifyMissingFileFails(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "roots.log"))
	err := p.Verify("anyroot")
	var rb ErrRollback
	if !errors.As(err, &rb) {
		t.Fatalf("expected ErrRollback, got %v", err)
	}
}

func TestAppendThenVerifyTip(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "roots.log"))
	if err := p.Append("root-a"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := p.Verify("root-a"); err != nil {
		t.Fatalf("Verify tip: %v", err)
	}
}

func TestRollbackToOlderRootFails(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "roots.log"))
	_ = p.Append("root-a")
	_ = p.Append("root-b")

	err := p.Verify("root-a")
	var rb ErrRollback
	if !errors.As(err, &rb) {
		t.Fatalf("expected ErrRollback for stale root, got %v", err)
	}

	if err := p.Verify("root-b"); err != nil {
		t.Fatalf("Verify current tip should succeed: %v", err)
	}
}

func TestAppendIndicesAreOneBased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roots.log")
	p := New(path)
	_ = p.Append("root-a")
	_ = p.Append("root-b")

	lines, err := p.readLines()
	if err != nil {
		t.Fatalf("readLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	idx, root, err := parseLine(lines[1])
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if idx != 2 || root != "root-b" {
		t.Fatalf("second line = (%d, %s), want (2, root-b)", idx, root)
	}
}
