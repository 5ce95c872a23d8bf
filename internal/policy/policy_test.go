package policy

import (
	"os"
	"path/filepath"
	"testing"
)

func writePolicy(t *testing.T, contents string) *Policy {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestIsAllowedExplicitUserRole(t *testing.T) {
	p := writePolicy(t, `
users:
  alice: admin
roles:
  admin:
    - backup
    - restore
`)
	if !p.IsAllowed("alice", "backup") {
		t.Fatal("expected alice to be allowed to backup")
	}
	if p.IsAllowed("alice", "purge") {
		t.Fatal("alice should not be allowed to purge")
	}
}

func TestIsAllowedFallsBackToDefaultRole(t *testing.T) {
	p := writePolicy(t, `
default_role: viewer
roles:
  viewer:
    - list-snapshots
`)
	if !p.IsAllowed("bob", "list-snapshots") {
		t.Fatal("expected bob to fall back to default_role viewer")
	}
	if p.IsAllowed("bob", "backup") {
		t.Fatal("viewer should not be allowed to backup")
	}
}

func TestIsAllowedNoRoleDenied(t *testing.T) {
	p := writePolicy(t, `
roles:
  admin:
    - backup
`)
	if p.IsAllowed("nobody", "backup") {
		t.Fatal("user with no mapping and no default_role must be denied")
	}
}

func TestIsAllowedUnknownRoleDenied(t *testing.T) {
	p := writePolicy(t, `
users:
  alice: ghost
roles:
  admin:
    - backup
`)
	if p.IsAllowed("alice", "backup") {
		t.Fatal("role with no entry in roles must allow nothing")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing policy file")
	}
}
