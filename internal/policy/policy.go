// Package policy implements the access-control gate that every CLI command
// passes through: a user maps to a role, and a role maps to the set of
// commands it may run.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the parsed contents of a policy.yaml file.
type Policy struct {
	Users       map[string]string   `yaml:"users"`
	Roles       map[string][]string `yaml:"roles"`
	DefaultRole string              `yaml:"default_role"`
}

// Load reads and parses the policy file at path.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: read %s: %w", path, err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("policy: parse %s: %w", path, err)
	}
	return &p, nil
}

// IsAllowed reports whether user may run command. A user not listed in
// Users falls back to DefaultRole; a user with no resolvable role at all
// (no mapping and no default) is never allowed.
func (p *Policy) IsAllowed(user, command string) bool {
	role, ok := p.Users[user]
	if !ok {
		role = p.DefaultRole
	}
	if role == "" {
		return false
	}

	for _, c := range p.Roles[role] {
		if c == command {
			return true
		}
	}
	return false
}
