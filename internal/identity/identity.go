// Package identity resolves the operating-system user on whose behalf a
// command runs, for policy checks and audit logging.
package identity

import (
	"os"
	"os/user"
)

// Current returns the invoking user's name. When the process was launched
// through sudo, SUDO_USER names the real human behind the privilege
// escalation; that name is what policy and audit care about, not "root".
func Current() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return sudoUser, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
