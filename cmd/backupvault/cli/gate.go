package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"backupvault/internal/audit"
	"backupvault/internal/fsutil"
	"backupvault/internal/home"
	"backupvault/internal/identity"
	"backupvault/internal/logging"
	"backupvault/internal/policy"
	"backupvault/internal/snapshot"
	"backupvault/internal/storelock"
)

type loggerKey struct{}

// WithLogger returns a context carrying logger, for gate() to scope per
// invocation with a correlation id. main() installs it on the root
// command's context; no package-level logger is kept.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFromCmd(cmd *cobra.Command) *slog.Logger {
	logger, _ := cmd.Context().Value(loggerKey{}).(*slog.Logger)
	return logging.Default(logger).With("component", "cli")
}

// homeDirFromCmd resolves the --home flag, falling back to the
// platform default.
func homeDirFromCmd(cmd *cobra.Command) (home.Dir, error) {
	flag, _ := cmd.Flags().GetString("home")
	if flag != "" {
		return home.New(flag), nil
	}
	return home.Default()
}

// storeDirFromCmd resolves the --store flag, falling back to the default
// store directory under home.
func storeDirFromCmd(cmd *cobra.Command, hd home.Dir) string {
	flag, _ := cmd.Flags().GetString("store")
	if flag != "" {
		return flag
	}
	return hd.DefaultStoreDir()
}

// gate wraps a single command's execution with the full policy/audit/lock
// discipline every command in this CLI goes through: resolve the calling
// user and the target store, load the access policy, take the store's
// exclusive lock, then deny and audit-log without running fn if the policy
// refuses, otherwise run fn and audit-log its outcome. The lock is held
// until gate returns, in both cases.
//
// fn's error is what determines whether the audited status is OK or
// FAIL; gate propagates that error to the caller after logging.
func gate(cmd *cobra.Command, command string, args []string, fn func(hd home.Dir, storeDir string) error) error {
	opLog := loggerFromCmd(cmd).With("op_id", uuid.NewString(), "command", command)

	hd, err := homeDirFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := hd.EnsureExists(); err != nil {
		return err
	}

	user, err := identity.Current()
	if err != nil {
		return fmt.Errorf("resolve current user: %w", err)
	}
	opLog = opLog.With("user", user)
	fmt.Fprintf(cmd.OutOrStdout(), "User: %s\n", user)

	storeDir := storeDirFromCmd(cmd, hd)
	argsStr := strings.Join(args, " ")
	auditLogger := audit.New(snapshot.New(storeDir).AuditLogPath())

	pol, err := loadPolicyOrDefault(hd)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	opLog.Info("command starting", "store", storeDir)

	// The store lock is acquired before any write to the store, including
	// the audit log itself (audit.log lives inside the store directory
	// and is one of the append-only files the lock serializes).
	lock, err := storelock.Acquire(storeDir)
	if err != nil {
		opLog.Error("store lock unavailable", "error", err)
		return err
	}
	defer func() { _ = lock.Release() }()

	if !pol.IsAllowed(user, command) {
		opLog.Warn("denied by policy")
		if logErr := auditLogger.Log(user, command, argsStr, audit.StatusDeny); logErr != nil {
			return logErr
		}
		return fmt.Errorf("DENY by policy: user %q may not run %q", user, command)
	}

	runErr := fn(hd, storeDir)
	status := audit.StatusOK
	if runErr != nil {
		status = audit.StatusFail
		opLog.Error("command failed", "error", runErr)
	} else {
		opLog.Info("command finished")
	}
	if logErr := auditLogger.Log(user, command, argsStr, status); logErr != nil {
		return logErr
	}
	return runErr
}

// loadPolicyOrDefault loads policy.yaml from home. A home directory with no
// policy file yet (e.g. right after init, before an operator has configured
// multi-user access) is treated as fully permissive, matching a fresh
// single-operator install.
func loadPolicyOrDefault(hd home.Dir) (*policy.Policy, error) {
	if !fsutil.Exists(hd.PolicyPath()) {
		return &policy.Policy{DefaultRole: "admin", Roles: map[string][]string{
			"admin": {"backup", "verify", "restore", "list-snapshots", "delete-snapshot", "purge", "init", "audit-verify"},
		}}, nil
	}
	return policy.Load(hd.PolicyPath())
}
