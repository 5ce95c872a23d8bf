// Package cli implements the backupvault command tree: one subcommand per
// core operation, each wrapped by the identity/policy/lock/audit gate in
// gate.go before it touches a store.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"backupvault/internal/logging"
)

// NewRootCommand returns the root "backupvault" command with every
// subcommand wired in. filterHandler is the same handler main() built the
// process logger on top of; --log-level drives it live via SetLevel/
// ClearLevel rather than only fixing a level at process start.
func NewRootCommand(version string, filterHandler *logging.ComponentFilterHandler) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "backupvault",
		Short:         "Content-addressed, crash-safe, tamper-evident backup engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyLogLevel(cmd, filterHandler)
		},
	}

	cmd.PersistentFlags().String("home", "", "home directory (default: platform config dir)")
	cmd.PersistentFlags().String("store", "", "store directory (default: <home>/store)")
	cmd.PersistentFlags().String("log-level", "", "override the cli log level: debug, info, warn, error, or default to reset")

	cmd.AddCommand(
		newBackupCmd(),
		newVerifyCmd(),
		newRestoreCmd(),
		newListSnapshotsCmd(),
		newDeleteSnapshotCmd(),
		newPurgeCmd(),
		newInitCmd(),
		newAuditVerifyCmd(),
		newVersionCmd(version),
	)

	return cmd
}

// applyLogLevel reads --log-level and pushes it onto the shared
// ComponentFilterHandler, which every gate() logger inherits via its
// "cli" component attribute. "default" clears the override instead of
// setting one, restoring the handler's construction-time default level.
func applyLogLevel(cmd *cobra.Command, filterHandler *logging.ComponentFilterHandler) error {
	value, _ := cmd.Flags().GetString("log-level")
	if value == "" {
		return nil
	}
	if strings.EqualFold(value, "default") {
		filterHandler.ClearLevel("cli")
		return nil
	}
	level, err := parseLogLevel(value)
	if err != nil {
		return err
	}
	filterHandler.SetLevel("cli", level)
	return nil
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown --log-level %q (want debug, info, warn, error, or default)", value)
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
