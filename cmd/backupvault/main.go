// Command backupvault runs the content-addressed, crash-safe,
// tamper-evident backup engine from the command line.
//
// Logging:
//   - Base logger is created here with output format and level
//   - Logger is passed to components via dependency injection
//   - No global slog configuration (no slog.SetDefault)
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"backupvault/cmd/backupvault/cli"
	"backupvault/internal/logging"
)

var version = "dev"

func main() {
	// The base handler allows every level through; ComponentFilterHandler
	// is the actual gate, and --log-level adjusts it per run via SetLevel.
	baseHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	filterHandler := logging.NewComponentFilterHandler(baseHandler, slog.LevelInfo)
	logger := slog.New(filterHandler)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = cli.WithLogger(ctx, logger)

	rootCmd := cli.NewRootCommand(version, filterHandler)
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
