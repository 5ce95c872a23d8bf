package cli

import (
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"backupvault/internal/logging"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"bogus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseLogLevel(%q): expected error, got level %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLogLevel(%q): unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyLogLevelSetsComponentLevel(t *testing.T) {
	filterHandler := logging.NewComponentFilterHandler(logging.Discard().Handler(), slog.LevelInfo)
	cmd := newRootForLevelTest(filterHandler)

	cmd.SetArgs([]string{"--log-level", "debug", "version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := filterHandler.Level("cli"); got != slog.LevelDebug {
		t.Fatalf("expected cli level debug, got %v", got)
	}

	cmd.SetArgs([]string{"--log-level", "default", "version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := filterHandler.Level("cli"); got != slog.LevelInfo {
		t.Fatalf("expected cli level reset to default (info), got %v", got)
	}
}

func TestApplyLogLevelRejectsUnknownLevel(t *testing.T) {
	filterHandler := logging.NewComponentFilterHandler(logging.Discard().Handler(), slog.LevelInfo)
	cmd := newRootForLevelTest(filterHandler)

	cmd.SetArgs([]string{"--log-level", "nonsense", "version"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown --log-level value")
	}
}

func newRootForLevelTest(filterHandler *logging.ComponentFilterHandler) *cobra.Command {
	cmd := NewRootCommand("test", filterHandler)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd
}
