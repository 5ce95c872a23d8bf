package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"backupvault/internal/home"
	"backupvault/internal/snapshot"
)

func newBackupCmd() *cobra.Command {
	var excludes []string
	var parallelism int

	cmd := &cobra.Command{
		Use:   "backup <source>",
		Short: "Capture a new snapshot of source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			label, _ := cmd.Flags().GetString("label")
			if label == "" {
				return fmt.Errorf("--label is required")
			}

			var snapID string
			err := gate(cmd, "backup", []string{source, label}, func(hd home.Dir, storeDir string) error {
				eng := snapshot.New(storeDir)
				id, err := eng.Backup(cmd.Context(), source, label, snapshot.Options{
					Excludes:    excludes,
					Parallelism: parallelism,
				})
				if err != nil {
					return err
				}
				snapID = id
				return nil
			})
			if err != nil {
				return err
			}
			cmd.Printf("Backup completed: %s\n", snapID)
			return nil
		},
	}

	cmd.Flags().String("label", "", "label for the snapshot (required)")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "glob pattern to exclude (repeatable)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "max files chunked concurrently (0 = unbounded)")

	return cmd
}
