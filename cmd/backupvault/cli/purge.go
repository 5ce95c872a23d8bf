package cli

import (
	"github.com/spf13/cobra"

	"backupvault/internal/home"
	"backupvault/internal/snapshot"
)

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove orphaned staging directories and uncommitted snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cleaned int
			err := gate(cmd, "purge", nil, func(hd home.Dir, storeDir string) error {
				n, err := snapshot.New(storeDir).CleanupIncompleteSnapshots()
				if err != nil {
					return err
				}
				cleaned = n
				return nil
			})
			if err != nil {
				return err
			}
			cmd.Printf("Purge completed: %d entries removed\n", cleaned)
			return nil
		},
	}
}
