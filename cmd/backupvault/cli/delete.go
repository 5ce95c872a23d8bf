package cli

import (
	"github.com/spf13/cobra"

	"backupvault/internal/home"
	"backupvault/internal/snapshot"
)

func newDeleteSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-snapshot <snapshot-id>",
		Short: "Remove a committed snapshot's directory from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapID := args[0]
			err := gate(cmd, "delete-snapshot", []string{snapID}, func(hd home.Dir, storeDir string) error {
				return snapshot.New(storeDir).DeleteSnapshot(snapID)
			})
			if err != nil {
				return err
			}
			cmd.Printf("Deleted snapshot: %s\n", snapID)
			return nil
		},
	}
}
