package cli

import (
	"github.com/spf13/cobra"

	"backupvault/internal/home"
	"backupvault/internal/snapshot"
)

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <snapshot-id> <target>",
		Short: "Verify then reconstruct a snapshot's files under target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapID, target := args[0], args[1]
			err := gate(cmd, "restore", []string{snapID, target}, func(hd home.Dir, storeDir string) error {
				return snapshot.New(storeDir).Restore(snapID, target)
			})
			if err != nil {
				return err
			}
			cmd.Printf("Restore completed to: %s\n", target)
			return nil
		},
	}
}
