package cli

import (
	"github.com/spf13/cobra"

	"backupvault/internal/home"
	"backupvault/internal/snapshot"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <snapshot-id>",
		Short: "Recompute and check a snapshot's integrity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapID := args[0]
			err := gate(cmd, "verify", []string{snapID}, func(hd home.Dir, storeDir string) error {
				return snapshot.New(storeDir).Verify(snapID)
			})
			if err != nil {
				return err
			}
			cmd.Printf("Snapshot %s verified OK\n", snapID)
			return nil
		},
	}
}
