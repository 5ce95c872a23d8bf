package cli

import (
	"github.com/spf13/cobra"

	"backupvault/internal/fsutil"
	"backupvault/internal/home"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the home directory and an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gate(cmd, "init", nil, func(hd home.Dir, storeDir string) error {
				return fsutil.EnsureDir(storeDir)
			})
		},
	}
}
