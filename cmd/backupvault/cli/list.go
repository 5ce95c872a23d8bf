package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"backupvault/internal/home"
	"backupvault/internal/snapshot"
)

func newListSnapshotsCmd() *cobra.Command {
	var format string
	var labelGlob string

	cmd := &cobra.Command{
		Use:   "list-snapshots",
		Short: "List committed snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []snapshot.Info
			err := gate(cmd, "list-snapshots", []string{labelGlob}, func(hd home.Dir, storeDir string) error {
				result, err := snapshot.New(storeDir).ListSnapshots(labelGlob)
				if err != nil {
					return err
				}
				infos = result
				return nil
			})
			if err != nil {
				return err
			}

			p := newPrinter(format)
			if format == "json" {
				return p.json(infos)
			}

			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{
					info.ID,
					info.Label,
					time.UnixMilli(info.TimestampMS).Format(time.RFC3339),
					strconv.Itoa(info.FileCount),
					info.MerkleRoot,
				}
			}
			p.table([]string{"ID", "LABEL", "TIMESTAMP", "FILES", "MERKLE ROOT"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table or json")
	cmd.Flags().StringVar(&labelGlob, "label", "", "glob pattern to filter by label")

	return cmd
}
