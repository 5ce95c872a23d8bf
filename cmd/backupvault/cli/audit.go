package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"backupvault/internal/audit"
	"backupvault/internal/home"
	"backupvault/internal/snapshot"
)

func newAuditVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit-verify",
		Short: "Check the audit log's hash chain for tampering or truncation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result audit.VerifyResult
			err := gate(cmd, "audit-verify", nil, func(hd home.Dir, storeDir string) error {
				r, err := audit.Verify(snapshot.New(storeDir).AuditLogPath())
				if err != nil {
					return err
				}
				result = r
				if !result.OK() {
					return fmt.Errorf("audit log corrupted at line %d: %s", result.Line, result.Message)
				}
				return nil
			})
			if err != nil {
				return err
			}
			cmd.Println("Audit log valid")
			return nil
		},
	}
}
