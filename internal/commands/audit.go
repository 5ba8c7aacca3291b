package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comptaflow/comptaflow/internal/audit"
	"github.com/comptaflow/comptaflow/internal/storage"
)

func newAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}
	cmd.AddCommand(newAuditVerifyCommand())
	return cmd
}

func newAuditVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute the audit hash chain and report the first broken link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, store, err := setup(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			trail, err := store.AuditTrail(cmd.Context(), storage.QueryFilters{})
			if err != nil {
				return err
			}
			if err := audit.Verify(trail); err != nil {
				return fmt.Errorf("audit chain broken: %w", err)
			}
			fmt.Printf("Audit chain intact: %d entries\n", len(trail))
			return nil
		},
	}
}
