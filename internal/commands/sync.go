package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comptaflow/comptaflow/internal/storage/hybrid"
)

func newSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the local ledger with the cloud",
	}
	cmd.AddCommand(newSyncPushCommand())
	cmd.AddCommand(newSyncPullCommand())
	return cmd
}

// hybridStore opens the configured store and requires it to be the hybrid
// backend; push and pull only exist there.
func hybridStore(cmd *cobra.Command) (*hybrid.Store, error) {
	_, _, store, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	h, ok := store.(*hybrid.Store)
	if !ok {
		store.Close()
		return nil, fmt.Errorf("sync requires mode: hybrid in the configuration")
	}
	return h, nil
}

func newSyncPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Deliver queued local changes to the cloud",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := hybridStore(cmd)
			if err != nil {
				return err
			}
			defer h.Close()

			res := h.Push(cmd.Context())
			fmt.Printf("Pushed %d, conflicts %d, queued %d\n", res.Pushed, res.Conflicts, h.QueueLen())
			for _, msg := range res.Errors {
				fmt.Println("  error:", msg)
			}
			return nil
		},
	}
}

func newSyncPullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Merge newer cloud records into the local ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := hybridStore(cmd)
			if err != nil {
				return err
			}
			defer h.Close()

			cs, err := h.Pull(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Merged %d changes since %s\n", len(cs.Changes), cs.Since.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
