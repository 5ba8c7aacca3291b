package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comptaflow/comptaflow/internal/accounts"
	"github.com/comptaflow/comptaflow/internal/config"
	"github.com/comptaflow/comptaflow/internal/logging"
	"github.com/comptaflow/comptaflow/internal/storage/local"
)

func newInitCommand() *cobra.Command {
	var name string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ledger with the default chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			return runInit(configPath, name, dbPath)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&dbPath, "db", "comptaflow.db", "local database path")

	return cmd
}

func runInit(configPath, name, dbPath string) error {
	cfg := config.Default(name)
	cfg.Local.Path = dbPath
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	store, err := local.Open(dbPath, local.WithLogger(log))
	if err != nil {
		return err
	}
	defer store.Close()

	svc := accounts.NewService(store)
	inserted, err := svc.SeedDefaultChart(context.Background(), "init")
	if err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}

	fmt.Printf("Initialized %s: %d accounts seeded, config at %s\n", name, inserted, configPath)
	return nil
}
