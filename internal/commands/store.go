package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comptaflow/comptaflow/internal/config"
	"github.com/comptaflow/comptaflow/internal/logging"
	"github.com/comptaflow/comptaflow/internal/storage"
	"github.com/comptaflow/comptaflow/internal/storage/hybrid"
	"github.com/comptaflow/comptaflow/internal/storage/local"
	"github.com/comptaflow/comptaflow/internal/storage/remote"
)

// loadConfig resolves the --config flag and reads the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// openStore builds the backend selected by the configuration's mode.
func openStore(cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.Mode {
	case config.ModeLocal, "":
		s, err := local.Open(cfg.Local.Path, local.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.ModeCloud:
		s, err := remote.Open(cfg.Remote.DSN, cfg.Remote.TenantID, remote.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.ModeHybrid:
		l, err := local.Open(cfg.Local.Path, local.WithLogger(log))
		if err != nil {
			return nil, err
		}
		r, err := remote.Open(cfg.Remote.DSN, cfg.Remote.TenantID, remote.WithLogger(log))
		if err != nil {
			l.Close()
			return nil, err
		}
		opts := []hybrid.Option{hybrid.WithLogger(log)}
		if cfg.Sync.RetryCeiling > 0 {
			opts = append(opts, hybrid.WithRetryCeiling(cfg.Sync.RetryCeiling))
		}
		if cfg.Sync.BackoffBase > 0 {
			opts = append(opts, hybrid.WithBackoff(hybrid.Backoff{
				Base:   cfg.Sync.BackoffBase,
				Max:    cfg.Sync.BackoffMax,
				Jitter: 0.2,
			}))
		}
		h, err := hybrid.New(l, r, opts...)
		if err != nil {
			l.Close()
			r.Close()
			return nil, err
		}
		return h, nil

	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// setup loads configuration, builds the logger and opens the store.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, store, nil
}
