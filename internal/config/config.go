// Package config loads and saves the comptaflow.yaml configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects which storage backend the application runs against.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeCloud  Mode = "cloud"
	ModeHybrid Mode = "hybrid"
)

// Config represents the top-level comptaflow.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Mode     Mode           `yaml:"mode"`
	Local    LocalConfig    `yaml:"local"`
	Remote   RemoteConfig   `yaml:"remote,omitempty"`
	Sync     SyncConfig     `yaml:"sync"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// LocalConfig locates the embedded database.
type LocalConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig points at the cloud database for one tenant.
type RemoteConfig struct {
	DSN      string `yaml:"dsn"`
	TenantID string `yaml:"tenant_id"`
}

// SyncConfig tunes the push retry policy.
type SyncConfig struct {
	RetryCeiling int           `yaml:"retry_ceiling"`
	BackoffBase  time.Duration `yaml:"backoff_base"`
	BackoffMax   time.Duration `yaml:"backoff_max"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Mode string `yaml:"mode"` // development or production
}

// Load reads a comptaflow.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "XOF",
		},
		Mode: ModeLocal,
		Local: LocalConfig{
			Path: "comptaflow.db",
		},
		Sync: SyncConfig{
			RetryCeiling: 3,
			BackoffBase:  time.Second,
			BackoffMax:   2 * time.Minute,
		},
		Log: LogConfig{
			Mode: "production",
		},
	}
}
