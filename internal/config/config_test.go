package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comptaflow.yaml")

	cfg := Default("Ma Société")
	cfg.Mode = ModeHybrid
	cfg.Remote = RemoteConfig{DSN: "postgres://localhost/ledger", TenantID: "t-123"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("Test SARL")
	assert.Equal(t, "Test SARL", cfg.Business.Name)
	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, 3, cfg.Sync.RetryCeiling)
	assert.Equal(t, time.Second, cfg.Sync.BackoffBase)
	assert.Equal(t, "comptaflow.db", cfg.Local.Path)
}
