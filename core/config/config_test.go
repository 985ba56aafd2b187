package config

import (
	"os"
	"path/filepath"
	"testing"

	"pns-snapshot/core/harvest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://pns-graph.ddns.so/subgraphs/name/graphprotocol/pns", cfg.Graph.Endpoint)
	assert.Equal(t, 3, cfg.Graph.MaxRetries)
	assert.Equal(t, float64(5), cfg.Graph.RequestsPerSecond)

	assert.Equal(t, 500, cfg.Accounts.PageSize)
	assert.Equal(t, 600, cfg.Accounts.CompletionThreshold)
	assert.Equal(t, 500, cfg.Accounts.Family().Continuation())
	assert.Equal(t, harvest.Window{}, cfg.Accounts.Window())

	assert.Equal(t, 1000, cfg.NewAccounts.PageSize)
	assert.Equal(t, 1000, cfg.NewAccounts.Family().Continuation())
	assert.Equal(t, harvest.NewBucketWindow(1667908800, 1669032000), cfg.NewAccounts.Window())

	assert.Equal(t, int64(100), cfg.Registrations.DefaultCapacity)
	assert.Equal(t, 100, cfg.Subdomains.PageSize)
	assert.Equal(t, "file", cfg.Snapshot.Backend)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.Enabled)
	assert.True(t, cfg.Server.PublicMetrics)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ACCOUNTS_PAGE_SIZE", "250")
	t.Setenv("ACCOUNTS_MAX_TIMESTAMP", "1671969600")
	t.Setenv("GRAPH_ENDPOINT", "http://localhost:8000/graphql")
	t.Setenv("SNAPSHOT_BACKEND", "s3")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Accounts.PageSize)
	assert.Equal(t, harvest.NewWindow(1671969600), cfg.Accounts.Window())
	assert.Equal(t, "http://localhost:8000/graphql", cfg.Graph.Endpoint)
	assert.Equal(t, "s3", cfg.Snapshot.Backend)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	yaml := "newaccounts:\n  old_timestamp: 1600000000\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(1600000000), cfg.NewAccounts.OldTimestamp)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 1000, cfg.NewAccounts.PageSize)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SNAPSHOT_BACKEND", "ftp")
	t.Setenv("SUBDOMAINS_PAGE_SIZE", "0")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
	assert.ErrorIs(t, err, harvest.ErrInvalidPageSize)
}
