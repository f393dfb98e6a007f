package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "~/.config/milestones", cfg.Storage.Path)
	assert.Equal(t, "milestones.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "milestones", cfg.Storage.Key)
	assert.Equal(t, "milestones:", cfg.Storage.RedisPrefix)
	assert.Empty(t, cfg.Storage.RedisURL)
	assert.Empty(t, cfg.Storage.PostgresURL)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8742, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.False(t, cfg.Logging.Development)
	assert.False(t, cfg.Validation.EnforceDateOrder)
	assert.Equal(t, "year", cfg.Chart.TimeUnit)
	assert.Equal(t, 1200, cfg.Chart.Width)
	assert.Equal(t, 40, cfg.Chart.RowHeight)

	assert.NoError(t, cfg.Validate())
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
storage:
  backend: redis
  redis_url: "redis://localhost:6379/0"
server:
  port: 9999
logging:
  level: "debug"
validation:
  enforce_date_order: true
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Validation.EnforceDateOrder)

	// Non-overridden values remain defaults
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "milestones", cfg.Storage.Key)
	assert.Equal(t, "year", cfg.Chart.TimeUnit)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load("/tmp/nonexistent_path_12345/config.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown backend", "storage:\n  backend: etcd\n", "unknown storage.backend"},
		{"redis without url", "storage:\n  backend: redis\n", "redis_url"},
		{"postgres without url", "storage:\n  backend: postgres\n", "postgres_url"},
		{"empty key", "storage:\n  key: \"  \"\n", "storage.key"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"zero width", "chart:\n  width: 0\n", "chart.width"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tc.yaml), 0644))

			_, err := Load(cfgPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	// Should return defaults
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 8742, cfg.Server.Port)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage, cfg2.Storage)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
chart:
  time_unit: month
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "month", cfg.Chart.TimeUnit)
	// Other fields remain defaults
	assert.Equal(t, 1200, cfg.Chart.Width)
}

func TestSQLitePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := DefaultConfig().Storage.SQLitePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "milestones", "milestones.db"), p)

	s := StorageConfig{Path: "/var/lib/ms", SQLiteFile: "x.db"}
	p, err = s.SQLitePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/ms/x.db", p)
}
