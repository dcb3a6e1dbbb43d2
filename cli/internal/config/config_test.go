package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg.Defaults)
	assert.Equal(t, "http://localhost:8001", cfg.Defaults.CollectorURL)
	assert.Equal(t, "http://localhost:8002", cfg.Defaults.StorageURL)
	assert.Equal(t, "http://localhost:8003", cfg.Defaults.MLURL)
	assert.Equal(t, "http://localhost:8004", cfg.Defaults.MinerURL)
	assert.Equal(t, 1000, cfg.Defaults.BatchSize)
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults)
	assert.Equal(t, "http://localhost:8001", cfg.Defaults.CollectorURL)
}

func TestLoad_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `defaults:
  collector_url: http://collector.internal:8001
  storage_url: http://storage.internal:8002
  ml_url: http://ml.internal:8003
  miner_url: http://miner.internal:8004
  batch_size: 500
  report_dir: /var/lib/loghound/reports
`
	err := os.WriteFile(configPath, []byte(configContent), 0600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://collector.internal:8001", cfg.Defaults.CollectorURL)
	assert.Equal(t, "http://ml.internal:8003", cfg.Defaults.MLURL)
	assert.Equal(t, 500, cfg.Defaults.BatchSize)
	assert.Equal(t, "/var/lib/loghound/reports", cfg.Defaults.ReportDir)
}

func TestLoad_WithEnvironmentOverrides(t *testing.T) {
	t.Setenv("LHOUND_COLLECTOR_URL", "http://env-collector:9001")
	t.Setenv("LHOUND_ML_URL", "http://env-ml:9003")

	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "http://env-collector:9001", cfg.Defaults.CollectorURL)
	assert.Equal(t, "http://env-ml:9003", cfg.Defaults.MLURL)
	// Untouched values keep their defaults.
	assert.Equal(t, "http://localhost:8002", cfg.Defaults.StorageURL)
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.path = configPath
	cfg.Defaults.BatchSize = 250

	require.NoError(t, cfg.Save())

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 250, loaded.Defaults.BatchSize)
}
