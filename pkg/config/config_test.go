package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nautilusmedia/dedupe/pkg/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "dedupe", cfg.Service.Name)
	assert.Equal(t, 8085, cfg.Service.Port)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, "0 3 * * *", cfg.Scan.Schedule)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  port: 9090
scan:
  workers: 2
  collections:
    - movies
    - shows
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, []string{"movies", "shows"}, cfg.Scan.Collections)
	// Untouched settings keep their defaults.
	assert.Equal(t, "dedupe", cfg.Service.Name)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DEDUPE_SERVICE_PORT", "7070")
	t.Setenv("DEDUPE_LOGGER_LEVEL", "debug")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Service.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestWorkersClamped(t *testing.T) {
	for input, expected := range map[int]int{-3: 1, 0: 1, 1: 1, 8: 8, 50: 8} {
		cfg := config.Default()
		cfg.Scan.Workers = input
		require.NoError(t, cfg.Validate())
		assert.Equal(t, expected, cfg.Scan.Workers, "workers %d", input)
	}
}

func TestInvalidPortRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Service.Port = -1
	assert.Error(t, cfg.Validate())
}

func TestMissingCatalogURLRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.BaseURL = ""
	assert.Error(t, cfg.Validate())
}
