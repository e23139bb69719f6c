package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)

	assert.True(t, cfg.Normalize.NormalizeManagementFee)
	assert.InDelta(t, 5.0, cfg.Normalize.TargetManagementFeePercent, 0.001)
	assert.True(t, cfg.Normalize.NormalizeAgency)
	assert.InDelta(t, 3.0, cfg.Normalize.TargetAgencyPercent, 0.001)
	assert.True(t, cfg.Normalize.AddReserves)
	assert.InDelta(t, 3.0, cfg.Normalize.ReservePercent, 0.001)
	assert.True(t, cfg.Normalize.Annualize)
}

func TestLoadFromFile(t *testing.T) {
	chtemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
normalize:
  annualize: false
  target_management_fee_percent: 4.5
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Normalize.Annualize)
	assert.InDelta(t, 4.5, cfg.Normalize.TargetManagementFeePercent, 0.001)
	// untouched keys keep their defaults
	assert.True(t, cfg.Normalize.AddReserves)
}

func TestLoadEnvOverride(t *testing.T) {
	chtemp(t)
	t.Setenv("UNDERWRITE_LOG_LEVEL", "warn")
	t.Setenv("UNDERWRITE_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
