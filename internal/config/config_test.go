package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/handheldctl/internal/config"
	"codeberg.org/mutker/handheldctl/internal/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "handheldctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
interval = 5
threshold = 2.0
fan_control = true
preset = "Sport"
telemetry = true
database = "/var/lib/handheldctl/telemetry.db"
log_level = "debug"
`)
	t.Setenv("HANDHELDCTL_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Interval)
	assert.InDelta(t, 2.0, cfg.Threshold, 1e-9)
	assert.True(t, cfg.FanControl)
	assert.Equal(t, "Sport", cfg.Preset)
	assert.True(t, cfg.Telemetry)
	assert.Equal(t, "/var/lib/handheldctl/telemetry.db", cfg.TelemetryDB)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HANDHELDCTL_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.InDelta(t, config.DefaultThreshold, cfg.Threshold, 1e-9)
	assert.False(t, cfg.FanControl)
	assert.Equal(t, config.DefaultPreset, cfg.Preset)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}

func TestLoadCustomCurve(t *testing.T) {
	path := writeConfig(t, `
preset = "Custom"
fan_control = true

[[curve]]
temperature = 30.0
speed = 20.0

[[curve]]
temperature = 40.0
speed = 30.0

[[curve]]
temperature = 55.0
speed = 50.0

[[curve]]
temperature = 70.0
speed = 75.0

[[curve]]
temperature = 85.0
speed = 100.0
`)
	t.Setenv("HANDHELDCTL_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	fc, err := cfg.FanCurve()
	require.NoError(t, err)
	assert.Equal(t, curve.PresetCustom, fc.Preset)
	assert.True(t, fc.Enabled)
	assert.InDelta(t, 40.0, fc.Interpolate(47.5), 1e-9)
}

func TestLoadCustomCurveWrongPointCount(t *testing.T) {
	path := writeConfig(t, `
preset = "Custom"

[[curve]]
temperature = 30.0
speed = 20.0
`)
	t.Setenv("HANDHELDCTL_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadInvalidFormat(t *testing.T) {
	path := writeConfig(t, "This is not a valid TOML file")
	t.Setenv("HANDHELDCTL_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "invalid"`)
	t.Setenv("HANDHELDCTL_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestInvalidPreset(t *testing.T) {
	path := writeConfig(t, `preset = "Hurricane"`)
	t.Setenv("HANDHELDCTL_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("HANDHELDCTL_CONFIG", "")

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"handheldctl", "--log-level", "debug"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
