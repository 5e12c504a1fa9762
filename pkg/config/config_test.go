package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, enigma.FormatFiveLetterBlocks, cfg.Formatting())
	assert.Equal(t, logging.InfoLevel, cfg.Level())
	assert.Empty(t, cfg.PresetsFile)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
default_preset: M3
format: four
log_level: debug
metrics_addr: ":9090"
`))
	require.NoError(t, err)
	assert.Equal(t, "M3", cfg.DefaultPreset)
	assert.Equal(t, enigma.FormatFourLetterBlocks, cfg.Formatting())
	assert.Equal(t, logging.DebugLevel, cfg.Level())
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, DefaultAuditBuffer, cfg.AuditBuffer, "unset keys keep their defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("preset: M3\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("format: [\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enigma.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_preset: Railway\naudit_buffer: 10\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Railway", cfg.DefaultPreset)
	assert.Equal(t, 10, cfg.AuditBuffer)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPresetsFile, "/etc/enigma/presets.yaml")
	t.Setenv(EnvPreset, "Mirror")
	t.Setenv(EnvFormat, "original")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvMetricsAddr, "127.0.0.1:9100")
	t.Setenv(EnvAuditBuffer, "64")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, &Config{
		PresetsFile:   "/etc/enigma/presets.yaml",
		DefaultPreset: "Mirror",
		Format:        "original",
		LogLevel:      "WARN",
		MetricsAddr:   "127.0.0.1:9100",
		AuditBuffer:   64,
	}, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, logging.WarnLevel, cfg.Level())
}

func TestApplyEnvKeepsUnsetFields(t *testing.T) {
	t.Setenv(EnvPreset, "")
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, DefaultPreset, cfg.DefaultPreset)
}

func TestApplyEnvBadAuditBuffer(t *testing.T) {
	t.Setenv(EnvAuditBuffer, "lots")
	assert.Error(t, Default().ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad preset id", func(c *Config) { c.DefaultPreset = "Enigma I" }, "DefaultPreset"},
		{"no preset", func(c *Config) { c.DefaultPreset = "" }, "DefaultPreset"},
		{"bad format", func(c *Config) { c.Format = "six" }, "Format"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"bad metrics addr", func(c *Config) { c.MetricsAddr = "9090" }, "MetricsAddr"},
		{"zero audit buffer", func(c *Config) { c.AuditBuffer = 0 }, "AuditBuffer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Config."+tt.field)
		})
	}

	cfg := Default()
	cfg.Format = "six"
	cfg.AuditBuffer = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors")
}
