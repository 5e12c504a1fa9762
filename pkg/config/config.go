// Package config loads the settings shared by the enigma binaries.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/validation"
)

// Environment variables read by ApplyEnv.
const (
	EnvPresetsFile = "ENIGMA_PRESETS"
	EnvPreset      = "ENIGMA_PRESET"
	EnvFormat      = "ENIGMA_FORMAT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvMetricsAddr = "ENIGMA_METRICS_ADDR"
	EnvAuditBuffer = "ENIGMA_AUDIT_BUFFER"
)

// Default configuration values
const (
	DefaultPreset      = "EnigmaI"
	DefaultFormat      = "five"
	DefaultLogLevel    = "info"
	DefaultAuditBuffer = 256
	MaxAuditBuffer     = 1 << 16
)

// Config holds the runtime settings of a console session.
type Config struct {
	// PresetsFile is a YAML catalog to load instead of the built-in one.
	PresetsFile string `yaml:"presets_file"`

	// DefaultPreset is the preset selected at startup.
	DefaultPreset string `yaml:"default_preset"`

	// Format is the ciphertext layout: original, four or five.
	Format string `yaml:"format"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr"`

	// AuditBuffer is the number of audit events kept in memory.
	AuditBuffer int `yaml:"audit_buffer"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultPreset: DefaultPreset,
		Format:        DefaultFormat,
		LogLevel:      DefaultLogLevel,
		AuditBuffer:   DefaultAuditBuffer,
	}
}

// Load decodes YAML from r over the defaults. Unknown keys are rejected.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// ApplyEnv overrides fields from the environment. Unset or empty variables
// leave the field alone.
func (c *Config) ApplyEnv() error {
	setFromEnv(&c.PresetsFile, EnvPresetsFile)
	setFromEnv(&c.DefaultPreset, EnvPreset)
	setFromEnv(&c.Format, EnvFormat)
	setFromEnv(&c.LogLevel, EnvLogLevel)
	setFromEnv(&c.MetricsAddr, EnvMetricsAddr)

	if v := os.Getenv(EnvAuditBuffer); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAuditBuffer, v, err)
		}
		c.AuditBuffer = n
	}
	return nil
}

func setFromEnv(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		Required("DefaultPreset", c.DefaultPreset).
		TemplateID("DefaultPreset", c.DefaultPreset).
		Custom("Format", func() error {
			_, err := enigma.ParseFormatting(c.Format)
			return err
		}).
		OneOf("LogLevel", strings.ToLower(c.LogLevel), logging.LevelNames).
		ListenAddr("MetricsAddr", c.MetricsAddr).
		RangeInt("AuditBuffer", c.AuditBuffer, 1, MaxAuditBuffer).
		Validate()
}

// Formatting returns the parsed Format. Call Validate first.
func (c *Config) Formatting() enigma.Formatting {
	f, _ := enigma.ParseFormatting(c.Format)
	return f
}

// Level returns the parsed LogLevel.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
