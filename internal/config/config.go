package config

import (
	"os"
	"strconv"
	"strings"

	"scheintool/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	SettingsFile string // empty means the per-platform default
	TemplateDir  string
	LayoutDir    string // optional YAML layout overrides
}

// PipelineConfig holds merge and render settings
type PipelineConfig struct {
	Location    string
	BirthMarker string
	JoinPolicy  string
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string
}

// Defaults used when the environment does not say otherwise
const (
	DefaultLocation    = "München"
	DefaultBirthMarker = " in "
	DefaultJoinPolicy  = "strict"
	DefaultTemplateDir = "pdfs"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths:    *loadPathConfig(),
		Pipeline: *loadPipelineConfig(),
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		SettingsFile: getEnvOrDefault("SCHEINTOOL_SETTINGS", ""),
		TemplateDir:  getEnvOrDefault("SCHEINTOOL_TEMPLATE_DIR", DefaultTemplateDir),
		LayoutDir:    getEnvOrDefault("SCHEINTOOL_LAYOUT_DIR", ""),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Location: getEnvOrDefault("SCHEINTOOL_LOCATION", DefaultLocation),
		// the marker carries its own spaces, so it must not be trimmed
		BirthMarker: getEnvRawOrDefault("SCHEINTOOL_BIRTH_MARKER", DefaultBirthMarker),
		JoinPolicy:  strings.ToLower(getEnvOrDefault("SCHEINTOOL_JOIN_POLICY", DefaultJoinPolicy)),
	}
}

// Validate checks values that can also be overridden from the command line
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(config *Config) error {
	if config.Paths.TemplateDir == "" {
		return errors.ConfigInvalid("template directory is required")
	}
	if config.Pipeline.BirthMarker == "" {
		return errors.ConfigInvalid("birth marker must not be empty")
	}
	switch config.Pipeline.JoinPolicy {
	case "strict", "lenient":
	default:
		return errors.ConfigInvalid("join policy must be strict or lenient, got " + strconv.Quote(config.Pipeline.JoinPolicy))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRawOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
