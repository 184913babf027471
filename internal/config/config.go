package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the config file looked up inside the home directory.
const ConfigFileName = "config.yaml"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// HistoryConfig represents search history configuration
type HistoryConfig struct {
	// Enabled records every search in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`

	// KeepDays is the number of days to keep search runs (0 = forever)
	KeepDays int `yaml:"keep_days"`
}

// Config represents licensesearch configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// FileLogging writes a run log per invocation to LogDir
	FileLogging bool `yaml:"file_logging"`

	// Extension is the file name suffix of searchable files
	Extension string `yaml:"extension"`

	// Color controls terminal colors: auto, always or never
	Color string `yaml:"color"`

	// DefaultFormat is the export format used when none is given
	DefaultFormat string `yaml:"default_format"`

	// History contains search history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with default values rooted at home
func DefaultConfig(home string) *Config {
	return &Config{
		LogLevel:      "info",
		LogDir:        filepath.Join(home, "logs"),
		FileLogging:   false,
		Extension:     ".txt",
		Color:         ColorAuto,
		DefaultFormat: "csv",
		History: HistoryConfig{
			Enabled:  false,
			DBPath:   filepath.Join(home, "history.db"),
			KeepDays: 90,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
// Relative paths in the file are resolved against home.
func LoadConfig(path, home string) (*Config, error) {
	cfg := DefaultConfig(home)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = ExpandPath(yamlCfg.LogDir, home)
	}
	if yamlCfg.Extension != "" {
		cfg.Extension = yamlCfg.Extension
	}
	if yamlCfg.Color != "" {
		cfg.Color = yamlCfg.Color
	}
	if yamlCfg.DefaultFormat != "" {
		cfg.DefaultFormat = yamlCfg.DefaultFormat
	}

	// Booleans and nested sections only override when present in the file
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if _, exists := rawMap["file_logging"]; exists {
			cfg.FileLogging = yamlCfg.FileLogging
		}

		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			history := yamlCfg.History
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = history.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				// Explicitly set db_path, even if empty string
				cfg.History.DBPath = ExpandPath(history.DBPath, home)
			}
			if _, exists := historyMap["keep_days"]; exists {
				cfg.History.KeepDays = history.KeepDays
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromHome loads configuration from config.yaml in the home directory.
// If the directory or file doesn't exist, returns default configuration without error.
func LoadConfigFromHome(home string) (*Config, error) {
	return LoadConfig(filepath.Join(home, ConfigFileName), home)
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(logLevel *string, color *string, extension *string, format *string, history *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if color != nil {
		c.Color = *color
	}
	if extension != nil {
		c.Extension = *extension
	}
	if format != nil {
		c.DefaultFormat = *format
	}
	if history != nil {
		c.History.Enabled = *history
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return fmt.Errorf("invalid extension %q, must start with '.' followed by a suffix", c.Extension)
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		return fmt.Errorf("invalid extension %q, must not contain path separators", c.Extension)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color %q, must be one of: auto, always, never", c.Color)
	}

	switch strings.ToLower(c.DefaultFormat) {
	case "csv", "json", "markdown", "md", "html":
	default:
		return fmt.Errorf("invalid default_format %q, must be one of: csv, json, markdown, html", c.DefaultFormat)
	}

	if c.FileLogging && c.LogDir == "" {
		return fmt.Errorf("log_dir cannot be empty when file_logging is enabled")
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}
	if c.History.KeepDays < 0 {
		return fmt.Errorf("history.keep_days must be >= 0, got %d", c.History.KeepDays)
	}

	return nil
}
