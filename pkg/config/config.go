/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/helixcode/pkg/frame"
	"github.com/ssargent/helixcode/pkg/pipeline"
)

// Config represents the helix configuration
type Config struct {
	Workers          int           `yaml:"workers"`
	LineWidth        int           `yaml:"line_width"`
	Placeholder      string        `yaml:"placeholder"`
	SymbolPolicy     string        `yaml:"symbol_policy"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
	Compress         bool          `yaml:"compress"`
	MetricsFile      string        `yaml:"metrics_file"`
	Logging          Logging       `yaml:"logging"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:          runtime.NumCPU(),
		LineWidth:        frame.DefaultLineWidth,
		Placeholder:      string(pipeline.DefaultPlaceholder),
		SymbolPolicy:     string(pipeline.SymbolPolicyAbort),
		ProgressInterval: pipeline.DefaultProgressInterval,
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate rejects settings the pipeline or frame writer cannot use
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.LineWidth < 1 {
		return fmt.Errorf("line_width must be at least 1, got %d", c.LineWidth)
	}
	if len(c.Placeholder) != 1 {
		return fmt.Errorf("placeholder must be a single byte, got %q", c.Placeholder)
	}
	if _, err := pipeline.ParseSymbolPolicy(c.SymbolPolicy); err != nil {
		return fmt.Errorf("symbol_policy: %w", err)
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress_interval must be positive, got %s", c.ProgressInterval)
	}
	level := strings.ToLower(c.Logging.Level)
	for _, l := range logLevels {
		if level == l {
			return nil
		}
	}
	return fmt.Errorf("unknown logging level %q", c.Logging.Level)
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath, pinning
// the worker count when workers > 0
func BootstrapConfig(configPath string, workers int) (*Config, error) {
	config := DefaultConfig()
	if workers > 0 {
		config.Workers = workers
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./helix.yaml"
	}

	// For Linux/macOS, use ~/.config/helix/config.yaml
	configDir := filepath.Join(homeDir, ".config", "helix")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
