/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config represents the hybridrow tool configuration
type Config struct {
	CatalogDir string   `yaml:"catalog_dir"`
	Stream     Stream   `yaml:"stream"`
	Compiler   Compiler `yaml:"compiler"`
	Logging    Logging  `yaml:"logging"`
	Metrics    Metrics  `yaml:"metrics"`
}

// Stream contains RecordIO stream configuration
type Stream struct {
	BufferSize    int           `yaml:"buffer_size"`
	FsyncInterval time.Duration `yaml:"fsync_interval"`
	MaxRecordSize int           `yaml:"max_record_size"`
}

// Compiler contains layout compiler configuration
type Compiler struct {
	CacheSize int `yaml:"cache_size"`
}

// Logging contains logging configuration
type Logging struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Metrics contains metrics configuration
type Metrics struct {
	Enabled bool `yaml:"enabled"`
	// Textfile receives the metrics in Prometheus text format when a
	// command finishes.
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CatalogDir: "./catalog",
		Stream: Stream{
			BufferSize:    4096,
			FsyncInterval: 0,
			MaxRecordSize: 16 << 20,
		},
		Compiler: Compiler{
			CacheSize: 1024,
		},
		Logging: Logging{
			Level:    "info",
			Encoding: "json",
		},
		Metrics: Metrics{
			Enabled: false,
		},
	}
}

// Validate checks the configuration for values the tool cannot run with
func (c *Config) Validate() error {
	if c.Stream.BufferSize < 0 {
		return fmt.Errorf("stream.buffer_size must not be negative: %d", c.Stream.BufferSize)
	}
	if c.Stream.FsyncInterval < 0 {
		return fmt.Errorf("stream.fsync_interval must not be negative: %s", c.Stream.FsyncInterval)
	}
	if c.Stream.MaxRecordSize < 0 {
		return fmt.Errorf("stream.max_record_size must not be negative: %d", c.Stream.MaxRecordSize)
	}
	if c.Compiler.CacheSize < 0 {
		return fmt.Errorf("compiler.cache_size must not be negative: %d", c.Compiler.CacheSize)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging.encoding %q: must be json or console", c.Logging.Encoding)
	}
	if c.Metrics.Enabled && c.Metrics.Textfile == "" {
		return fmt.Errorf("metrics.textfile is required when metrics are enabled")
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their defaults.
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

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
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

// BootstrapConfig writes a default configuration, pointing the catalog at
// catalogDir when it is set
func BootstrapConfig(configPath string, catalogDir string) (*Config, error) {
	config := DefaultConfig()
	if catalogDir != "" {
		config.CatalogDir = catalogDir
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
		return "./hybridrow.yaml"
	}

	// For Linux/macOS, use ~/.config/hybridrow/config.yaml
	configDir := filepath.Join(homeDir, ".config", "hybridrow")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
