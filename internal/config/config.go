// Package config handles reading and writing .vibeconsole/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .vibeconsole/config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Service ServiceConfig `yaml:"service"`
	Probe   ProbeConfig   `yaml:"probe"`
}

// ServiceConfig locates the agent engine.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ProbeConfig controls the readiness check run before the first query.
type ProbeConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	IntervalMS  int `yaml:"interval_ms"`
}

// configFileName is the path relative to the config root.
const configDir = ".vibeconsole"
const configFile = "config.yaml"

// Dir returns the directory holding config and logs, rooted at the
// user's home directory. Falls back to the working directory when the
// home directory cannot be resolved.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configDir
	}
	return filepath.Join(home, configDir)
}

// ReadConfig reads config.yaml from the given config directory.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to config.yaml in the given config directory.
// Creates the directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Service: ServiceConfig{
			BaseURL: "http://localhost:8000",
		},
		Probe: ProbeConfig{
			MaxAttempts: 60,
			IntervalMS:  2000,
		},
	}
}
