// Package config handles configuration loading and validation for tada.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the XDG config and data homes.
const AppName = "tada"

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	List      ListConfig      `yaml:"list"`
	Hydration HydrationConfig `yaml:"hydration"`
	Theme     string          `yaml:"theme"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // json, sqlite or memory
	Key     string `yaml:"key"`     // key holding the serialized list
}

// ListConfig controls list ordering.
type ListConfig struct {
	Insert string `yaml:"insert"` // top or bottom
}

// HydrationConfig controls startup loading.
type HydrationConfig struct {
	OnCorrupt string `yaml:"on_corrupt"` // empty or error
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendJSON,
			Key:     "tasks",
		},
		List:      ListConfig{Insert: "top"},
		Hydration: HydrationConfig{OnCorrupt: "empty"},
		Theme:     "classic",
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}
	cfg.DataDir = dataDir

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills fields a partial config file left blank.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaults.Storage.Key
	}
	if c.List.Insert == "" {
		c.List.Insert = defaults.List.Insert
	}
	if c.Hydration.OnCorrupt == "" {
		c.Hydration.OnCorrupt = defaults.Hydration.OnCorrupt
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/tada/config.yaml, falling back to
// ~/.config/tada/config.yaml.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(AppName, "config.yaml")
	}
	return filepath.Join(home, ".config", AppName, "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/tada, falling back to
// ~/.local/share/tada.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}
