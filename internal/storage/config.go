package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Backend names accepted in Config.Backend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Backend        string `json:"backend"`
	DataDir        string `json:"dataDir"`
	RootFolderName string `json:"rootFolderName"`
	DefaultSetName string `json:"defaultSetName"`
	ConfirmDelete  *bool  `json:"confirmDelete"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	confirm := true
	return Config{
		Backend:        BackendJSON,
		DataDir:        filepath.Join(xdg.DataHome, "bm"),
		RootFolderName: "_BookmarkBarSets",
		DefaultSetName: "Default",
		ConfirmDelete:  &confirm,
	}
}

// ShouldConfirmDelete reports whether the TUI asks before deleting a set.
func (c Config) ShouldConfirmDelete() bool {
	return c.ConfirmDelete == nil || *c.ConfirmDelete
}

// Validate checks field values that defaults cannot repair.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendJSON, BackendSQLite)
	}
	if c.RootFolderName == "" {
		return errors.New("rootFolderName must not be empty")
	}
	return nil
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			if saveErr := SaveConfig(path, &config); saveErr != nil {
				// Non-fatal: return defaults even if save fails
				return &config, nil
			}
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}
	if config.RootFolderName == "" {
		config.RootFolderName = defaults.RootFolderName
	}
	if config.DefaultSetName == "" {
		config.DefaultSetName = defaults.DefaultSetName
	}
	if config.ConfirmDelete == nil {
		config.ConfirmDelete = defaults.ConfirmDelete
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// DefaultConfigFilePath returns the default config path: $XDG_CONFIG_HOME/bm/config.json
func DefaultConfigFilePath() string {
	return filepath.Join(xdg.ConfigHome, "bm", "config.json")
}

// DefaultLogFilePath returns the default log path: $XDG_STATE_HOME/bm/bm.log
func DefaultLogFilePath() string {
	return filepath.Join(xdg.StateHome, "bm", "bm.log")
}
