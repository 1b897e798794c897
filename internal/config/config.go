package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// EnvConfigDir overrides the configuration directory
	EnvConfigDir = "WAYQA_CONFIG_DIR"
	// EnvDebug forces debug logging when set to a non-empty value
	EnvDebug = "WAYQA_DEBUG"
)

var (
	// ConfigDir is the global configuration directory (~/.wayqa)
	ConfigDir string

	// SettingsFile holds the YAML settings
	SettingsFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// DatabasePath is the SQLite database file for history
	DatabasePath string

	// LogFile receives logs while the TUI owns the terminal
	LogFile string
)

// Initialize sets up the configuration directory and paths
// It creates ~/.wayqa/ (or $WAYQA_CONFIG_DIR) if it doesn't exist
func Initialize() error {
	dir := os.Getenv(EnvConfigDir)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".wayqa")
	}

	return InitializeAt(dir)
}

// InitializeAt sets all paths relative to dir and creates it
func InitializeAt(dir string) error {
	ConfigDir = dir
	SettingsFile = filepath.Join(ConfigDir, "settings.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	DatabasePath = filepath.Join(ConfigDir, "wayqa.db")
	LogFile = filepath.Join(ConfigDir, "wayqa.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}
