package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/studiowebux/wayqa/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout bounds every request. A hung server surfaces as a
	// timeout failure instead of leaving the request running forever.
	DefaultTimeout = 30 * time.Second

	// DefaultTickInterval drives the busy indicator while a request runs
	DefaultTickInterval = 100 * time.Millisecond

	// DefaultHistoryLimit is the number of entries "wayqa history" lists
	DefaultHistoryLimit = 50
)

// Settings is the contents of settings.yaml
type Settings struct {
	Request RequestSettings `yaml:"request"`
	History HistorySettings `yaml:"history"`
	Log     LogSettings     `yaml:"log"`
	UI      UISettings      `yaml:"ui"`
}

// RequestSettings configures the HTTP client
type RequestSettings struct {
	Timeout         time.Duration   `yaml:"timeout"`
	FollowRedirects bool            `yaml:"follow_redirects"`
	TLS             types.TLSConfig `yaml:"tls"`
}

// HistorySettings configures the execution history store
type HistorySettings struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// LogSettings configures the log file
type LogSettings struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty means LogFile
}

// UISettings configures the terminal interface
type UISettings struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Project      string        `yaml:"project"` // shown in the title bar
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	return Settings{
		Request: RequestSettings{
			Timeout:         DefaultTimeout,
			FollowRedirects: true,
		},
		History: HistorySettings{
			Enabled: true,
			Limit:   DefaultHistoryLimit,
		},
		Log: LogSettings{
			Level: "info",
		},
		UI: UISettings{
			TickInterval: DefaultTickInterval,
		},
	}
}

// LoadSettings reads path over the defaults. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("invalid settings file %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings file %s: %w", path, err)
	}

	return settings, nil
}

// SaveSettings writes settings to path as YAML
func SaveSettings(settings Settings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Validate rejects values the application cannot run with
func (s Settings) Validate() error {
	if s.Request.Timeout <= 0 {
		return fmt.Errorf("request.timeout must be positive, got %s", s.Request.Timeout)
	}
	if s.UI.TickInterval <= 0 {
		return fmt.Errorf("ui.tick_interval must be positive, got %s", s.UI.TickInterval)
	}
	if s.History.Limit < 0 {
		return fmt.Errorf("history.limit cannot be negative, got %d", s.History.Limit)
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", s.Log.Level)
	}
	if (s.Request.TLS.CertFile == "") != (s.Request.TLS.KeyFile == "") {
		return fmt.Errorf("request.tls.cert_file and request.tls.key_file must be set together")
	}
	return nil
}

// LogPath returns the configured log file or the default one
func (s Settings) LogPath() string {
	if s.Log.File != "" {
		return s.Log.File
	}
	return LogFile
}
