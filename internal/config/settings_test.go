package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitializeAt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".wayqa")

	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("config dir not created: %v", err)
	}

	paths := map[string]string{
		"SettingsFile": SettingsFile,
		"KeybindsFile": KeybindsFile,
		"DatabasePath": DatabasePath,
		"LogFile":      LogFile,
	}
	for name, p := range paths {
		if filepath.Dir(p) != dir {
			t.Errorf("%s = %s, want a file inside %s", name, p, dir)
		}
	}
}

func TestInitialize_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if ConfigDir != dir {
		t.Errorf("ConfigDir = %s, want %s", ConfigDir, dir)
	}
}

func TestLoadSettings_MissingFileGivesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.Request.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", s.Request.Timeout, DefaultTimeout)
	}
	if !s.History.Enabled {
		t.Error("history should be enabled by default")
	}
	if s.UI.TickInterval != DefaultTickInterval {
		t.Errorf("TickInterval = %s, want %s", s.UI.TickInterval, DefaultTickInterval)
	}
}

func TestLoadSettings_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
request:
  timeout: 5s
  tls:
    insecure_skip_verify: true
history:
  enabled: false
ui:
  project: billing-api
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.Request.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", s.Request.Timeout)
	}
	if !s.Request.TLS.InsecureSkipVerify {
		t.Error("InsecureSkipVerify should be true")
	}
	if s.History.Enabled {
		t.Error("history should be disabled")
	}
	if s.UI.Project != "billing-api" {
		t.Errorf("Project = %q, want billing-api", s.UI.Project)
	}
	// untouched keys keep their defaults
	if s.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", s.Log.Level)
	}
	if s.UI.TickInterval != DefaultTickInterval {
		t.Errorf("TickInterval = %s, want default", s.UI.TickInterval)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad yaml", "request: [", "invalid settings"},
		{"zero timeout", "request:\n  timeout: 0s\n", "request.timeout"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"cert without key", "request:\n  tls:\n    cert_file: c.pem\n", "cert_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadSettings(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	want := DefaultSettings()
	want.Request.Timeout = 12 * time.Second
	want.UI.Project = "demo"

	if err := SaveSettings(want, path); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSettings_LogPath(t *testing.T) {
	LogFile = "/tmp/default.log"
	s := DefaultSettings()
	if s.LogPath() != LogFile {
		t.Errorf("LogPath() = %s, want %s", s.LogPath(), LogFile)
	}

	s.Log.File = "/var/log/wayqa.log"
	if s.LogPath() != "/var/log/wayqa.log" {
		t.Errorf("LogPath() = %s, want override", s.LogPath())
	}
}
