package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration.
// Each section maps an action name to a comma-separated key list, e.g.
// "cycle_method": "m,M". A section entry replaces every default key for
// that action in that context.
type Config struct {
	Version         string            `json:"version"`
	Global          map[string]string `json:"global,omitempty"`
	Normal          map[string]string `json:"normal,omitempty"`
	Project         map[string]string `json:"project,omitempty"`
	Request         map[string]string `json:"request,omitempty"`
	RequestURL      map[string]string `json:"request_url,omitempty"`
	RequestParams   map[string]string `json:"request_params,omitempty"`
	RequestResponse map[string]string `json:"request_response,omitempty"`
}

// sections maps each context to its config section
func (c *Config) sections() map[Context]*map[string]string {
	return map[Context]*map[string]string{
		ContextGlobal:          &c.Global,
		ContextNormal:          &c.Normal,
		ContextProject:         &c.Project,
		ContextRequest:         &c.Request,
		ContextRequestURL:      &c.RequestURL,
		ContextRequestParams:   &c.RequestParams,
		ContextRequestResponse: &c.RequestResponse,
	}
}

// LoadConfig loads keybinding configuration from a JSON file.
// Comments and trailing commas are allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry
// User bindings override default bindings
func ApplyConfig(registry *Registry, config *Config) error {
	for context, section := range config.sections() {
		for actionStr, keyList := range *section {
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("context '%s': %w", context, err)
			}
			action := Action(actionStr)

			keys := splitKeys(keyList)
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("context '%s', action '%s': %w", context, action, err)
				}
			}

			registry.Unbind(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}

	return nil
}

func splitKeys(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportConfig converts a registry into a config file structure
func ExportConfig(registry *Registry) *Config {
	config := &Config{Version: "1.0"}

	for context, section := range config.sections() {
		grouped := make(map[string][]string)
		for _, b := range sortedBindings(context, registry.bindings[context]) {
			grouped[string(b.Action)] = append(grouped[string(b.Action)], b.Key)
		}
		if len(grouped) == 0 {
			continue
		}

		*section = make(map[string]string, len(grouped))
		for action, keys := range grouped {
			(*section)[action] = strings.Join(keys, ",")
		}
	}

	return config
}

// ExportDefaults exports default keybindings as a config file
// Useful for users to see what can be customized
func ExportDefaults() *Config {
	return ExportConfig(NewDefaultRegistry())
}
