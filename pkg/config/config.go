// Package config handles loading and saving cb configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/cb/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UIConfig holds breadcrumb bar settings.
type UIConfig struct {
	Padding         int    `yaml:"padding,omitempty"`            // Cells reserved at the right edge of the bar
	Separator       string `yaml:"separator,omitempty"`          // Drawn between visible crumbs
	CompactWidth    int    `yaml:"compact_width,omitempty"`      // Max label cells of a compact crumb
	MouseOutDelayMs int    `yaml:"mouse_out_delay_ms,omitempty"` // Refit delay after the pointer leaves the bar
	Theme           string `yaml:"theme,omitempty"`              // auto, dark, light
}

// WatchConfig controls live reload of the opened source.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled,omitempty"`
	DebounceMs int   `yaml:"debounce_ms,omitempty"`
	ForcePoll  bool  `yaml:"force_poll,omitempty"`
}

// ExportConfig holds snapshot export defaults.
type ExportConfig struct {
	Preset string `yaml:"preset,omitempty"` // compact (default) or roomy
}

// Config is the top-level configuration for cb.
type Config struct {
	UI     UIConfig     `yaml:"ui,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Padding:         2,
			Separator:       " › ",
			CompactWidth:    6,
			MouseOutDelayMs: 1000,
			Theme:           "auto",
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
		Export: ExportConfig{
			Preset: "compact",
		},
	}
}

// MouseOutDelay returns the deferred refit delay.
func (c Config) MouseOutDelay() time.Duration {
	return time.Duration(c.UI.MouseOutDelayMs) * time.Millisecond
}

// WatchDebounce returns the watcher debounce duration.
func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// WatchEnabled reports whether live reload is on. It defaults to true.
func (c Config) WatchEnabled() bool {
	return c.Watch.Enabled == nil || *c.Watch.Enabled
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if c.UI.Padding < 0 {
		return fmt.Errorf("ui.padding must not be negative, got %d", c.UI.Padding)
	}
	if c.UI.CompactWidth < 1 {
		return fmt.Errorf("ui.compact_width must be at least 1, got %d", c.UI.CompactWidth)
	}
	if c.UI.MouseOutDelayMs < 0 {
		return fmt.Errorf("ui.mouse_out_delay_ms must not be negative, got %d", c.UI.MouseOutDelayMs)
	}
	switch strings.ToLower(c.UI.Theme) {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be auto, dark or light, got %q", c.UI.Theme)
	}
	switch strings.ToLower(c.Export.Preset) {
	case "", "compact", "roomy":
	default:
		return fmt.Errorf("export.preset must be compact or roomy, got %q", c.Export.Preset)
	}
	return nil
}

// ConfigDir returns the XDG config directory for cb.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cb")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cb")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
