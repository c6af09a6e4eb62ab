// Package config handles loading and saving faqview configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/faqview/config.yaml
//   - State:   ~/.local/state/faqview/ (debug logs)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "faqview"

// GlyphConfig holds the display strings for the two icon glyphs.
type GlyphConfig struct {
	Collapsed string `yaml:"collapsed,omitempty"`
	Expanded  string `yaml:"expanded,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ToggleOnReclick bool        `yaml:"toggle_on_reclick,omitempty"` // Re-clicking the open question closes it
	Glyphs          GlyphConfig `yaml:"glyphs,omitempty"`
	MaxWidth        int         `yaml:"max_width,omitempty"` // 0 = full terminal width
	Markdown        bool        `yaml:"markdown"`            // Render answers with glamour
}

// Config is the top-level configuration for faqview.
type Config struct {
	Sources []string `yaml:"sources,omitempty"` // Files or URLs, loaded in order
	UI      UIConfig `yaml:"ui,omitempty"`
	Watch   *bool    `yaml:"watch,omitempty"` // Reload local sources on change (default true)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Glyphs: GlyphConfig{
				Collapsed: "+",
				Expanded:  "−",
			},
			MaxWidth: 100,
			Markdown: true,
		},
	}
}

// WatchEnabled reports whether file watching is on. Unset means on.
func (c Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}

// ConfigDir returns the XDG config directory for faqview.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for faqview.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
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

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Empty glyph strings fall back to the defaults
	def := DefaultConfig()
	if cfg.UI.Glyphs.Collapsed == "" {
		cfg.UI.Glyphs.Collapsed = def.UI.Glyphs.Collapsed
	}
	if cfg.UI.Glyphs.Expanded == "" {
		cfg.UI.Glyphs.Expanded = def.UI.Glyphs.Expanded
	}
	if cfg.UI.MaxWidth < 0 {
		cfg.UI.MaxWidth = 0
	}

	// Expand ~ in local source paths
	for i := range cfg.Sources {
		cfg.Sources[i] = expandHome(cfg.Sources[i])
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
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

// AddSource appends location unless it is already listed.
func (c *Config) AddSource(location string) bool {
	for _, s := range c.Sources {
		if strings.EqualFold(s, location) {
			return false
		}
	}
	c.Sources = append(c.Sources, location)
	return true
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
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
