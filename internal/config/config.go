// Package config provides configuration types, defaults, and
// persistence for pantree.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tbracken/pantree/internal/log"
	"github.com/tbracken/pantree/internal/pantry"
)

// Config holds all configuration options for pantree.
type Config struct {
	Ordering   string      `mapstructure:"ordering"`    // "name" or "priority"
	AutoReload bool        `mapstructure:"auto_reload"` // re-apply config when the file changes
	Debug      bool        `mapstructure:"debug"`       // enable debug logging and the log overlay
	UI         UIConfig    `mapstructure:"ui"`
	Theme      ThemeConfig `mapstructure:"theme"`
	Trace      TraceConfig `mapstructure:"trace"`
}

// UIConfig holds user interface options.
type UIConfig struct {
	ShowCounts   bool `mapstructure:"show_counts"`   // item count in the list title
	ShowPriority bool `mapstructure:"show_priority"` // priority badge on each row
}

// ThemeConfig holds color overrides, hex strings like "#54A0FF".
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// TraceConfig configures span export for store operations.
type TraceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"`  // "file" or "stdout"
	FilePath string `mapstructure:"file_path"` // JSONL output for the file exporter
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Ordering:   string(pantry.OrderByName),
		AutoReload: true,
		UI: UIConfig{
			ShowCounts:   true,
			ShowPriority: true,
		},
		Theme: ThemeConfig{
			Highlight: "#54A0FF",
			Subtle:    "#696969",
			Error:     "#FF6B6B",
			Success:   "#73F59F",
		},
		Trace: TraceConfig{
			Enabled:  false,
			Exporter: "file",
		},
	}
}

// ValidateOrdering checks that the configured ordering names a known
// strategy.
func ValidateOrdering(ordering string) error {
	if !pantry.Ordering(ordering).Valid() {
		return fmt.Errorf("unknown ordering %q (expected %q or %q)",
			ordering, pantry.OrderByName, pantry.OrderByPriority)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string
// with comments.
func DefaultConfigTemplate() string {
	return `# Pantree Configuration

# Active ordering for the list: "name" or "priority"
ordering: name

# Re-apply this file automatically when it changes on disk
auto_reload: true

# UI settings
ui:
  show_counts: true    # Show the item count in the list title
  show_priority: true  # Show a priority badge on each row

# Theme colors (hex)
theme:
  highlight: "#54A0FF"
  subtle: "#696969"
  error: "#FF6B6B"
  success: "#73F59F"

# Tracing of store operations (for debugging, off by default)
trace:
  enabled: false
  exporter: file  # "file" (JSONL) or "stdout"
  # file_path: ~/.config/pantree/traces/traces.jsonl
`
}

// WriteDefaultConfig creates a config file at the given path with
// default settings and comments, creating the parent directory if
// needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
