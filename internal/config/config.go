// Package config provides configuration types, defaults, and persistence for
// thingdock.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/tracing"
)

// Config holds all configuration options for thingdock.
type Config struct {
	DBPath      string          `mapstructure:"db_path"`
	Catalog     string          `mapstructure:"catalog"` // Optional plugin manifest
	AutoRefresh bool            `mapstructure:"auto_refresh"`
	UI          UIConfig        `mapstructure:"ui"`
	Dock        DockConfig      `mapstructure:"dock"`
	Tracing     tracing.Config  `mapstructure:"tracing"`
	Flags       map[string]bool `mapstructure:"flags"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar  bool   `mapstructure:"show_status_bar"`
	MarkdownStyle  string `mapstructure:"markdown_style"`  // "dark" (default) or "light"
	FloatingOffset int    `mapstructure:"floating_offset"` // Cascade step between floating windows
}

// DockConfig controls the panel dock.
type DockConfig struct {
	DefaultPanels     []string `mapstructure:"default_panels"` // Registered panel names opened at start-up
	ConfirmDirtyClose bool     `mapstructure:"confirm_dirty_close"`
	RememberLayout    bool     `mapstructure:"remember_layout"` // Save open panels back to default_panels on quit
}

// DefaultDBPath returns .thingdock/things.db under the working directory.
func DefaultDBPath() string {
	return filepath.Join(".thingdock", "things.db")
}

// DefaultTracesFilePath returns ~/.config/thingdock/traces/traces.jsonl or an
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "thingdock", "traces", "traces.jsonl")
}

// DefaultPanels are the panels docked on a fresh start.
func DefaultPanels() []string {
	return []string{"Element Browser", "Requirement Browser"}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DBPath:      DefaultDBPath(),
		AutoRefresh: true,
		UI: UIConfig{
			ShowStatusBar:  true,
			MarkdownStyle:  "dark",
			FloatingOffset: 2,
		},
		Dock: DockConfig{
			DefaultPanels:     DefaultPanels(),
			ConfirmDirtyClose: true,
		},
		Tracing: tracing.DefaultConfig(),
		Flags:   map[string]bool{},
	}
}

// SetDefaults registers Defaults() with v so unset keys fall back to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("auto_refresh", d.AutoRefresh)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.floating_offset", d.UI.FloatingOffset)
	v.SetDefault("dock.default_panels", d.Dock.DefaultPanels)
	v.SetDefault("dock.confirm_dirty_close", d.Dock.ConfirmDirtyClose)
	v.SetDefault("dock.remember_layout", d.Dock.RememberLayout)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Validate checks the enumerations and ranges a config file can get wrong.
func (c Config) Validate() error {
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	if c.UI.FloatingOffset < 0 {
		return fmt.Errorf("ui.floating_offset must not be negative, got %d", c.UI.FloatingOffset)
	}
	for i, name := range c.Dock.DefaultPanels {
		if name == "" {
			return fmt.Errorf("dock.default_panels[%d]: name is required", i)
		}
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors. Empty values use
// defaults.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}
	if !t.Enabled {
		return nil
	}
	if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# thingdock configuration

# SQLite database holding the model (default: .thingdock/things.db)
# db_path: /path/to/things.db

# Optional plugin manifest selecting which view providers load
# catalog: ~/.config/thingdock/catalog.yaml

# Reload open views when the database changes on disk
auto_refresh: true

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  markdown_style: dark    # Description rendering: "dark" (default) or "light"
  floating_offset: 2      # Cascade step between floating windows

# Dock settings
dock:
  default_panels:
    - Element Browser
    - Requirement Browser
  confirm_dirty_close: true   # Ask before closing a panel with unsaved edits
  remember_layout: false      # Write open panels back to default_panels on quit

# Feature flags
# flags:
#   property-grid-follow: true   # Property grid follows the browser selection

# Tracing of navigation sessions (OpenTelemetry)
# tracing:
#   enabled: true
#   exporter: file          # none, file, stdout, otlp
#   file_path: ~/.config/thingdock/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
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
