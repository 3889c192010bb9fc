// Package config provides configuration types and defaults for
// gitlanes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/gitlanes/internal/ui/styles"
)

// Config holds all configuration options for gitlanes.
type Config struct {
	// RepoPath is the repository to open. Default: current directory.
	RepoPath string `mapstructure:"repo_path"`

	AutoRefresh         bool          `mapstructure:"auto_refresh"`
	AutoRefreshDebounce time.Duration `mapstructure:"auto_refresh_debounce"`

	Graph GraphConfig        `mapstructure:"graph"`
	Theme styles.ThemeConfig `mapstructure:"theme"`
	Trace TraceConfig        `mapstructure:"trace"`
}

// GraphConfig tunes loading and virtualization.
type GraphConfig struct {
	// PageSize is the initial commit count and the load-more increment.
	PageSize int `mapstructure:"page_size"`

	// Overscan is the number of rows computed beyond the viewport on
	// each side.
	Overscan int `mapstructure:"overscan"`

	// CacheTTL bounds how long a log page may be served from cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// TraceConfig enables OpenTelemetry export.
type TraceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// Validate checks configuration for errors.
func (c Config) Validate() error {
	if c.Graph.PageSize < 0 {
		return fmt.Errorf("graph.page_size must not be negative")
	}
	if c.Graph.Overscan < 0 {
		return fmt.Errorf("graph.overscan must not be negative")
	}
	if c.AutoRefreshDebounce < 0 {
		return fmt.Errorf("auto_refresh_debounce must not be negative")
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoRefresh:         true,
		AutoRefreshDebounce: 500 * time.Millisecond,
		Graph: GraphConfig{
			PageSize: 50,
			Overscan: 5,
			CacheTTL: 30 * time.Second,
		},
		Theme: styles.ThemeConfig{
			Preset: "",
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string
// with comments.
func DefaultConfigTemplate() string {
	return `# gitlanes configuration

# Repository to open (default: current directory)
# repo_path: /path/to/repo

# Refresh automatically when refs change
auto_refresh: true
auto_refresh_debounce: 500ms

# Graph loading and rendering
graph:
  page_size: 50     # Commits per page; also the load-more increment
  overscan: 5       # Rows computed beyond the viewport on each side
  cache_ttl: 30s    # How long log pages may be served from cache

# Theme configuration
# Use a preset theme or customize individual colors
theme:
  # Available presets:
  #   default        - Built-in dark palette
  #   dracula        - Dark theme with vibrant colors
  #   nord           - Arctic, north-bluish palette
  #   high-contrast  - Maximum contrast for accessibility
  # preset: dracula
  #
  # Force the background mode when terminal detection misreports it:
  #   auto (default), dark, light
  # background: dark
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   text.primary: "#FFFFFF"
  #   graph.lane0: "#89B4FA"
  #   graph.selected: "#F5C2E7"

# OpenTelemetry tracing
# trace:
#   enabled: true
#   endpoint: localhost:4317
`
}

// WriteDefaultConfig creates a config file at the given path with
// default settings and comments. Creates the parent directory if it
// doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
