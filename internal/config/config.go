package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/progman/internal/geometry"
)

// StaggerConfig places windows diagonally: slot i is base + i*step on both
// axes, wrapping back to base after wrap slots (0 disables wrapping).
type StaggerConfig struct {
	Base geometry.Point `yaml:"base"`
	Step int            `yaml:"step"`
	Wrap int            `yaml:"wrap"`
}

// CascadeConfig configures the Cascade arrangement.
type CascadeConfig struct {
	Base geometry.Point `yaml:"base"`
	Step int            `yaml:"step"`
	Size geometry.Size  `yaml:"size"` // uniform size, raised per app to its minimum
}

// DesktopConfig describes the simulated screen.
type DesktopConfig struct {
	Width     int           `yaml:"width"`
	Height    int           `yaml:"height"`
	IconStrip int           `yaml:"icon_strip"` // reserved for minimized icons along the bottom
	TileInset int           `yaml:"tile_inset"`
	Launch    StaggerConfig `yaml:"launch"`
	Cascade   CascadeConfig `yaml:"cascade"`
}

// Size returns the desktop dimensions.
func (d DesktopConfig) Size() geometry.Size {
	return geometry.Size{Width: d.Width, Height: d.Height}
}

// CatalogConfig points at an optional YAML file of extra applications.
type CatalogConfig struct {
	// Path is resolved relative to the config file. Empty means builtin apps only.
	Path string `yaml:"path"`
	// Watch reloads the catalog when the file changes.
	Watch bool `yaml:"watch"`
}

// LoggingConfig configures the daemon log.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is the log file path. Empty logs to stderr only.
	File string `yaml:"file"`
	// MaxSizeMB is the maximum log file size before rotation
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `yaml:"max_backups"`
	// MaxAgeDays removes rotated files older than this (0 keeps them)
	MaxAgeDays int `yaml:"max_age_days"`
}

// WebConfig configures the HTTP surface (snapshot API, websocket, metrics).
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// MetricsConfig toggles the Prometheus collectors. They are served on the web
// listener, so they have no effect while web is disabled.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config holds the application configuration.
type Config struct {
	Desktop DesktopConfig `yaml:"desktop"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
	Web     WebConfig     `yaml:"web"`
	Metrics MetricsConfig `yaml:"metrics"`
}

func DefaultConfig() *Config {
	return &Config{
		Desktop: DesktopConfig{
			Width:     1024,
			Height:    768,
			IconStrip: 60,
			TileInset: 4,
			Launch: StaggerConfig{
				Base: geometry.Point{X: 50, Y: 30},
				Step: 30,
				Wrap: 10,
			},
			Cascade: CascadeConfig{
				Base: geometry.Point{X: 20, Y: 20},
				Step: 30,
				Size: geometry.Size{Width: 500, Height: 400},
			},
		},
		Catalog: CatalogConfig{
			Watch: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Web: WebConfig{
			Enabled: true,
			Listen:  "127.0.0.1:7311",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	d := c.Desktop
	if d.Width <= 0 {
		return &ValidationError{Path: "desktop.width", Err: fmt.Errorf("width must be > 0")}
	}
	if d.Height <= 0 {
		return &ValidationError{Path: "desktop.height", Err: fmt.Errorf("height must be > 0")}
	}
	if d.IconStrip < 0 || d.IconStrip >= d.Height {
		return &ValidationError{Path: "desktop.icon_strip", Err: fmt.Errorf("icon_strip must be >= 0 and less than desktop height %d", d.Height)}
	}
	if d.TileInset < 0 {
		return &ValidationError{Path: "desktop.tile_inset", Err: fmt.Errorf("tile_inset must be >= 0")}
	}
	if d.Launch.Step < 0 {
		return &ValidationError{Path: "desktop.launch.step", Err: fmt.Errorf("step must be >= 0")}
	}
	if d.Launch.Wrap < 0 {
		return &ValidationError{Path: "desktop.launch.wrap", Err: fmt.Errorf("wrap must be >= 0")}
	}
	if d.Cascade.Step < 0 {
		return &ValidationError{Path: "desktop.cascade.step", Err: fmt.Errorf("step must be >= 0")}
	}
	if d.Cascade.Size.Width <= 0 || d.Cascade.Size.Height <= 0 {
		return &ValidationError{Path: "desktop.cascade.size", Err: fmt.Errorf("width and height must be > 0")}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxBackups < 0 {
		return &ValidationError{Path: "logging.max_backups", Err: fmt.Errorf("max_backups must be >= 0")}
	}
	if c.Logging.MaxAgeDays < 0 {
		return &ValidationError{Path: "logging.max_age_days", Err: fmt.Errorf("max_age_days must be >= 0")}
	}

	if c.Web.Enabled && strings.TrimSpace(c.Web.Listen) == "" {
		return &ValidationError{Path: "web.listen", Err: fmt.Errorf("listen address is required when web is enabled")}
	}

	return nil
}

// Save writes the configuration to path, creating parent directories.
//
// Note: this marshals the effective config and will not preserve comments
// from an existing file.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
