// Package config provides configuration management for gprompt.
// It handles loading and parsing of the YAML config file and maps it
// onto the Config struct, falling back to defaults for anything missing
// or invalid so that a broken file never costs the user their prompt.
package config

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// Color modes accepted by Config.Color.
const (
	ColorAlways = "always"
	ColorNever  = "never"
	ColorAuto   = "auto"
)

// Config holds all prompt configuration.
type Config struct {
	// Color selects the colour profile: always, never or auto.
	Color string `yaml:"color"`

	// Glyph is the trailing prompt symbol; RootGlyph replaces it for uid 0.
	Glyph     string `yaml:"glyph"`
	RootGlyph string `yaml:"root_glyph"`

	// Timeout bounds every external query (git, kubectl).
	Timeout time.Duration `yaml:"timeout"`

	// MaxPathWidth limits the path segment in terminal cells; 0 disables.
	MaxPathWidth int `yaml:"max_path_width"`

	// MaxKubeWidth limits the kube context name in terminal cells; 0 disables.
	MaxKubeWidth int `yaml:"max_kube_width"`

	Segments Segments `yaml:"segments"`
	Colors   Colors   `yaml:"colors"`

	// ChrootFile is the chroot marker file read when $debian_chroot is unset.
	ChrootFile string `yaml:"chroot_file"`

	// LogLevel controls logging verbosity.
	LogLevel string `yaml:"log_level"`
}

// Segments toggles the optional prompt segments.
type Segments struct {
	Venv   bool `yaml:"venv"`
	Kube   bool `yaml:"kube"`
	VCS    bool `yaml:"vcs"`
	Chroot bool `yaml:"chroot"`
}

// Colors holds ANSI colour indexes (or hex values) for each segment.
type Colors struct {
	Venv     string `yaml:"venv"`
	Kube     string `yaml:"kube"`
	Identity string `yaml:"identity"`
	Path     string `yaml:"path"`
	VCS      string `yaml:"vcs"`
	Error    string `yaml:"error"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Color:        ColorAlways,
		Glyph:        "$",
		RootGlyph:    "#",
		Timeout:      500 * time.Millisecond,
		MaxPathWidth: 0,
		MaxKubeWidth: 0,
		Segments: Segments{
			Venv:   true,
			Kube:   true,
			VCS:    true,
			Chroot: true,
		},
		Colors: Colors{
			Venv:     "11",
			Kube:     "14",
			Identity: "10",
			Path:     "12",
			VCS:      "13",
			Error:    "9",
		},
		ChrootFile: "/etc/debian_chroot",
		LogLevel:   "warn",
	}
}

// Validate reports the first invalid value, if any.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAlways, ColorNever, ColorAuto:
	default:
		return fmt.Errorf("color must be one of %q, %q or %q, got %q", ColorAlways, ColorNever, ColorAuto, c.Color)
	}
	if c.Glyph == "" {
		return fmt.Errorf("glyph must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxPathWidth < 0 || c.MaxKubeWidth < 0 {
		return fmt.Errorf("width limits must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a zap level.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel, fmt.Errorf("invalid log_level: %w", err)
	}
	return level, nil
}
