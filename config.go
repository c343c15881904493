// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hellotriangle

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned when a configuration value is out of range
// or names an unknown mode.
var ErrInvalidConfig = errors.New("hellotriangle: invalid config")

// Environment variables consulted by [Config.ApplyEnv].
const (
	// EnvGraphicsAPI selects the graphics backend ("vulkan", "metal", "dx12", "gl").
	EnvGraphicsAPI = "GOGPU_GRAPHICS_API"
	// EnvLogLevel overrides the log level ("debug", "info", "warn", "error").
	EnvLogLevel = "HELLOTRIANGLE_LOG_LEVEL"
)

// EventMode selects how the platform event loop waits for OS events.
type EventMode string

const (
	// EventModePoll renders continuously, polling OS events between frames.
	EventModePoll EventMode = "poll"
	// EventModeWait blocks until an OS event arrives before each frame.
	EventModeWait EventMode = "wait"
)

// Duration is a time.Duration that reads from TOML strings such as "5s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds the application settings.
//
// Values are layered: [DefaultConfig], then a TOML file ([LoadConfig]),
// then environment variables ([Config.ApplyEnv]), then command-line flags
// applied by the binary.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// Backend names the graphics API set: "all", "primary", "vulkan",
	// "metal", "dx12" or "gl".
	Backend string `toml:"backend"`

	// PowerPreference is the first adapter preference tried:
	// "high-performance", "low-power" or "none".
	PowerPreference string `toml:"power_preference"`

	// ForceFallback requests a software adapter directly.
	ForceFallback bool `toml:"force_fallback"`

	EventMode EventMode `toml:"event_mode"`
	LogLevel  string    `toml:"log_level"`

	// StatsInterval is how often frame statistics are logged at debug level.
	// Zero disables the report.
	StatsInterval Duration `toml:"stats_interval"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Title:           "Hello Triangle",
		Width:           800,
		Height:          600,
		Backend:         "all",
		PowerPreference: "high-performance",
		EventMode:       EventModePoll,
		LogLevel:        "info",
		StatsInterval:   Duration(5 * time.Second),
	}
}

// WithTitle returns a copy of c with the window title set.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize returns a copy of c with the initial window size set.
func (c Config) WithSize(width, height int) Config {
	c.Width = width
	c.Height = height
	return c
}

// WithBackend returns a copy of c with the graphics backend name set.
func (c Config) WithBackend(name string) Config {
	c.Backend = name
	return c
}

// WithEventMode returns a copy of c with the event mode set.
func (c Config) WithEventMode(m EventMode) Config {
	c.EventMode = m
	return c
}

// LoadConfig reads a TOML file over [DefaultConfig].
// Keys absent from the file keep their default value; unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("hellotriangle: read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("hellotriangle: parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(c)
}

// Encode returns c as a TOML document.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// ApplyEnv overrides fields from the process environment.
func (c Config) ApplyEnv() Config {
	return c.applyEnv(os.LookupEnv)
}

func (c Config) applyEnv(lookup func(string) (string, bool)) Config {
	if v, ok := lookup(EnvGraphicsAPI); ok && v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return c
}

// Validate reports whether c can be used to start the application.
// Backend and power preference names are checked by the gpu package.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	switch c.EventMode {
	case EventModePoll, EventModeWait:
	default:
		return fmt.Errorf("%w: event mode %q", ErrInvalidConfig, c.EventMode)
	}
	if c.StatsInterval < 0 {
		return fmt.Errorf("%w: negative stats interval", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
