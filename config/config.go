// Package config loads and persists the router's settings from
// ~/.config/go-surface/config.json. Missing file or fields fall back
// to defaults, so a fresh install runs without any setup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ControllerConfig names a control surface the router should attach to
type ControllerConfig struct {
	PortName    string `json:"portName"`
	AutoConnect bool   `json:"autoConnect"`
}

// RouterConfig stores matching-engine preferences
type RouterConfig struct {
	// DoublePressMs is the window within which two presses count as a
	// double press
	DoublePressMs int `json:"doublePressMs,omitempty"`
	// TickHz is the visual refresh rate
	TickHz int `json:"tickHz,omitempty"`
}

// Config is the root of config.json
type Config struct {
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	Router      RouterConfig       `json:"router,omitempty"`
	PalettePath string             `json:"palettePath,omitempty"`
	Debug       bool               `json:"debug,omitempty"`
}

const (
	defaultDoublePressMs = 450
	defaultTickHz        = 30
)

// Default returns the out-of-the-box configuration
func Default() *Config {
	return &Config{
		Controllers: []ControllerConfig{
			{PortName: "Launchpad X LPX MIDI", AutoConnect: true},
		},
		Router: RouterConfig{
			DoublePressMs: defaultDoublePressMs,
			TickHz:        defaultTickHz,
		},
	}
}

// DoublePressWindow returns the double-press window as a duration
func (c *Config) DoublePressWindow() time.Duration {
	ms := c.Router.DoublePressMs
	if ms <= 0 {
		ms = defaultDoublePressMs
	}
	return time.Duration(ms) * time.Millisecond
}

// TickInterval returns the period between visual refresh ticks
func (c *Config) TickInterval() time.Duration {
	hz := c.Router.TickHz
	if hz <= 0 {
		hz = defaultTickHz
	}
	return time.Second / time.Duration(hz)
}

// AutoConnectController returns the first controller with autoConnect
// enabled, or nil.
func (c *Config) AutoConnectController() *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].AutoConnect {
			return &c.Controllers[i]
		}
	}
	return nil
}

// Path returns the location of config.json. GO_SURFACE_CONFIG
// overrides it, mainly for running multiple surface setups.
func Path() (string, error) {
	if p := os.Getenv("GO_SURFACE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-surface", "config.json"), nil
}

// Load reads the config, layering the file's contents over defaults.
// A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config back to disk, creating the directory on first
// run.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
