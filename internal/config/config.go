package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/tmarsden/daybook/internal/history"
)

// Config is the full application configuration.
type Config struct {
	Log       Log       `toml:"log"`
	History   History   `toml:"history"`
	Shortcuts Shortcuts `toml:"shortcuts"`
	Store     Store     `toml:"store"`
	Notify    Notify    `toml:"notify"`
}

// Log configures logging.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// History configures the undo history.
type History struct {
	// Limit caps retained history entries per editing surface.
	Limit int `toml:"limit"`
}

// Shortcuts holds the user's undo/redo key descriptors, "+"-joined modifier
// and key names like "Control+Z". An empty descriptor disables the shortcut.
type Shortcuts struct {
	Undo string `toml:"undo"`
	Redo string `toml:"redo"`
}

// Store configures the remote record store.
type Store struct {
	// BaseURL is the root of the store's REST endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates every request.
	APIKey string `toml:"api_key"`

	// Owner is the identity that keys all records.
	Owner string `toml:"owner"`
}

// Notify configures schedule notifications delivered through the shell.
type Notify struct {
	Enabled bool `toml:"enabled"`

	// LeadMinutes is how long before a schedule's time to notify.
	LeadMinutes int `toml:"lead_minutes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:     Log{Level: "info"},
		History: History{Limit: history.DefaultLimit},
		Shortcuts: Shortcuts{
			Undo: "Control+Z",
			Redo: "Control+Shift+Z",
		},
		Notify: Notify{Enabled: true, LeadMinutes: 10},
	}
}

// Load reads configuration from a TOML file, layered over the defaults.
// A missing file is not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values instead of rejecting them.
func (c *Config) normalize() {
	switch {
	case c.History.Limit == 0:
		// Unset in the file: keep the default.
		c.History.Limit = history.DefaultLimit
	case c.History.Limit < 0:
		c.History.Limit = 1
	}

	if c.Notify.LeadMinutes < 0 {
		c.Notify.LeadMinutes = 0
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Log.Level = "info"
	}
}
