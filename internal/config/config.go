// Package config layers the process configuration: defaults, an optional
// YAML file named by VOLLEYTAG_CONFIG, then VOLLEYTAG_-prefixed environment
// variables, highest last.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// DBPath locates the SQLite database. Empty means the per-user default
	// resolved by the CLI.
	DBPath string `koanf:"db_path"`

	// AutosaveDelayMS is the debounce window for background snapshot saves.
	AutosaveDelayMS int `koanf:"autosave_delay_ms"`

	// LiberoAutoSwap toggles the automatic libero exchange on rotation.
	LiberoAutoSwap bool `koanf:"libero_auto_swap"`

	// BackSwapSlot is the back-row slot where the libero replaces the
	// rotation's triggering role (house convention: 1).
	BackSwapSlot int `koanf:"back_swap_slot"`

	// FrontRestoreSlot is the slot where the replaced player returns as the
	// libero rotates toward the front row (house convention: 4).
	FrontRestoreSlot int `koanf:"front_restore_slot"`

	// ServingSide is the default first server: Home or Away.
	ServingSide string `koanf:"serving_side"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		AutosaveDelayMS:  2000,
		LiberoAutoSwap:   true,
		BackSwapSlot:     1,
		FrontRestoreSlot: 4,
		ServingSide:      "Home",
	}
}

// AutosaveDelay returns the debounce window as a duration.
func (c *Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveDelayMS) * time.Millisecond
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Precedence (low to high):
//  1. Defaults()
//  2. file (YAML) if VOLLEYTAG_CONFIG is set
//  3. env (prefix VOLLEYTAG_)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("VOLLEYTAG_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// VOLLEYTAG_DB_PATH -> db_path, matching the koanf tags.
	envProvider := env.Provider("VOLLEYTAG_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "volleytag_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.ServingSide != "Home" && cfg.ServingSide != "Away" {
		return nil, errors.New("serving_side must be Home or Away")
	}
	if cfg.AutosaveDelayMS < 0 {
		return nil, errors.New("autosave_delay_ms must not be negative")
	}
	for _, slot := range []int{cfg.BackSwapSlot, cfg.FrontRestoreSlot} {
		if slot < 1 || slot > 6 {
			return nil, errors.New("rotation swap slots must be in 1..6")
		}
	}
	return &cfg, nil
}
