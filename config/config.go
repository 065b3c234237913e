// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nathoo/wardround/types"
)

// Config holds wardround runtime settings.
type Config struct {
	CasesDir     string        `env:"WARDROUND_CASES_DIR"     envDefault:"cases"`
	SaveDir      string        `env:"WARDROUND_SAVE_DIR"`
	LogLevel     string        `env:"WARDROUND_LOG_LEVEL"     envDefault:"warn"`
	TickInterval time.Duration `env:"WARDROUND_TICK_INTERVAL" envDefault:"1s"`
	TickSeconds  int           `env:"WARDROUND_TICK_SECONDS"  envDefault:"1"`

	Resources types.MCIResources `envPrefix:"WARDROUND_MCI_"`
}

// Load parses the environment into a Config and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SaveDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve save dir: %w", err)
		}
		cfg.SaveDir = filepath.Join(home, ".wardround", "saves")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the MCI clock or resource pool cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval))
	}
	if c.TickSeconds <= 0 {
		errs = append(errs, fmt.Errorf("tick seconds must be positive, got %d", c.TickSeconds))
	}
	r := c.Resources
	pools := []struct {
		name string
		n    int
	}{
		{"beds", r.Beds}, {"nurses", r.Nurses}, {"residents", r.Residents}, {"attendings", r.Attendings},
		{"blood", r.BloodUnits}, {"ventilators", r.Ventilators}, {"or_slots", r.ORSlots},
	}
	for _, p := range pools {
		if p.n < 0 {
			errs = append(errs, fmt.Errorf("resource %s must not be negative, got %d", p.name, p.n))
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel returns the configured log level. Invalid values fall back to warn.
func (c Config) SlogLevel() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
