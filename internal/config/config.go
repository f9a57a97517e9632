// Package config loads simulator configuration from a YAML file with
// SKIRMISH_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SKIRMISH_"

// Supported database drivers.
const (
	DriverNone     = ""
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Simulator holds all configuration for the simulator binary.
type Simulator struct {
	TickRate int    `yaml:"tick_rate" env:"TICK_RATE"` // ticks per second
	Paused   bool   `yaml:"paused" env:"PAUSED"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Scene file; empty selects the built-in scene
	ScenePath string `yaml:"scene_path" env:"SCENE_PATH"`

	// AIInterval is how often monster controllers re-evaluate targets.
	AIInterval time.Duration `yaml:"ai_interval" env:"AI_INTERVAL"`

	// AutosaveInterval of 0 disables autosave.
	AutosaveInterval time.Duration `yaml:"autosave_interval" env:"AUTOSAVE_INTERVAL"`

	Combat   CombatConfig   `yaml:"combat" envPrefix:"COMBAT_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
}

// CombatConfig tunes combat rolls.
type CombatConfig struct {
	CritChance     int32 `yaml:"crit_chance" env:"CRIT_CHANCE"` // percent
	CritMultiplier int32 `yaml:"crit_multiplier" env:"CRIT_MULTIPLIER"`
}

// DatabaseConfig selects the snapshot store.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"` // postgres | sqlite | empty = disabled
	DSN    string `yaml:"dsn" env:"DSN"`
}

// Enabled reports whether persistence is configured.
func (d DatabaseConfig) Enabled() bool { return d.Driver != DriverNone }

// TickInterval returns the duration of one tick.
func (c Simulator) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// DefaultSimulator returns Simulator config with sensible defaults.
func DefaultSimulator() Simulator {
	return Simulator{
		TickRate:         20,
		LogLevel:         "info",
		AIInterval:       250 * time.Millisecond,
		AutosaveInterval: 30 * time.Second,
		Combat: CombatConfig{
			CritChance:     5,
			CritMultiplier: 2,
		},
	}
}

// LoadSimulator loads simulator config from a YAML file and applies
// environment overrides. If the file doesn't exist, defaults are used.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and the database driver.
func (c Simulator) Validate() error {
	var errs []error
	if c.TickRate <= 0 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("tick_rate must be in 1..1000, got %d", c.TickRate))
	}
	if c.AIInterval <= 0 {
		errs = append(errs, fmt.Errorf("ai_interval must be positive, got %s", c.AIInterval))
	}
	if c.AutosaveInterval < 0 {
		errs = append(errs, fmt.Errorf("autosave_interval must not be negative, got %s", c.AutosaveInterval))
	}
	if c.Combat.CritChance < 0 || c.Combat.CritChance > 100 {
		errs = append(errs, fmt.Errorf("combat.crit_chance must be in 0..100, got %d", c.Combat.CritChance))
	}
	if c.Combat.CritMultiplier < 1 {
		errs = append(errs, fmt.Errorf("combat.crit_multiplier must be at least 1, got %d", c.Combat.CritMultiplier))
	}
	switch c.Database.Driver {
	case DriverNone:
	case DriverPostgres, DriverSQLite:
		if c.Database.DSN == "" {
			errs = append(errs, fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
