// Package config loads and saves the capflow TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Config holds all capflow configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	Scenario   ScenarioConfig   `toml:"scenario"`
}

// GeneralConfig holds simulation preferences.
type GeneralConfig struct {
	TickIntervalMs int    `toml:"tick_interval_ms"`
	Seed           uint64 `toml:"seed,omitempty"`
}

// StorageConfig selects where state is persisted.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds operator log settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ScheduleConfig holds the checkpoint cron spec used by `capflow watch`.
type ScheduleConfig struct {
	Checkpoint string `toml:"checkpoint"`
}

// ScenarioConfig points at an optional YAML plan file with custom presets.
type ScenarioConfig struct {
	PlanFile string `toml:"plan_file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			TickIntervalMs: 2000,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Schedule: ScheduleConfig{
			Checkpoint: "@every 1m",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "capflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "capflow")
}

// DataDir returns the XDG-compliant data directory used for state files.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "capflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "capflow")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied either way.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CAPFLOW_STATE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("CAPFLOW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CAPFLOW_PLAN_FILE"); v != "" {
		cfg.Scenario.PlanFile = v
	}
	if v := os.Getenv("CAPFLOW_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.General.Seed = seed
		}
	}
}

// Validate rejects settings the rest of the program cannot honor.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendJSON, c.Storage.Backend)
	}
	if c.General.TickIntervalMs <= 0 {
		return fmt.Errorf("general.tick_interval_ms must be positive")
	}
	return nil
}

// StatePath resolves the state file location for the configured backend.
func (c Config) StatePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendJSON {
		return filepath.Join(DataDir(), "state.json")
	}
	return filepath.Join(DataDir(), "capflow.db")
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
