// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Planner PlannerConfig `toml:"planner"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// PlannerConfig holds the slot placement policy.
type PlannerConfig struct {
	DefaultStart  string `toml:"default_start"`   // e.g., "16:00"
	ShiftMinutes  int    `toml:"shift_minutes"`   // probe step after a collision
	CutoffHour    int    `toml:"cutoff_hour"`     // last hour a probe may start in
	MaxSpreadDays int    `toml:"max_spread_days"` // upper bound on planned days
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds display settings.
type UIConfig struct {
	Theme  string `toml:"theme"`  // "mocha", "macchiato", "frappe", "latte", "light"
	Locale string `toml:"locale"` // BCP 47 tag, e.g. "en" or "nl"
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty disables logging
}

// Themes lists the accepted UI theme names.
var Themes = []string{"mocha", "macchiato", "frappe", "latte", "light"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			DefaultStart:  "16:00",
			ShiftMinutes:  30,
			CutoffHour:    22,
			MaxSpreadDays: 7,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:  "frappe",
			Locale: "en",
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "prepwise.db"
	}
	return filepath.Join(home, ".local", "share", "prepwise", "prepwise.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "prepwise", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PREPWISE_DEFAULT_START"); v != "" {
		cfg.Planner.DefaultStart = v
	}
	ints := []struct {
		env string
		dst *int
	}{
		{"PREPWISE_SHIFT_MINUTES", &cfg.Planner.ShiftMinutes},
		{"PREPWISE_CUTOFF_HOUR", &cfg.Planner.CutoffHour},
		{"PREPWISE_MAX_SPREAD_DAYS", &cfg.Planner.MaxSpreadDays},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", o.env, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("PREPWISE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("PREPWISE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("PREPWISE_LOCALE"); v != "" {
		cfg.UI.Locale = v
	}

	if v := os.Getenv("PREPWISE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateTime(c.Planner.DefaultStart, "default_start"); err != nil {
		return err
	}
	if c.Planner.ShiftMinutes < 1 || c.Planner.ShiftMinutes > 240 {
		return fmt.Errorf("shift_minutes must be between 1 and 240, got %d", c.Planner.ShiftMinutes)
	}
	if c.Planner.CutoffHour < 1 || c.Planner.CutoffHour > 23 {
		return fmt.Errorf("cutoff_hour must be between 1 and 23, got %d", c.Planner.CutoffHour)
	}
	if c.Planner.DefaultStart[:2] > fmt.Sprintf("%02d", c.Planner.CutoffHour) {
		return errors.New("default_start must not be after cutoff_hour")
	}
	if c.Planner.MaxSpreadDays < 1 || c.Planner.MaxSpreadDays > 31 {
		return fmt.Errorf("max_spread_days must be between 1 and 31, got %d", c.Planner.MaxSpreadDays)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if !IsValidTheme(c.UI.Theme) {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	if !isValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) || hour > "23" || min > "59" {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsValidTheme reports whether name is a known theme.
func IsValidTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

func isValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
