// Package config manages the applet settings: display unit, refresh
// interval, and log level. Settings live in a TOML file under the
// cputemp home directory and can be watched for live changes.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// MinRefreshInterval is the floor for the polling interval. Anything
// faster just burns CPU re-reading values the drivers update slower
// than this anyway.
const MinRefreshInterval = 500 * time.Millisecond

// Config holds all applet settings.
type Config struct {
	Fahrenheit        bool   `toml:"fahrenheit"`
	RefreshIntervalMS int64  `toml:"refresh_interval_ms"`
	LogLevel          string `toml:"log_level"`
}

// Default returns the out-of-the-box configuration: Celsius, one-second
// refresh, info-level logging.
func Default() Config {
	return Config{
		Fahrenheit:        false,
		RefreshIntervalMS: 1000,
		LogLevel:          "info",
	}
}

// Interval returns the refresh interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// Level parses the configured log level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the configuration for values the applet refuses to
// run with.
func (c Config) Validate() error {
	if c.Interval() < MinRefreshInterval {
		return fmt.Errorf("refresh_interval_ms %d below minimum %dms",
			c.RefreshIntervalMS, MinRefreshInterval.Milliseconds())
	}
	return nil
}

// Home returns the cputemp data directory.
func Home() string {
	if env := os.Getenv("CPUTEMP_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cputemp")
}

// Path returns the location of the config file.
func Path() string {
	return filepath.Join(Home(), "config.toml")
}

// Load reads the config file, falling back to defaults when it does not
// exist yet.
func Load() (Config, error) {
	cfg := Default()
	path := Path()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk, creating the home directory if needed.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
