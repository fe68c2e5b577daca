// Package config loads the user configuration file. A missing file is not
// an error; every field has a working default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default values applied before the file is read.
const (
	DefaultRecordingsDir  = "recordings"
	DefaultCommandDelay   = 0.1
	DefaultMatchThreshold = 20.0
	DefaultLogLevel       = "info"
)

// Config holds the user-tunable settings.
type Config struct {
	// RecordingsDir is the root folder for recording artifacts.
	RecordingsDir string `toml:"recordings_dir"`

	// CommandDelay is the pause between playback commands, in seconds.
	CommandDelay float64 `toml:"command_delay"`

	// MatchThreshold is the location matching radius in pixels.
	MatchThreshold float64 `toml:"match_threshold"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		RecordingsDir:  DefaultRecordingsDir,
		CommandDelay:   DefaultCommandDelay,
		MatchThreshold: DefaultMatchThreshold,
		LogLevel:       DefaultLogLevel,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "replaykit.toml"
	}
	return filepath.Join(dir, "replaykit", "config.toml")
}

// Load reads the config file at path. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.RecordingsDir == "" {
		return fmt.Errorf("recordings_dir must not be empty")
	}
	if c.CommandDelay < 0 {
		return fmt.Errorf("command_delay must not be negative, got %g", c.CommandDelay)
	}
	if c.MatchThreshold <= 0 {
		return fmt.Errorf("match_threshold must be positive, got %g", c.MatchThreshold)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
