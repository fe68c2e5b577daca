// Package app wires the recording, playback, and remapping engines to the
// platform adapters and owns application-level concerns: configuration,
// options, and run lifecycles.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/replaykit/internal/config"
	"github.com/dshills/replaykit/internal/logging"
	"github.com/dshills/replaykit/internal/store"
)

// Options holds the settings collected from flags before config is loaded.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string

	// RecordingsDir overrides the configured recordings root.
	RecordingsDir string

	// CommandDelay overrides the configured playback delay in seconds.
	// Negative means "use configured value".
	CommandDelay float64

	// LogLevel overrides the configured log level.
	LogLevel string

	// LocationsPath points at a location file to seed recording or to use
	// with a bare script file during playback.
	LocationsPath string

	// Plain lists recordings as text instead of the interactive picker.
	Plain bool

	// Countdown starts playback after a fixed countdown instead of
	// waiting for the trigger key.
	Countdown bool

	// Description is attached to a new recording's metadata.
	Description string
}

// App wires the engines to configuration, storage, and the platform
// adapters.
type App struct {
	cfg   *config.Config
	opts  Options
	log   *logging.Logger
	store *store.Store
	out   io.Writer
}

// New loads configuration, applies option overrides, and builds the app.
func New(opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.RecordingsDir != "" {
		cfg.RecordingsDir = opts.RecordingsDir
	}
	if opts.CommandDelay >= 0 {
		cfg.CommandDelay = opts.CommandDelay
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &App{
		cfg:   cfg,
		opts:  opts,
		log:   logging.NewLogger(os.Stderr, logging.ParseLogLevel(cfg.LogLevel)),
		store: store.New(cfg.RecordingsDir),
		out:   os.Stdout,
	}, nil
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *logging.Logger {
	return a.log
}

// printf writes user-facing output.
func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
