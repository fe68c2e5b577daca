// Package main is the entry point for the replaykit macro recorder.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/replaykit/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const usage = `replaykit records and replays desktop macros.

Usage:
  replaykit record [flags]            record a new macro (middle-click toggles)
  replaykit play [flags] [<id|file>]  play a recording, or enter interactive mode
  replaykit remap [flags] <id> [<to>] retarget a recording's locations
  replaykit list [flags]              pick a recording interactively and play it
  replaykit where [flags]             print click coordinates
  replaykit version                   print version

Flags:
  -config <path>     config file (default: per-user config dir)
  -dir <path>        recordings directory
  -delay <secs>      delay between playback commands
  -log-level <lvl>   debug, info, warn, or error
  -locations <path>  location file for record seeding or bare script playback
  -countdown         start playback after a countdown instead of F1
  -desc <text>       description for a new recording
  -plain             list recordings as text instead of the picker
`

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cmd := os.Args[1]
	if cmd == "version" || cmd == "-version" || cmd == "--version" {
		fmt.Printf("replaykit %s (%s)\n", version, commit)
		return 0
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		fmt.Print(usage)
		return 0
	}

	opts, args, err := parseFlags(cmd, os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := dispatch(ctx, application, cmd, args); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, application *app.App, cmd string, args []string) error {
	switch cmd {
	case "record":
		return application.Record(ctx)

	case "play":
		if len(args) == 0 {
			return application.Interactive(ctx)
		}
		return application.Play(ctx, args[0])

	case "remap":
		if len(args) == 0 {
			return fmt.Errorf("remap requires a recording id")
		}
		toID := ""
		if len(args) > 1 {
			toID = args[1]
		}
		return application.Remap(ctx, args[0], toID)

	case "list":
		return application.List(ctx)

	case "where":
		return application.Where(ctx)
	}
	return fmt.Errorf("unknown command %q (try: replaykit help)", cmd)
}

func parseFlags(cmd string, args []string) (app.Options, []string, error) {
	opts := app.Options{CommandDelay: -1}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "path to configuration file")
	fs.StringVar(&opts.RecordingsDir, "dir", "", "recordings directory")
	fs.Float64Var(&opts.CommandDelay, "delay", -1, "delay between playback commands in seconds")
	fs.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&opts.LocationsPath, "locations", "", "location file for record seeding or bare script playback")
	fs.BoolVar(&opts.Countdown, "countdown", false, "start playback after a countdown instead of F1")
	fs.StringVar(&opts.Description, "desc", "", "description for a new recording")
	fs.BoolVar(&opts.Plain, "plain", false, "list recordings as text instead of the picker")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}
