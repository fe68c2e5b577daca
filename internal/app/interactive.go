package app

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/dshills/replaykit/internal/location"
	"github.com/dshills/replaykit/internal/platform"
	"github.com/dshills/replaykit/internal/player"
	"github.com/dshills/replaykit/internal/script"
)

// Interactive reads script commands from stdin and executes them one at a
// time. Useful for trying out commands before recording them.
func (a *App) Interactive(ctx context.Context) error {
	synth, err := platform.NewSynthesizer()
	if err != nil {
		return err
	}
	clip, err := platform.NewClipboard()
	if err != nil {
		return err
	}

	locPath := a.opts.LocationsPath
	if locPath == "" {
		locPath = "locations.json"
	}
	locs, err := location.Load(locPath)
	if err != nil {
		return err
	}

	in := player.New(synth, clip, locs, a.log,
		player.WithCommandDelay(time.Duration(a.cfg.CommandDelay*float64(time.Second))))

	a.printf("Enter commands, one per line (quit to exit):\n")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		a.printf("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			return nil
		case "":
			continue
		}

		cmds, problems := script.Parse(line)
		a.reportProblems(problems)
		if err := in.Run(ctx, cmds); err != nil {
			if ctx.Err() != nil {
				return err
			}
			a.printf("error: %v\n", err)
		}
	}
}
