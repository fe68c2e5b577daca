package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/location"
	"github.com/dshills/replaykit/internal/platform"
	"github.com/dshills/replaykit/internal/player"
	"github.com/dshills/replaykit/internal/script"
)

// Play executes a recording by id, or a bare script file by path. The run
// starts after the trigger key (or a countdown with the countdown option)
// and aborts cleanly on cancellation.
func (a *App) Play(ctx context.Context, target string) error {
	cmds, locs, err := a.loadPlayable(target)
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		return fmt.Errorf("nothing to play in %s", target)
	}

	if err := a.waitForStart(ctx); err != nil {
		return err
	}

	synth, err := platform.NewSynthesizer()
	if err != nil {
		return err
	}
	clip, err := platform.NewClipboard()
	if err != nil {
		return err
	}

	in := player.New(synth, clip, locs, a.log,
		player.WithCommandDelay(time.Duration(a.cfg.CommandDelay*float64(time.Second))))

	start := time.Now()
	if err := in.Run(ctx, cmds); err != nil {
		return err
	}
	a.printf("Playback finished in %.1fs (%d commands)\n",
		time.Since(start).Seconds(), len(cmds))
	return nil
}

// loadPlayable resolves a recording id or falls back to a script file path
// with an optional sibling locations.json.
func (a *App) loadPlayable(target string) (command.Script, *location.Table, error) {
	if a.store.Exists(target) {
		rec, err := a.store.Load(target)
		if err != nil {
			return nil, nil, err
		}
		a.reportProblems(rec.Problems)
		if rec.Info.Description != "" {
			a.printf("Playing %s: %s\n", rec.Info.ID, rec.Info.Description)
		} else {
			a.printf("Playing %s\n", target)
		}
		return rec.Script, rec.Locations, nil
	}

	text, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("recording %q not found", target)
		}
		return nil, nil, fmt.Errorf("read script: %w", err)
	}

	cmds, problems := script.Parse(string(text))
	a.reportProblems(problems)

	locPath := a.opts.LocationsPath
	if locPath == "" {
		locPath = filepath.Join(filepath.Dir(target), "locations.json")
	}
	locs, err := location.Load(locPath)
	if err != nil {
		return nil, nil, err
	}
	a.printf("Playing %s\n", target)
	return cmds, locs, nil
}

func (a *App) reportProblems(problems []script.Problem) {
	for _, p := range problems {
		a.log.Warn("line %d: %s (%s)", p.Line, p.Reason, p.Text)
	}
}

// waitForStart blocks until the trigger key is pressed, or counts down
// when configured or when no tap is available.
func (a *App) waitForStart(ctx context.Context) error {
	if a.opts.Countdown {
		return a.countdown(ctx)
	}

	trigger, _ := key.CodeFor(key.KeyF1)

	// The trigger key starts playback and is swallowed at the tap so the
	// foreground application never receives it.
	tap, err := platform.NewTap(platform.WithSuppression(func(ev event.Event) bool {
		return ev.IsKey() && ev.Code == trigger
	}))
	if err != nil {
		a.log.Warn("no event tap available, falling back to countdown: %v", err)
		return a.countdown(ctx)
	}
	stream, err := tap.Start()
	if err != nil {
		a.log.Warn("event tap failed, falling back to countdown: %v", err)
		return a.countdown(ctx)
	}
	defer tap.Stop()

	a.printf("Press F1 to start playback (Ctrl+C to cancel)...\n")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-stream:
			if !ok {
				return fmt.Errorf("event stream closed")
			}
			if ev.Kind == event.KindKeyDown && ev.Code == trigger {
				a.printf("Starting playback.\n")
				return nil
			}
		}
	}
}

func (a *App) countdown(ctx context.Context) error {
	a.printf("Starting in 3 seconds (Ctrl+C to cancel)...\n")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(3 * time.Second):
		return nil
	}
}
