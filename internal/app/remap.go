package app

import (
	"context"
	"fmt"

	"github.com/dshills/replaykit/internal/input/mouse"
	"github.com/dshills/replaykit/internal/platform"
	"github.com/dshills/replaykit/internal/remap"
)

// Remap collects new coordinates for every location a recording's script
// references and saves the result as a new recording. The script itself is
// copied unchanged. An empty toID allocates the next free id.
func (a *App) Remap(ctx context.Context, fromID, toID string) error {
	rec, err := a.store.Load(fromID)
	if err != nil {
		return err
	}
	a.reportProblems(rec.Problems)

	refs := rec.Script.ReferencedLocations()
	if len(refs) == 0 {
		return fmt.Errorf("%s references no locations, nothing to remap", fromID)
	}

	tap, err := platform.NewTap()
	if err != nil {
		return err
	}
	stream, err := tap.Start()
	if err != nil {
		return err
	}
	defer tap.Stop()

	// Showing each original coordinate means parking the pointer on it; the
	// console line alone gives no spatial reference on the new screen.
	synth, err := platform.NewSynthesizer()
	if err != nil {
		a.log.Warn("no synthesizer, original positions shown as text only: %v", err)
		synth = nil
	}

	a.printf("Remapping %s (%d locations).\n", fromID, len(refs))
	a.printf("For each location: left-click its new position, or right-click to keep it.\n")

	indicate := func(name string, original mouse.Point) {
		if synth != nil {
			if err := synth.MouseMove(original); err != nil {
				a.log.Warn("cannot move pointer to %s: %v", original, err)
			}
		}
		a.printf("  %s (was %s): click new position or right-click to keep\n", name, original)
	}

	confirms := remap.Confirmations(ctx, stream)
	r := remap.New(rec.Script, rec.Locations, confirms, indicate, a.log)
	remapped, err := r.Run(ctx)
	if err != nil {
		return err
	}

	if toID == "" {
		if toID, err = a.store.NextID(); err != nil {
			return err
		}
	} else if a.store.Exists(toID) {
		return fmt.Errorf("recording %s already exists", toID)
	}
	if err := a.store.CopyScript(fromID, toID); err != nil {
		return err
	}
	if err := remapped.Save(a.store.LocationsPath(toID)); err != nil {
		return err
	}

	a.printf("Saved remapped recording as %s\n", toID)
	return nil
}
