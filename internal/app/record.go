package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/replaykit/internal/location"
	"github.com/dshills/replaykit/internal/platform"
	"github.com/dshills/replaykit/internal/recorder"
	"github.com/dshills/replaykit/internal/store"
)

// Record runs one recording session: wait for the middle-click trigger,
// encode events until the trigger fires again, then persist the session as
// a new recording. Cancelling the context before the stop trigger discards
// the session.
func (a *App) Record(ctx context.Context) error {
	tap, err := platform.NewTap(platform.WithSuppression(recorder.IsTrigger))
	if err != nil {
		return err
	}
	stream, err := tap.Start()
	if err != nil {
		return err
	}
	defer tap.Stop()

	locs := location.NewTable()
	if a.opts.LocationsPath != "" {
		if locs, err = location.Load(a.opts.LocationsPath); err != nil {
			return err
		}
	}
	locs.SetThreshold(a.cfg.MatchThreshold)
	enc := recorder.New(locs, a.log)

	a.printf("Middle-click to start recording, middle-click again to stop.\n")

	for {
		select {
		case <-ctx.Done():
			if enc.Active() {
				a.printf("Recording cancelled, nothing saved.\n")
			}
			return ctx.Err()

		case ev, ok := <-stream:
			if !ok {
				return fmt.Errorf("event stream closed")
			}
			switch enc.Handle(ev) {
			case recorder.TransitionStarted:
				a.printf("Recording... middle-click to stop.\n")
			case recorder.TransitionStopped:
				return a.saveSession(enc.Result(), locs)
			}
		}
	}
}

// saveSession persists a finished recording under the next free id.
func (a *App) saveSession(res *recorder.Result, locs *location.Table) error {
	if len(res.Script) == 0 {
		a.printf("Nothing recorded.\n")
		return nil
	}

	// A seeded location file receives the session's additions; untouched
	// tables are left alone.
	if err := locs.SaveIfDirty(a.opts.LocationsPath); err != nil {
		return err
	}

	id, err := a.store.NextID()
	if err != nil {
		return err
	}

	rec := &store.Recording{
		Info: store.Info{
			ID:          id,
			Created:     res.Started,
			Duration:    res.Duration.Seconds(),
			Commands:    len(res.Script),
			Locations:   res.NewLocations,
			Description: a.describeRecording(),
		},
		Script:    res.Script,
		Locations: locs,
	}
	if err := a.store.Save(rec); err != nil {
		return err
	}

	a.printf("Saved %s: %d commands, %d locations, %.1fs\n",
		id, len(res.Script), locs.Len(), res.Duration.Seconds())
	a.printf("Play it back with: replaykit play %s\n", id)
	return nil
}

func (a *App) describeRecording() string {
	if a.opts.Description != "" {
		return a.opts.Description
	}
	return "Recorded " + time.Now().Format("2006-01-02 15:04")
}
