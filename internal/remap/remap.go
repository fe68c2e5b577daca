// Package remap retargets a recording's named locations to a new screen
// layout. The command sequence is never touched; only the coordinate table
// is rebuilt, one referenced location at a time, from user confirmations.
package remap

import (
	"context"
	"fmt"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/input/mouse"
	"github.com/dshills/replaykit/internal/location"
	"github.com/dshills/replaykit/internal/logging"
)

// Confirmation is one user response to a location prompt: either adopt the
// clicked coordinates or keep the original ones.
type Confirmation struct {
	Pos  mouse.Point
	Keep bool
}

// Indicator shows the user which location is being remapped and where it
// used to be.
type Indicator func(name string, original mouse.Point)

// Remapper walks a script's referenced locations and collects a new
// coordinate for each from the confirmation stream.
type Remapper struct {
	script   command.Script
	old      *location.Table
	indicate Indicator
	confirms <-chan Confirmation
	log      *logging.Logger
}

// New creates a remapper. The confirms channel is fed by the event
// dispatch side; see Confirmations.
func New(script command.Script, old *location.Table, confirms <-chan Confirmation, indicate Indicator, log *logging.Logger) *Remapper {
	if log == nil {
		log = logging.NullLogger
	}
	if indicate == nil {
		indicate = func(string, mouse.Point) {}
	}
	return &Remapper{
		script:   script,
		old:      old,
		indicate: indicate,
		confirms: confirms,
		log:      log,
	}
}

// Run resolves every location the script references, in first-reference
// order, then carries over unreferenced locations unchanged. It blocks on
// the confirmation stream and returns early only on cancellation.
func (r *Remapper) Run(ctx context.Context) (*location.Table, error) {
	remapped := location.NewTable()
	resolved := make(map[string]bool)

	for _, name := range r.script.ReferencedLocations() {
		if resolved[name] {
			continue
		}

		original, known := r.old.Get(name)
		if !known {
			r.log.Warn("script references unknown location %q", name)
		}
		r.drainStale()
		r.indicate(name, original)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case c, ok := <-r.confirms:
			if !ok {
				return nil, fmt.Errorf("confirmation stream closed before %q was resolved", name)
			}
			switch {
			case c.Keep && known:
				remapped.Set(name, original)
				r.log.Info("kept %s at %s", name, original)
			case c.Keep:
				r.log.Warn("no original coordinates for %q, skipping", name)
			default:
				remapped.Set(name, c.Pos)
				r.log.Info("remapped %s to %s", name, c.Pos)
			}
		}
		resolved[name] = true
	}

	// Locations the script never references keep their coordinates.
	for _, name := range r.old.Names() {
		if resolved[name] {
			continue
		}
		p, _ := r.old.Get(name)
		remapped.Set(name, p)
	}
	return remapped, nil
}

// drainStale discards confirmations that arrived between prompts, so a
// double click cannot answer a question that has not been asked yet. A
// closed stream ends the drain; Run's receive reports the closure.
func (r *Remapper) drainStale() {
	for {
		select {
		case _, ok := <-r.confirms:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Confirmations converts raw tap events into confirmation messages: a left
// click adopts its coordinates, a right click keeps the original. All
// other events are ignored. The returned channel closes when the event
// stream closes or the context is cancelled.
func Confirmations(ctx context.Context, events <-chan event.Event) <-chan Confirmation {
	out := make(chan Confirmation, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Kind != event.KindMouseDown {
					continue
				}
				var c Confirmation
				switch ev.Button {
				case mouse.ButtonLeft:
					c = Confirmation{Pos: ev.Pos}
				case mouse.ButtonRight:
					c = Confirmation{Keep: true}
				default:
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
