package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/platform"
	"github.com/dshills/replaykit/internal/store"
	"github.com/dshills/replaykit/internal/tui"
)

// List shows the interactive recording picker and plays the selection.
// Dismissing the picker is not an error.
func (a *App) List(ctx context.Context) error {
	infos, err := a.store.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		a.printf("No recordings yet. Run: replaykit record\n")
		return nil
	}

	if a.opts.Plain {
		a.printPlain(infos)
		return nil
	}

	id, err := tui.Run(infos)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}
	return a.Play(ctx, id)
}

// printPlain writes one line per recording for script consumption.
func (a *App) printPlain(infos []store.Info) {
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tDURATION\tCOMMANDS\tDESCRIPTION")
	for _, info := range infos {
		created := ""
		if !info.Created.IsZero() {
			created = info.Created.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%.1fs\t%d\t%s\n",
			info.ID, created, info.Duration, info.Commands, info.Description)
	}
	w.Flush()
}

// Where prints the coordinates of every click until cancelled, for
// finding screen positions by hand.
func (a *App) Where(ctx context.Context) error {
	tap, err := platform.NewTap()
	if err != nil {
		return err
	}
	stream, err := tap.Start()
	if err != nil {
		return err
	}
	defer tap.Stop()

	a.printf("Click anywhere to see coordinates. Ctrl+C to stop.\n")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-stream:
			if !ok {
				return nil
			}
			if ev.Kind == event.KindMouseDown {
				a.printf("%s click at %s\n", ev.Button, ev.Pos)
			}
		}
	}
}
