package remap

import (
	"context"
	"testing"
	"time"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/input/mouse"
	"github.com/dshills/replaykit/internal/location"
)

func testScript() command.Script {
	return command.Script{
		command.Click{Button: mouse.ButtonLeft, Location: "click_1"},
		command.Wait{Seconds: 0.25},
		command.Drag{Button: mouse.ButtonLeft, From: "click_2", To: "click_1"},
	}
}

func oldTable() *location.Table {
	t := location.NewTable()
	t.Set("click_1", mouse.Point{X: 100, Y: 100})
	t.Set("click_2", mouse.Point{X: 200, Y: 200})
	t.Set("click_3", mouse.Point{X: 300, Y: 300})
	return t
}

// answer queues one confirmation per prompt, the way the dispatch side
// feeds the worker: answers arrive only after a prompt is shown, never
// before. Confirmations queued ahead of a prompt are stale and discarded.
func answer(confirms chan<- Confirmation, answers []Confirmation, prompts *[]string, shown *[]mouse.Point) Indicator {
	return func(name string, original mouse.Point) {
		*prompts = append(*prompts, name)
		*shown = append(*shown, original)
		confirms <- answers[len(*prompts)-1]
	}
}

func TestRunAdoptAndKeep(t *testing.T) {
	confirms := make(chan Confirmation, 1)
	answers := []Confirmation{
		{Pos: mouse.Point{X: 500, Y: 500}}, // click_1: adopt
		{Keep: true},                       // click_2: keep
	}

	var prompts []string
	var shown []mouse.Point
	r := New(testScript(), oldTable(), confirms, answer(confirms, answers, &prompts, &shown), nil)
	got, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Prompts follow first-reference order, each name once, showing the
	// original coordinates.
	if len(prompts) != 2 || prompts[0] != "click_1" || prompts[1] != "click_2" {
		t.Errorf("prompts = %v, want [click_1 click_2]", prompts)
	}
	want := []mouse.Point{{X: 100, Y: 100}, {X: 200, Y: 200}}
	for i := range want {
		if i >= len(shown) || shown[i] != want[i] {
			t.Errorf("shown = %v, want %v", shown, want)
			break
		}
	}

	if p, _ := got.Get("click_1"); p != (mouse.Point{X: 500, Y: 500}) {
		t.Errorf("click_1 = %v, want (500, 500)", p)
	}
	if p, _ := got.Get("click_2"); p != (mouse.Point{X: 200, Y: 200}) {
		t.Errorf("click_2 = %v, want original (200, 200)", p)
	}
	// Unreferenced locations carry over untouched.
	if p, _ := got.Get("click_3"); p != (mouse.Point{X: 300, Y: 300}) {
		t.Errorf("click_3 = %v, want original (300, 300)", p)
	}
}

func TestRunDiscardsStaleConfirmation(t *testing.T) {
	confirms := make(chan Confirmation, 1)
	// A click from before the first prompt must not answer it.
	confirms <- Confirmation{Pos: mouse.Point{X: 9, Y: 9}}

	script := command.Script{
		command.Click{Button: mouse.ButtonLeft, Location: "click_1"},
	}
	answers := []Confirmation{{Pos: mouse.Point{X: 500, Y: 500}}}

	var prompts []string
	var shown []mouse.Point
	r := New(script, oldTable(), confirms, answer(confirms, answers, &prompts, &shown), nil)
	got, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := got.Get("click_1"); p != (mouse.Point{X: 500, Y: 500}) {
		t.Errorf("click_1 = %v, want the post-prompt answer (500, 500)", p)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(testScript(), oldTable(), make(chan Confirmation), nil, nil)
	if _, err := r.Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRunStreamClosed(t *testing.T) {
	confirms := make(chan Confirmation)
	close(confirms)

	r := New(testScript(), oldTable(), confirms, nil, nil)
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error for closed confirmation stream")
	}
}

func TestRunStreamClosedWithStaleClick(t *testing.T) {
	// A stale click followed by stream closure (the cancellation path) must
	// surface as an error, not leave Run spinning on the closed channel.
	confirms := make(chan Confirmation, 1)
	confirms <- Confirmation{Pos: mouse.Point{X: 9, Y: 9}}
	close(confirms)

	done := make(chan error, 1)
	go func() {
		r := New(testScript(), oldTable(), confirms, nil, nil)
		_, err := r.Run(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error for closed confirmation stream")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the confirmation stream closed")
	}
}

func TestUnknownReferenceAdopted(t *testing.T) {
	script := command.Script{
		command.Click{Button: mouse.ButtonLeft, Location: "mystery"},
	}
	confirms := make(chan Confirmation, 1)
	answers := []Confirmation{{Pos: mouse.Point{X: 40, Y: 40}}}

	var prompts []string
	var shown []mouse.Point
	r := New(script, location.NewTable(), confirms, answer(confirms, answers, &prompts, &shown), nil)
	got, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := got.Get("mystery"); !ok || p != (mouse.Point{X: 40, Y: 40}) {
		t.Errorf("mystery = %v, %v", p, ok)
	}
}

func TestConfirmations(t *testing.T) {
	events := make(chan event.Event, 4)
	now := time.Now()
	events <- event.Event{Kind: event.KindMouseMove, Time: now}
	events <- event.MouseDown(mouse.ButtonLeft, 10, 20, now)
	events <- event.MouseDown(mouse.ButtonMiddle, 0, 0, now)
	events <- event.MouseDown(mouse.ButtonRight, 0, 0, now)
	close(events)

	out := Confirmations(context.Background(), events)

	first := <-out
	if first.Keep || first.Pos != (mouse.Point{X: 10, Y: 20}) {
		t.Errorf("first confirmation = %+v", first)
	}
	second := <-out
	if !second.Keep {
		t.Errorf("second confirmation = %+v, want keep", second)
	}
	if _, ok := <-out; ok {
		t.Error("channel not closed after event stream ended")
	}
}
