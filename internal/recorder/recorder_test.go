package recorder

import (
	"reflect"
	"testing"
	"time"

	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
	"github.com/dshills/replaykit/internal/location"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func newEncoder() *Encoder {
	return New(location.NewTable(), nil)
}

// start toggles the encoder active with the middle-mouse trigger.
func start(t *testing.T, e *Encoder) {
	t.Helper()
	if got := e.Handle(event.MouseDown(mouse.ButtonMiddle, 0, 0, at(0))); got != TransitionStarted {
		t.Fatalf("start transition = %v, want TransitionStarted", got)
	}
}

// stop toggles the encoder inactive and returns the session result.
func stop(t *testing.T, e *Encoder, ms int) *Result {
	t.Helper()
	if got := e.Handle(event.MouseDown(mouse.ButtonMiddle, 0, 0, at(ms))); got != TransitionStopped {
		t.Fatalf("stop transition = %v, want TransitionStopped", got)
	}
	return e.Result()
}

// texts renders the recorded script for comparison.
func texts(r *Result) []string {
	out := make([]string, 0, len(r.Script))
	for _, cmd := range r.Script {
		out = append(out, cmd.Text())
	}
	return out
}

func keyDown(t *testing.T, e *Encoder, r rune, mods key.Modifier, ms int) {
	t.Helper()
	stroke, ok := key.StrokeFor(r)
	if !ok {
		t.Fatalf("no stroke for %q", r)
	}
	if stroke.Shift {
		mods = mods.With(key.ModShift)
	}
	e.Handle(event.KeyDown(stroke.Code, mods, at(ms)))
}

func TestIsTrigger(t *testing.T) {
	tests := []struct {
		ev   event.Event
		want bool
	}{
		{event.MouseDown(mouse.ButtonMiddle, 0, 0, at(0)), true},
		{event.MouseUp(mouse.ButtonMiddle, 0, 0, at(0)), true},
		{event.MouseDown(mouse.ButtonLeft, 0, 0, at(0)), false},
		{event.MouseUp(mouse.ButtonRight, 0, 0, at(0)), false},
		{event.Event{Kind: event.KindMouseMove, Time: at(0)}, false},
		{event.KeyDown(0, 0, at(0)), false},
	}
	for _, tt := range tests {
		if got := IsTrigger(tt.ev); got != tt.want {
			t.Errorf("IsTrigger(%s) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestTriggerReleaseNotEncoded(t *testing.T) {
	e := newEncoder()
	start(t, e)

	// The release half of the toggle is part of the trigger and must not
	// become a command or flush state.
	e.Handle(event.MouseUp(mouse.ButtonMiddle, 0, 0, at(100)))

	res := stop(t, e, 1000)
	if len(res.Script) != 0 {
		t.Errorf("script = %v, want empty", texts(res))
	}
}

func TestTriggerToggles(t *testing.T) {
	e := newEncoder()

	// Events before the trigger are ignored.
	e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(0)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(50)))
	if e.Active() {
		t.Fatal("encoder active before trigger")
	}

	start(t, e)
	if !e.Active() {
		t.Fatal("encoder not active after trigger")
	}

	res := stop(t, e, 3000)
	if e.Active() {
		t.Fatal("encoder still active after second trigger")
	}
	if len(res.Script) != 0 {
		t.Errorf("pre-trigger events leaked into script: %v", texts(res))
	}
	if res.Duration != 3*time.Second {
		t.Errorf("duration = %v, want 3s", res.Duration)
	}
}

func TestQuickClick(t *testing.T) {
	e := newEncoder()
	start(t, e)

	e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(100)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(180)))

	res := stop(t, e, 500)
	want := []string{"left click at click_1", "wait 0.25"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
	if res.NewLocations != 1 {
		t.Errorf("new locations = %d, want 1", res.NewLocations)
	}
}

func TestNearbyClickReusesLocation(t *testing.T) {
	e := newEncoder()
	start(t, e)

	e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(100)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(180)))
	e.Handle(event.MouseDown(mouse.ButtonLeft, 110, 105, at(400)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 110, 105, at(480)))

	res := stop(t, e, 700)
	want := []string{
		"left click at click_1", "wait 0.25",
		"left click at click_1", "wait 0.25",
	}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
	if res.NewLocations != 1 {
		t.Errorf("new locations = %d, want 1", res.NewLocations)
	}
}

func TestMoveRecordedBetweenDistinctClicks(t *testing.T) {
	e := newEncoder()
	start(t, e)

	e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(100)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(180)))
	e.Handle(event.MouseDown(mouse.ButtonRight, 400, 300, at(400)))
	e.Handle(event.MouseUp(mouse.ButtonRight, 400, 300, at(480)))

	res := stop(t, e, 700)
	want := []string{
		"left click at click_1", "wait 0.25",
		"move mouse to click_2",
		"right click at click_2", "wait 0.25",
	}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestHoldBecomesClickAndHold(t *testing.T) {
	e := newEncoder()
	start(t, e)

	e.Handle(event.MouseDown(mouse.ButtonLeft, 200, 200, at(100)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 200, 200, at(1000)))

	res := stop(t, e, 1300)
	want := []string{"left click and hold at click_1 for 0.9s", "wait 0.25"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestHoldWithTravelBecomesDrag(t *testing.T) {
	e := newEncoder()
	start(t, e)

	e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(100)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 300, 300, at(1000)))

	res := stop(t, e, 1300)
	want := []string{"drag left from click_1 to click_2", "wait 0.25"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
	if res.NewLocations != 2 {
		t.Errorf("new locations = %d, want 2", res.NewLocations)
	}
}

func TestIdleGapCompression(t *testing.T) {
	tests := []struct {
		name  string
		gapMS int
		want  []string
	}{
		{
			name:  "short gap records nothing",
			gapMS: 300,
			want: []string{
				"left click at click_1", "wait 0.25",
				"left click at click_1", "wait 0.25",
			},
		},
		{
			name:  "medium gap",
			gapMS: 1200,
			want: []string{
				"left click at click_1", "wait 0.25",
				"wait 0.4",
				"left click at click_1", "wait 0.25",
			},
		},
		{
			name:  "long gap",
			gapMS: 2500,
			want: []string{
				"left click at click_1", "wait 0.25",
				"wait 0.6",
				"left click at click_1", "wait 0.25",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEncoder()
			start(t, e)

			e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(100)))
			e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(180)))
			next := 180 + tt.gapMS
			e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(next)))
			e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(next+80)))

			res := stop(t, e, next+400)
			if got := texts(res); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("script = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoLeadingWait(t *testing.T) {
	e := newEncoder()
	start(t, e)

	// A long pause before the first action must not record a wait.
	e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(3000)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(3080)))

	res := stop(t, e, 3300)
	want := []string{"left click at click_1", "wait 0.25"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestTypingBatchedAndFlushedByClick(t *testing.T) {
	e := newEncoder()
	start(t, e)

	for i, r := range "hello" {
		keyDown(t, e, r, 0, 100+i*50)
	}
	e.Handle(event.MouseDown(mouse.ButtonLeft, 100, 100, at(400)))
	e.Handle(event.MouseUp(mouse.ButtonLeft, 100, 100, at(480)))

	res := stop(t, e, 700)
	want := []string{`type "hello"`, "left click at click_1", "wait 0.25"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestBackspaceEditsBuffer(t *testing.T) {
	e := newEncoder()
	start(t, e)

	for i, r := range "helpp" {
		keyDown(t, e, r, 0, 100+i*50)
	}
	backspace, _ := key.CodeFor(key.KeyBackspace)
	e.Handle(event.KeyDown(backspace, 0, at(360)))
	e.Handle(event.KeyDown(backspace, 0, at(380)))
	for i, r := range "lo" {
		keyDown(t, e, r, 0, 400+i*20)
	}

	res := stop(t, e, 600)
	want := []string{`type "hello"`}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestBackspaceWithEmptyBufferRecordsPress(t *testing.T) {
	e := newEncoder()
	start(t, e)

	backspace, _ := key.CodeFor(key.KeyBackspace)
	e.Handle(event.KeyDown(backspace, 0, at(100)))

	res := stop(t, e, 300)
	want := []string{"press backspace"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestReturnFlushesAndAddsSettle(t *testing.T) {
	e := newEncoder()
	start(t, e)

	for i, r := range "ok" {
		keyDown(t, e, r, 0, 100+i*50)
	}
	ret, _ := key.CodeFor(key.KeyReturn)
	e.Handle(event.KeyDown(ret, 0, at(200)))

	res := stop(t, e, 400)
	want := []string{`type "ok"`, "press return", "wait 0.25"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestShiftedTyping(t *testing.T) {
	e := newEncoder()
	start(t, e)

	for i, r := range "Hi!" {
		keyDown(t, e, r, 0, 100+i*50)
	}

	res := stop(t, e, 400)
	want := []string{`type "Hi!"`}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestKeyCombination(t *testing.T) {
	e := newEncoder()
	start(t, e)

	for i, r := range "fmt" {
		keyDown(t, e, r, 0, 100+i*50)
	}
	s, _ := key.CodeForName("s")
	e.Handle(event.KeyDown(s, key.ModCmd, at(300)))

	res := stop(t, e, 500)
	want := []string{`type "fmt"`, "press cmd+s"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestCombinationWithNamedKey(t *testing.T) {
	e := newEncoder()
	start(t, e)

	tab, _ := key.CodeFor(key.KeyTab)
	e.Handle(event.KeyDown(tab, key.ModCmd.With(key.ModShift), at(100)))

	res := stop(t, e, 300)
	want := []string{"press cmd+shift+tab"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestLoneModifierIgnored(t *testing.T) {
	e := newEncoder()
	start(t, e)

	cmd, _ := key.CodeFor(key.KeyCmd)
	e.Handle(event.KeyDown(cmd, key.ModCmd, at(100)))

	res := stop(t, e, 300)
	if len(res.Script) != 0 {
		t.Errorf("lone modifier recorded: %v", texts(res))
	}
}

func TestMultilineBufferBecomesCodeBlock(t *testing.T) {
	e := newEncoder()
	start(t, e)

	e.textBuf = []rune("func main() {\n\tprintln(1)\n}")
	res := stop(t, e, 300)

	want := []string{"type code block\n```\nfunc main() {\n\tprintln(1)\n}\n```"}
	if got := texts(res); !reflect.DeepEqual(got, want) {
		t.Errorf("script = %v, want %v", got, want)
	}
}

func TestMouseMovesIgnored(t *testing.T) {
	e := newEncoder()
	start(t, e)

	for i := 0; i < 5; i++ {
		e.Handle(event.Event{
			Kind: event.KindMouseMove,
			Pos:  mouse.Point{X: i * 10, Y: i * 10},
			Time: at(100 + i*700),
		})
	}

	res := stop(t, e, 4000)
	if len(res.Script) != 0 {
		t.Errorf("mouse moves recorded: %v", texts(res))
	}
}
