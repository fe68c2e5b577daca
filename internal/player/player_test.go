package player

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
	"github.com/dshills/replaykit/internal/location"
)

// fakeSynth records synthesized operations as readable strings.
type fakeSynth struct {
	pos   mouse.Point
	ops   []string
	moves int
}

func (f *fakeSynth) MouseMove(p mouse.Point) error {
	f.pos = p
	f.moves++
	f.ops = append(f.ops, fmt.Sprintf("move %d,%d", p.X, p.Y))
	return nil
}

func (f *fakeSynth) MouseDown(b mouse.Button) error {
	f.ops = append(f.ops, "down "+b.String())
	return nil
}

func (f *fakeSynth) MouseUp(b mouse.Button) error {
	f.ops = append(f.ops, "up "+b.String())
	return nil
}

func (f *fakeSynth) KeyDown(c key.Code) error {
	f.ops = append(f.ops, "keydown "+codeName(c))
	return nil
}

func (f *fakeSynth) KeyUp(c key.Code) error {
	f.ops = append(f.ops, "keyup "+codeName(c))
	return nil
}

func (f *fakeSynth) CursorPos() (mouse.Point, error) {
	return f.pos, nil
}

func codeName(c key.Code) string {
	k, r, ok := key.Decode(c, false)
	if !ok {
		return fmt.Sprintf("code%d", c)
	}
	if k == key.KeyRune {
		return string(r)
	}
	return k.String()
}

// fakeClip records clipboard writes.
type fakeClip struct {
	writes []string
}

func (f *fakeClip) ReadText() (string, error) { return "", nil }

func (f *fakeClip) WriteText(text string) error {
	f.writes = append(f.writes, text)
	return nil
}

func newTestInterpreter(locs *location.Table) (*Interpreter, *fakeSynth, *fakeClip) {
	synth := &fakeSynth{}
	clip := &fakeClip{}
	in := New(synth, clip, locs, nil)
	in.sleep = func(time.Duration) {}
	return in, synth, clip
}

// keyOps filters out mouse moves for keyboard assertions.
func keyOps(synth *fakeSynth) []string {
	var ops []string
	for _, op := range synth.ops {
		if !strings.HasPrefix(op, "move ") {
			ops = append(ops, op)
		}
	}
	return ops
}

func TestClickAtNamedLocation(t *testing.T) {
	locs := location.NewTable()
	locs.Set("button", mouse.Point{X: 100, Y: 100})
	in, synth, _ := newTestInterpreter(locs)

	err := in.Run(context.Background(), command.Script{
		command.Click{Button: mouse.ButtonLeft, Location: "button"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if synth.moves < 10 {
		t.Errorf("click moved in %d steps, want interpolated motion", synth.moves)
	}
	if synth.pos != (mouse.Point{X: 100, Y: 100}) {
		t.Errorf("final position = %v, want (100, 100)", synth.pos)
	}
	got := keyOps(synth)
	want := []string{"down left", "up left"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("button ops = %v, want %v", got, want)
	}
}

func TestClickWithoutLocationUsesCursor(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	err := in.Execute(context.Background(), command.Click{Button: mouse.ButtonRight})
	if err != nil {
		t.Fatal(err)
	}
	if synth.moves != 0 {
		t.Errorf("bare click moved the cursor %d times", synth.moves)
	}
	got := keyOps(synth)
	if len(got) != 2 || got[0] != "down right" || got[1] != "up right" {
		t.Errorf("ops = %v", got)
	}
}

func TestUnknownLocationSkipped(t *testing.T) {
	in, synth, _ := newTestInterpreter(location.NewTable())

	err := in.Run(context.Background(), command.Script{
		command.Click{Button: mouse.ButtonLeft, Location: "missing"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(synth.ops) != 0 {
		t.Errorf("unknown location produced ops: %v", synth.ops)
	}
}

func TestMoveToLiteralPoint(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	err := in.Execute(context.Background(), command.MoveTo{Target: command.PointTarget(50, 80)})
	if err != nil {
		t.Fatal(err)
	}
	if synth.pos != (mouse.Point{X: 50, Y: 80}) {
		t.Errorf("final position = %v, want (50, 80)", synth.pos)
	}
}

func TestDragSequence(t *testing.T) {
	locs := location.NewTable()
	locs.Set("from", mouse.Point{X: 10, Y: 10})
	locs.Set("to", mouse.Point{X: 300, Y: 300})
	in, synth, _ := newTestInterpreter(locs)

	err := in.Execute(context.Background(), command.Drag{
		Button: mouse.ButtonLeft, From: "from", To: "to",
	})
	if err != nil {
		t.Fatal(err)
	}

	got := keyOps(synth)
	if len(got) != 2 || got[0] != "down left" || got[1] != "up left" {
		t.Fatalf("button ops = %v", got)
	}
	if synth.pos != (mouse.Point{X: 300, Y: 300}) {
		t.Errorf("final position = %v, want (300, 300)", synth.pos)
	}
	// The press happens before the travel to the drop point.
	downIdx := indexOf(synth.ops, "down left")
	lastMove := lastIndexPrefix(synth.ops, "move ")
	if downIdx > lastMove {
		t.Error("button pressed after drag travel finished")
	}
}

func TestPressCombination(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	err := in.Execute(context.Background(), command.Press{
		Mods: key.ModCmd.With(key.ModShift), Key: "s",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"keydown cmd", "keydown shift",
		"keydown s", "keyup s",
		"keyup shift", "keyup cmd",
	}
	got := keyOps(synth)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestPressUnknownKeySkipped(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	if err := in.Execute(context.Background(), command.Press{Key: "hyper"}); err != nil {
		t.Fatal(err)
	}
	if len(synth.ops) != 0 {
		t.Errorf("unknown key produced ops: %v", synth.ops)
	}
}

func TestTypeText(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	if err := in.Execute(context.Background(), command.Type{Value: "a B!"}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"keydown a", "keyup a",
		"keydown space", "keyup space",
		"keydown shift", "keydown b", "keyup b", "keyup shift",
		"keydown shift", "keydown 1", "keyup 1", "keyup shift",
	}
	got := keyOps(synth)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestTypeRiskyCharReleasesModifiers(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	if err := in.Execute(context.Background(), command.Type{Value: "e"}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"keyup cmd", "keyup ctrl", "keyup shift", "keyup option",
		"keydown e", "keyup e",
	}
	got := keyOps(synth)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestTypeLineEndsWithReturn(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	if err := in.Execute(context.Background(), command.TypeLine{Value: "ok"}); err != nil {
		t.Fatal(err)
	}

	got := keyOps(synth)
	if len(got) < 2 || got[len(got)-2] != "keydown return" || got[len(got)-1] != "keyup return" {
		t.Errorf("ops = %v, want trailing return tap", got)
	}
}

func TestCodeBlockPastedLineByLine(t *testing.T) {
	in, synth, clip := newTestInterpreter(nil)

	err := in.Execute(context.Background(), command.TypeCodeBlock{
		Lines: []string{"def f():", "    return 1  "},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Trailing whitespace is stripped, leading indentation is kept.
	if len(clip.writes) != 2 || clip.writes[0] != "def f():" || clip.writes[1] != "    return 1" {
		t.Errorf("clipboard writes = %q", clip.writes)
	}

	// Each line: home, cmd+v, return.
	wantLine := []string{
		"keydown home", "keyup home",
		"keydown cmd", "keydown v", "keyup v", "keyup cmd",
		"keydown return", "keyup return",
	}
	want := append(append([]string{}, wantLine...), wantLine...)
	got := keyOps(synth)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestWaitSleeps(t *testing.T) {
	in, _, _ := newTestInterpreter(nil)

	var slept time.Duration
	in.sleep = func(d time.Duration) { slept += d }
	in.delay = 0

	err := in.Run(context.Background(), command.Script{command.Wait{Seconds: 0.6}})
	if err != nil {
		t.Fatal(err)
	}
	if slept != 600*time.Millisecond {
		t.Errorf("slept %v, want 600ms", slept)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	locs := location.NewTable()
	locs.Set("a", mouse.Point{X: 10, Y: 10})
	in, synth, _ := newTestInterpreter(locs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := in.Run(ctx, command.Script{
		command.Click{Button: mouse.ButtonLeft, Location: "a"},
	})
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(synth.ops) != 0 {
		t.Errorf("cancelled run produced ops: %v", synth.ops)
	}
}

func TestCommentIsNoOp(t *testing.T) {
	in, synth, _ := newTestInterpreter(nil)

	if err := in.Execute(context.Background(), command.Comment{Value: "note"}); err != nil {
		t.Fatal(err)
	}
	if len(synth.ops) != 0 {
		t.Errorf("comment produced ops: %v", synth.ops)
	}
}

func indexOf(ops []string, s string) int {
	for i, op := range ops {
		if op == s {
			return i
		}
	}
	return -1
}

func lastIndexPrefix(ops []string, prefix string) int {
	last := -1
	for i, op := range ops {
		if strings.HasPrefix(op, prefix) {
			last = i
		}
	}
	return last
}
