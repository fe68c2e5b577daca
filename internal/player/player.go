package player

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
	"github.com/dshills/replaykit/internal/location"
	"github.com/dshills/replaykit/internal/logging"
	"github.com/dshills/replaykit/internal/platform"
)

const (
	// moveDuration is the animation time for an interpolated pointer move.
	moveDuration = 300 * time.Millisecond

	// dragDuration is the slower animation time while a button is held.
	dragDuration = 500 * time.Millisecond

	// settleDelay follows every mouse action, giving the UI time to react.
	settleDelay = 300 * time.Millisecond

	// moveSettleDelay follows the pointer move that precedes a click.
	moveSettleDelay = 200 * time.Millisecond

	// clickHold is how long a plain click keeps the button down.
	clickHold = 100 * time.Millisecond

	// keyTapDelay follows each synthesized key transition.
	keyTapDelay = 20 * time.Millisecond

	// modTapDelay follows each synthesized modifier transition.
	modTapDelay = 10 * time.Millisecond

	// pasteStepDelay paces the clipboard steps of a code block line.
	pasteStepDelay = 50 * time.Millisecond

	// defaultCommandDelay is the pause between consecutive commands.
	defaultCommandDelay = 100 * time.Millisecond
)

// Interpreter executes a parsed script. It is not safe for concurrent use.
type Interpreter struct {
	synth platform.Synthesizer
	clip  platform.Clipboard
	locs  *location.Table
	log   *logging.Logger

	// delay is inserted between consecutive commands.
	delay time.Duration

	// sleep is swapped out by tests.
	sleep func(time.Duration)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithCommandDelay overrides the pause between commands.
func WithCommandDelay(d time.Duration) Option {
	return func(in *Interpreter) { in.delay = d }
}

// New creates an interpreter resolving named locations against locs.
func New(synth platform.Synthesizer, clip platform.Clipboard, locs *location.Table, log *logging.Logger, opts ...Option) *Interpreter {
	if log == nil {
		log = logging.NullLogger
	}
	if locs == nil {
		locs = location.NewTable()
	}
	in := &Interpreter{
		synth: synth,
		clip:  clip,
		locs:  locs,
		log:   log,
		delay: defaultCommandDelay,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run executes the script from the first command. Commands referencing
// unknown locations or keys are logged and skipped; synthesizer failures
// abort the run.
func (in *Interpreter) Run(ctx context.Context, s command.Script) error {
	for i, cmd := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		in.log.Debug("executing %d/%d: %s", i+1, s.Len(), firstLine(cmd.Text()))
		if err := in.Execute(ctx, cmd); err != nil {
			return fmt.Errorf("command %d (%s): %w", i+1, firstLine(cmd.Text()), err)
		}
		in.pause(ctx, in.delay)
	}
	return nil
}

// Execute runs a single command.
func (in *Interpreter) Execute(ctx context.Context, cmd command.Command) error {
	switch c := cmd.(type) {
	case command.MoveTo:
		return in.moveTo(ctx, c)
	case command.Click:
		return in.click(ctx, c)
	case command.ClickAndHold:
		return in.clickAndHold(ctx, c)
	case command.Drag:
		return in.drag(ctx, c)
	case command.Press:
		return in.press(ctx, c)
	case command.Type:
		return in.typeText(ctx, c.Value)
	case command.TypeLine:
		if err := in.typeText(ctx, c.Value); err != nil {
			return err
		}
		return in.tapNamed(ctx, key.KeyReturn)
	case command.TypeCodeBlock:
		return in.pasteCodeBlock(ctx, c.Lines)
	case command.Wait:
		in.pause(ctx, seconds(c.Seconds))
		return ctx.Err()
	case command.Comment:
		return nil
	}
	return fmt.Errorf("unknown command type %T", cmd)
}

// resolve maps a target to screen coordinates.
func (in *Interpreter) resolve(t command.Target) (mouse.Point, bool) {
	if !t.IsNamed() {
		return t.Point, true
	}
	p, ok := in.locs.Get(t.Name)
	if !ok {
		in.log.Warn("unknown location %q, skipping", t.Name)
	}
	return p, ok
}

func (in *Interpreter) moveTo(ctx context.Context, c command.MoveTo) error {
	p, ok := in.resolve(c.Target)
	if !ok {
		return nil
	}
	return in.glide(ctx, p, moveDuration)
}

// glide animates the pointer to a target over the given duration. Step
// count scales with distance so short hops stay quick and long sweeps stay
// visible.
func (in *Interpreter) glide(ctx context.Context, to mouse.Point, duration time.Duration) error {
	from, err := in.synth.CursorPos()
	if err != nil {
		return err
	}

	dist := from.Distance(to)
	steps := int(dist / 10)
	if steps < 10 {
		steps = 10
	}
	if steps > 30 {
		steps = 30
	}
	stepDelay := duration / time.Duration(steps)

	dx := float64(to.X-from.X) / float64(steps)
	dy := float64(to.Y-from.Y) / float64(steps)
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := mouse.Point{
			X: from.X + int(dx*float64(i)),
			Y: from.Y + int(dy*float64(i)),
		}
		if i == steps {
			p = to
		}
		if err := in.synth.MouseMove(p); err != nil {
			return err
		}
		in.sleep(stepDelay)
	}
	return nil
}

// glideToNamed moves the pointer to a named location if it exists.
func (in *Interpreter) glideToNamed(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return true, nil
	}
	p, ok := in.resolve(command.NamedTarget(name))
	if !ok {
		return false, nil
	}
	if err := in.glide(ctx, p, moveDuration); err != nil {
		return false, err
	}
	in.pause(ctx, moveSettleDelay)
	return true, nil
}

func (in *Interpreter) click(ctx context.Context, c command.Click) error {
	ok, err := in.glideToNamed(ctx, c.Location)
	if err != nil || !ok {
		return err
	}
	if err := in.synth.MouseDown(c.Button); err != nil {
		return err
	}
	in.pause(ctx, clickHold)
	if err := in.synth.MouseUp(c.Button); err != nil {
		return err
	}
	in.pause(ctx, settleDelay)
	return ctx.Err()
}

func (in *Interpreter) clickAndHold(ctx context.Context, c command.ClickAndHold) error {
	ok, err := in.glideToNamed(ctx, c.Location)
	if err != nil || !ok {
		return err
	}
	hold := seconds(c.Seconds)
	if hold <= 0 {
		hold = time.Second
	}
	if err := in.synth.MouseDown(c.Button); err != nil {
		return err
	}
	in.pause(ctx, hold)
	if err := in.synth.MouseUp(c.Button); err != nil {
		return err
	}
	in.pause(ctx, settleDelay)
	return ctx.Err()
}

func (in *Interpreter) drag(ctx context.Context, c command.Drag) error {
	from, okFrom := in.resolve(command.NamedTarget(c.From))
	to, okTo := in.resolve(command.NamedTarget(c.To))
	if !okFrom || !okTo {
		return nil
	}

	if err := in.glide(ctx, from, moveDuration); err != nil {
		return err
	}
	in.pause(ctx, moveSettleDelay)
	if err := in.synth.MouseDown(c.Button); err != nil {
		return err
	}
	in.pause(ctx, clickHold)
	if err := in.glide(ctx, to, dragDuration); err != nil {
		return err
	}
	if err := in.synth.MouseUp(c.Button); err != nil {
		return err
	}
	in.pause(ctx, settleDelay)
	return ctx.Err()
}

func (in *Interpreter) press(ctx context.Context, c command.Press) error {
	code, ok := key.CodeForName(c.Key)
	if !ok {
		in.log.Warn("unknown key %q, skipping", c.Key)
		return nil
	}
	return in.chord(ctx, c.Mods, code)
}

// chord presses modifiers in canonical order, taps the key, then releases
// the modifiers in reverse.
func (in *Interpreter) chord(ctx context.Context, mods key.Modifier, code key.Code) error {
	held := mods.Ordered()
	for _, m := range held {
		if err := in.tapModifier(m, false); err != nil {
			return err
		}
		in.sleep(modTapDelay)
	}

	if err := in.synth.KeyDown(code); err != nil {
		return err
	}
	in.sleep(keyTapDelay)
	if err := in.synth.KeyUp(code); err != nil {
		return err
	}
	in.sleep(keyTapDelay)

	for i := len(held) - 1; i >= 0; i-- {
		if err := in.tapModifier(held[i], true); err != nil {
			return err
		}
		in.sleep(modTapDelay)
	}
	return ctx.Err()
}

func (in *Interpreter) tapModifier(m key.Modifier, release bool) error {
	k, ok := key.ModifierKey(m)
	if !ok {
		return nil
	}
	code, _ := key.CodeFor(k)
	if release {
		return in.synth.KeyUp(code)
	}
	return in.synth.KeyDown(code)
}

// tapNamed taps a named key with no modifiers.
func (in *Interpreter) tapNamed(ctx context.Context, k key.Key) error {
	code, ok := key.CodeFor(k)
	if !ok {
		return nil
	}
	return in.tap(ctx, code)
}

func (in *Interpreter) tap(ctx context.Context, code key.Code) error {
	if err := in.synth.KeyDown(code); err != nil {
		return err
	}
	in.sleep(keyTapDelay)
	if err := in.synth.KeyUp(code); err != nil {
		return err
	}
	in.sleep(keyTapDelay)
	return ctx.Err()
}

// typeText synthesizes text one character at a time.
func (in *Interpreter) typeText(ctx context.Context, text string) error {
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}

		stroke, ok := key.StrokeFor(r)
		if !ok {
			in.log.Warn("cannot type character %q, skipping", r)
			continue
		}

		// Characters on dead-key positions misfire if the OS still thinks
		// a modifier is held, so force-release them all first.
		if key.Risky(r) {
			if err := in.releaseModifiers(); err != nil {
				return err
			}
		}

		var err error
		if stroke.Shift {
			err = in.chord(ctx, key.ModShift, stroke.Code)
		} else {
			err = in.tap(ctx, stroke.Code)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// releaseModifiers sends key-up for every modifier key.
func (in *Interpreter) releaseModifiers() error {
	for _, k := range []key.Key{key.KeyCmd, key.KeyCtrl, key.KeyShift, key.KeyOption} {
		code, _ := key.CodeFor(k)
		if err := in.synth.KeyUp(code); err != nil {
			return err
		}
	}
	return nil
}

// pasteCodeBlock writes each line to the clipboard and pastes it, jumping
// to the start of the line first so editor auto-indent cannot offset it.
func (in *Interpreter) pasteCodeBlock(ctx context.Context, lines []string) error {
	if in.clip == nil {
		return fmt.Errorf("clipboard unavailable")
	}
	vCode, _ := key.CodeForName("v")

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := in.clip.WriteText(strings.TrimRight(line, " \t")); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
		in.sleep(pasteStepDelay)

		if err := in.tapNamed(ctx, key.KeyHome); err != nil {
			return err
		}
		in.sleep(pasteStepDelay)

		if err := in.chord(ctx, key.ModCmd, vCode); err != nil {
			return err
		}
		in.sleep(pasteStepDelay)

		if err := in.tapNamed(ctx, key.KeyReturn); err != nil {
			return err
		}
		in.sleep(pasteStepDelay)
	}
	return nil
}

// pause sleeps unless the context is already cancelled.
func (in *Interpreter) pause(ctx context.Context, d time.Duration) {
	if d <= 0 || ctx.Err() != nil {
		return
	}
	in.sleep(d)
}

// seconds converts a script duration to a Duration, rounding away float
// representation error.
func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// firstLine truncates multi-line command text for log output.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
