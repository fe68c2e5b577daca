package recorder

import (
	"math"
	"strings"
	"time"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
	"github.com/dshills/replaykit/internal/location"
	"github.com/dshills/replaykit/internal/logging"
)

const (
	// pauseThreshold is the idle gap beyond which buffered text is flushed
	// and a wait command may be recorded.
	pauseThreshold = 500 * time.Millisecond

	// holdThreshold separates a quick click from a hold or drag.
	holdThreshold = 500 * time.Millisecond

	// settleSeconds is the fixed safety delay recorded after every mouse
	// action and after return, giving the UI time to react on replay.
	settleSeconds = 0.25
)

// Transition reports what a handled event did to the recording state.
type Transition uint8

const (
	// TransitionNone means recording state did not change.
	TransitionNone Transition = iota
	// TransitionStarted means the trigger switched the encoder to active.
	TransitionStarted
	// TransitionStopped means the trigger ended the session; the result is
	// ready to be collected.
	TransitionStopped
)

// pendingDown tracks a mouse press until its release classifies the action.
type pendingDown struct {
	at       time.Time
	button   mouse.Button
	location string
}

// Encoder converts raw input events into script commands. It is driven
// from a single dispatch goroutine and performs no blocking work.
type Encoder struct {
	log  *logging.Logger
	locs *location.Table

	active        bool
	startTime     time.Time
	stopTime      time.Time
	lastEventTime time.Time
	textBuf       []rune
	pending       *pendingDown
	lastClick     string
	commands      command.Script
	newLocations  int
}

// New creates an encoder recording against the given location table. The
// table may already hold locations from a previous recording; clicks near
// them reuse their names.
func New(locs *location.Table, log *logging.Logger) *Encoder {
	if log == nil {
		log = logging.NullLogger
	}
	return &Encoder{log: log, locs: locs}
}

// Active returns true while a recording session is in progress.
func (e *Encoder) Active() bool {
	return e.active
}

// Result holds a finished recording session.
type Result struct {
	Script       command.Script
	Started      time.Time
	Duration     time.Duration
	NewLocations int
}

// Result returns the finished session after a TransitionStopped.
func (e *Encoder) Result() *Result {
	return &Result{
		Script:       e.commands,
		Started:      e.startTime,
		Duration:     e.stopTime.Sub(e.startTime),
		NewLocations: e.newLocations,
	}
}

// IsTrigger reports whether ev belongs to the recording toggle. Trigger
// events are consumed by the encoder and suppressed at the tap so other
// applications never see them.
func IsTrigger(ev event.Event) bool {
	return (ev.Kind == event.KindMouseDown || ev.Kind == event.KindMouseUp) &&
		ev.Button == mouse.ButtonMiddle
}

// Handle consumes one raw input event and updates the session. The
// middle-mouse trigger toggles recording and is always consumed, never
// encoded.
func (e *Encoder) Handle(ev event.Event) Transition {
	if IsTrigger(ev) {
		if ev.Kind == event.KindMouseDown {
			return e.toggle(ev.Time)
		}
		return TransitionNone
	}
	if !e.active || ev.Kind == event.KindMouseMove {
		return TransitionNone
	}

	e.recordIdleGap(ev.Time)
	e.lastEventTime = ev.Time

	switch ev.Kind {
	case event.KindMouseDown:
		e.handleMouseDown(ev)
	case event.KindMouseUp:
		e.handleMouseUp(ev)
	case event.KindKeyDown:
		e.handleKeyDown(ev)
	}
	return TransitionNone
}

// toggle flips the encoder between idle and active.
func (e *Encoder) toggle(at time.Time) Transition {
	if !e.active {
		e.active = true
		e.startTime = at
		e.lastEventTime = at
		e.textBuf = nil
		e.pending = nil
		e.lastClick = ""
		e.commands = nil
		e.newLocations = 0
		e.log.Info("recording started")
		return TransitionStarted
	}

	e.active = false
	e.stopTime = at
	e.flushText()
	e.log.Info("recording stopped: %d commands, %d new locations",
		len(e.commands), e.newLocations)
	return TransitionStopped
}

// recordIdleGap compresses real idle time into a short bounded wait. Text
// is flushed first so the pause lands between commands, and a wait is only
// recorded when there is already something to wait after.
func (e *Encoder) recordIdleGap(now time.Time) {
	gap := now.Sub(e.lastEventTime)
	if gap <= pauseThreshold {
		return
	}

	e.flushText()
	if len(e.commands) == 0 {
		return
	}

	var secs float64
	switch {
	case gap >= 2*time.Second:
		secs = 0.6
	case gap >= time.Second:
		secs = 0.4
	default:
		secs = 0.25
	}
	e.commands = append(e.commands, command.Wait{Seconds: secs})
}

func (e *Encoder) handleMouseDown(ev event.Event) {
	if ev.Button != mouse.ButtonLeft && ev.Button != mouse.ButtonRight {
		return
	}

	e.flushText()

	name := e.resolveLocation(ev.Pos)

	// A click somewhere new implies pointer travel; record the move so
	// replay drives the cursor instead of teleporting it.
	if e.lastClick != "" && e.lastClick != name {
		e.commands = append(e.commands, command.MoveTo{Target: command.NamedTarget(name)})
	}

	e.pending = &pendingDown{at: ev.Time, button: ev.Button, location: name}
}

func (e *Encoder) handleMouseUp(ev event.Event) {
	if e.pending == nil {
		return
	}
	if ev.Button != e.pending.button {
		return
	}

	upName := e.resolveLocation(ev.Pos)
	hold := ev.Time.Sub(e.pending.at)

	var cmd command.Command
	switch {
	case hold > holdThreshold && upName == e.pending.location:
		cmd = command.ClickAndHold{
			Button:   e.pending.button,
			Location: e.pending.location,
			Seconds:  roundTenth(hold.Seconds()),
		}
	case hold > holdThreshold:
		cmd = command.Drag{Button: e.pending.button, From: e.pending.location, To: upName}
	default:
		cmd = command.Click{Button: e.pending.button, Location: e.pending.location}
	}

	e.commands = append(e.commands, cmd, command.Wait{Seconds: settleSeconds})
	e.log.Debug("recorded %s", cmd.Text())

	e.lastClick = upName
	e.pending = nil
}

func (e *Encoder) handleKeyDown(ev event.Event) {
	if e.handleCombination(ev) {
		return
	}

	k, r, ok := key.Decode(ev.Code, ev.Modifiers.Has(key.ModShift))
	if !ok || k.IsModifier() {
		return
	}

	if k == key.KeyRune {
		// Printable character: batch silently, no command yet.
		e.textBuf = append(e.textBuf, r)
		return
	}

	// Backspace edits the text buffer in place instead of being recorded,
	// so typos never reach the script.
	if k == key.KeyBackspace && len(e.textBuf) > 0 {
		e.textBuf = e.textBuf[:len(e.textBuf)-1]
		return
	}

	e.flushText()
	e.commands = append(e.commands, command.Press{Key: k.String()})
	if k == key.KeyReturn {
		e.commands = append(e.commands, command.Wait{Seconds: settleSeconds})
	}
}

// handleCombination records cmd/ctrl key combinations as press commands.
// Shift and option participate only as additional modifiers; a shifted
// letter on its own is text, not a combination.
func (e *Encoder) handleCombination(ev event.Event) bool {
	if !ev.Modifiers.Has(key.ModCmd) && !ev.Modifiers.Has(key.ModCtrl) {
		return false
	}
	if key.IsModifierCode(ev.Code) {
		return false
	}

	k, r, ok := key.Decode(ev.Code, false)
	if !ok {
		return false
	}

	name := k.String()
	if k == key.KeyRune {
		name = string(r)
	}

	e.flushText()
	cmd := command.Press{Mods: ev.Modifiers, Key: name}
	e.commands = append(e.commands, cmd)
	e.log.Debug("recorded %s", cmd.Text())
	return true
}

// resolveLocation matches the point against the table or registers a new
// auto-named location.
func (e *Encoder) resolveLocation(p mouse.Point) string {
	name, isNew := e.locs.ResolveOrRegister(p.X, p.Y)
	if isNew {
		e.newLocations++
		e.log.Info("saved new location %q at %s", name, p)
	}
	return name
}

// flushText converts buffered keystrokes into a type command. Text with
// newlines becomes a fenced code block so indentation survives replay.
func (e *Encoder) flushText() {
	text := strings.TrimSpace(string(e.textBuf))
	e.textBuf = nil
	if text == "" {
		return
	}

	if strings.Contains(text, "\n") {
		e.commands = append(e.commands, command.TypeCodeBlock{Lines: strings.Split(text, "\n")})
	} else {
		e.commands = append(e.commands, command.Type{Value: text})
	}
}

// roundTenth rounds a duration in seconds to one decimal, matching the
// script's hold precision.
func roundTenth(s float64) float64 {
	return math.Round(s*10) / 10
}
