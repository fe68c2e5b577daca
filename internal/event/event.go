package event

import (
	"fmt"
	"time"

	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
)

// Kind identifies the type of a raw input event.
type Kind uint8

const (
	// KindNone is the zero event kind.
	KindNone Kind = iota
	// KindMouseDown is a mouse button press.
	KindMouseDown
	// KindMouseUp is a mouse button release.
	KindMouseUp
	// KindMouseMove is pointer movement with no button held.
	KindMouseMove
	// KindKeyDown is a key press.
	KindKeyDown
	// KindKeyUp is a key release.
	KindKeyUp
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMouseDown:
		return "mouse-down"
	case KindMouseUp:
		return "mouse-up"
	case KindMouseMove:
		return "mouse-move"
	case KindKeyDown:
		return "key-down"
	case KindKeyUp:
		return "key-up"
	default:
		return "none"
	}
}

// Event is one raw input event as delivered by the OS tap.
type Event struct {
	// Kind identifies the event type.
	Kind Kind

	// Pos is the pointer position for mouse events.
	Pos mouse.Point

	// Button is the pressed or released button for mouse events.
	Button mouse.Button

	// Code is the virtual key code for keyboard events, already translated
	// into the canonical code space by the platform adapter.
	Code key.Code

	// Modifiers holds the modifier keys reported as held at event time.
	Modifiers key.Modifier

	// Time is when the event was captured.
	Time time.Time
}

// IsMouse returns true for mouse events.
func (e Event) IsMouse() bool {
	return e.Kind == KindMouseDown || e.Kind == KindMouseUp || e.Kind == KindMouseMove
}

// IsKey returns true for keyboard events.
func (e Event) IsKey() bool {
	return e.Kind == KindKeyDown || e.Kind == KindKeyUp
}

// String formats the event for diagnostics.
func (e Event) String() string {
	if e.IsMouse() {
		return fmt.Sprintf("%s %s at %s", e.Kind, e.Button, e.Pos)
	}
	return fmt.Sprintf("%s code=%d mods=%s", e.Kind, e.Code, e.Modifiers)
}

// MouseDown builds a button-press event.
func MouseDown(b mouse.Button, x, y int, at time.Time) Event {
	return Event{Kind: KindMouseDown, Button: b, Pos: mouse.Point{X: x, Y: y}, Time: at}
}

// MouseUp builds a button-release event.
func MouseUp(b mouse.Button, x, y int, at time.Time) Event {
	return Event{Kind: KindMouseUp, Button: b, Pos: mouse.Point{X: x, Y: y}, Time: at}
}

// KeyDown builds a key-press event.
func KeyDown(code key.Code, mods key.Modifier, at time.Time) Event {
	return Event{Kind: KindKeyDown, Code: code, Modifiers: mods, Time: at}
}

// KeyUp builds a key-release event.
func KeyUp(code key.Code, mods key.Modifier, at time.Time) Event {
	return Event{Kind: KindKeyUp, Code: code, Modifiers: mods, Time: at}
}
