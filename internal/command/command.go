// Package command defines the in-memory representation of macro
// instructions and the ordered script they compose into. Commands are
// value types; once appended to a script they are never mutated.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
)

// Command is one macro instruction. The concrete types below are the only
// implementations.
type Command interface {
	// Text returns the script representation of the command. Multi-line
	// commands (code blocks) return embedded newlines.
	Text() string

	isCommand()
}

// Target is a spatial reference: either a named location or a literal
// point. A target with an empty Name is literal.
type Target struct {
	Name  string
	Point mouse.Point
}

// NamedTarget builds a target referencing a saved location.
func NamedTarget(name string) Target {
	return Target{Name: name}
}

// PointTarget builds a literal coordinate target.
func PointTarget(x, y int) Target {
	return Target{Point: mouse.Point{X: x, Y: y}}
}

// IsNamed returns true if the target references a saved location.
func (t Target) IsNamed() bool {
	return t.Name != ""
}

// String returns the script form of the target.
func (t Target) String() string {
	if t.IsNamed() {
		return t.Name
	}
	return fmt.Sprintf("(%d, %d)", t.Point.X, t.Point.Y)
}

// MoveTo moves the pointer to a target with interpolated motion.
type MoveTo struct {
	Target Target
}

// Click presses and releases a button. Location may be empty, meaning
// "click where the pointer already is".
type Click struct {
	Button   mouse.Button
	Location string
}

// ClickAndHold presses a button, holds it for Seconds, then releases.
type ClickAndHold struct {
	Button   mouse.Button
	Location string
	Seconds  float64
}

// Drag presses a button at From, moves to To, and releases.
type Drag struct {
	Button mouse.Button
	From   string
	To     string
}

// Press synthesizes a key, optionally with held modifiers. Key is the
// script key name: a single character ("s") or a named key ("return").
type Press struct {
	Mods key.Modifier
	Key  string
}

// Type synthesizes text character by character.
type Type struct {
	Value string
}

// TypeLine synthesizes text followed by a return.
type TypeLine struct {
	Value string
}

// TypeCodeBlock pastes lines one at a time via the clipboard, preserving
// leading whitespace that per-character synthesis cannot guarantee in
// auto-indenting editors.
type TypeCodeBlock struct {
	Lines []string
}

// Wait sleeps for Seconds.
type Wait struct {
	Seconds float64
}

// Comment is an annotation line. The interpreter skips it.
type Comment struct {
	Value string
}

func (MoveTo) isCommand()        {}
func (Click) isCommand()         {}
func (ClickAndHold) isCommand()  {}
func (Drag) isCommand()          {}
func (Press) isCommand()         {}
func (Type) isCommand()          {}
func (TypeLine) isCommand()      {}
func (TypeCodeBlock) isCommand() {}
func (Wait) isCommand()          {}
func (Comment) isCommand()       {}

// Text renders "move mouse to <target>".
func (c MoveTo) Text() string {
	return "move mouse to " + c.Target.String()
}

// Text renders "<button> click [at <name>]".
func (c Click) Text() string {
	if c.Location == "" {
		return c.Button.String() + " click"
	}
	return fmt.Sprintf("%s click at %s", c.Button, c.Location)
}

// Text renders "<button> click and hold [at <name>] [for <secs>s]".
func (c ClickAndHold) Text() string {
	var b strings.Builder
	b.WriteString(c.Button.String())
	b.WriteString(" click and hold")
	if c.Location != "" {
		b.WriteString(" at ")
		b.WriteString(c.Location)
	}
	if c.Seconds > 0 {
		b.WriteString(" for ")
		b.WriteString(formatSeconds(c.Seconds))
		b.WriteString("s")
	}
	return b.String()
}

// Text renders "drag <button> from <name> to <name>".
func (c Drag) Text() string {
	return fmt.Sprintf("drag %s from %s to %s", c.Button, c.From, c.To)
}

// Text renders "press <mod+...+key>".
func (c Press) Text() string {
	if c.Mods.IsEmpty() {
		return "press " + c.Key
	}
	return fmt.Sprintf("press %s+%s", c.Mods, c.Key)
}

// Text renders `type "<text>"`. The text goes inside the quotes raw, with
// no escaping; the parser strips exactly one outer pair on the way back in.
func (c Type) Text() string {
	return `type "` + c.Value + `"`
}

// Text renders `type line "<text>"`.
func (c TypeLine) Text() string {
	return `type line "` + c.Value + `"`
}

// Text renders the fenced multi-line form.
func (c TypeCodeBlock) Text() string {
	var b strings.Builder
	b.WriteString("type code block\n```\n")
	for _, line := range c.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}

// Text renders "wait <secs>".
func (c Wait) Text() string {
	return "wait " + formatSeconds(c.Seconds)
}

// Text renders "# <text>".
func (c Comment) Text() string {
	if c.Value == "" {
		return "#"
	}
	return "# " + c.Value
}

// formatSeconds renders a duration with no trailing zeros: 0.25, 0.4, 2.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}
