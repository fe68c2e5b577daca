// Package platform provides the OS-specific input adapters: the event tap
// that captures raw input, the synthesizer that injects it, and the system
// clipboard. All adapters speak the canonical key code space; translation
// to native virtual key codes happens inside each adapter.
package platform

import (
	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
)

// TapOption configures a tap created by NewTap.
type TapOption func(*tapOptions)

type tapOptions struct {
	suppress func(event.Event) bool
}

// WithSuppression makes the tap swallow events the predicate matches
// instead of letting the OS pass them on. Trigger events are consumed
// this way so the foreground application never sees them.
func WithSuppression(pred func(event.Event) bool) TapOption {
	return func(o *tapOptions) { o.suppress = pred }
}

// Synthesizer injects input events into the OS. Mouse buttons act at the
// current cursor position; callers move first.
type Synthesizer interface {
	// MouseMove warps the cursor to p.
	MouseMove(p mouse.Point) error

	// MouseDown presses a button at the current cursor position.
	MouseDown(b mouse.Button) error

	// MouseUp releases a button at the current cursor position.
	MouseUp(b mouse.Button) error

	// KeyDown presses the key identified by a canonical code.
	KeyDown(c key.Code) error

	// KeyUp releases the key identified by a canonical code.
	KeyUp(c key.Code) error

	// CursorPos reports the current cursor position.
	CursorPos() (mouse.Point, error)
}

// Clipboard is the system clipboard, used to paste code blocks with their
// indentation intact.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}
