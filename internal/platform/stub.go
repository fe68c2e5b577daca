//go:build !windows

package platform

import (
	"github.com/dshills/replaykit/internal/event"
)

// NewTap returns the event tap for this platform.
func NewTap(opts ...TapOption) (event.Tap, error) {
	return nil, event.ErrUnsupported
}

// NewSynthesizer returns the input synthesizer for this platform.
func NewSynthesizer() (Synthesizer, error) {
	return nil, event.ErrUnsupported
}

// NewClipboard returns the system clipboard for this platform.
func NewClipboard() (Clipboard, error) {
	return nil, event.ErrUnsupported
}
