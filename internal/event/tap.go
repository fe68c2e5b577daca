package event

import "errors"

// StreamSize is the capacity of the tap's delivery channel. The consumer
// runs synchronously per event, so a small buffer absorbs bursts without
// letting the tap fall far behind reality.
const StreamSize = 256

// Tap is the system-wide input capture boundary. Implementations live in
// the platform package; tests use in-memory fakes.
//
// Start begins delivery and returns the event stream. The stream is closed
// when the tap is stopped or fails. Events arriving while the consumer is
// busy are dropped rather than queued without bound.
type Tap interface {
	Start() (<-chan Event, error)
	Stop() error
}

// ErrTapUnavailable indicates the OS refused the input tap, typically
// because the process lacks accessibility/input-monitoring permission.
var ErrTapUnavailable = errors.New("event tap unavailable: grant accessibility permission to this binary and retry")

// ErrUnsupported indicates the current platform has no tap or synthesizer
// implementation.
var ErrUnsupported = errors.New("input capture and synthesis are not supported on this platform")
