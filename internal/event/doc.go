// Package event defines the raw input events delivered by the OS tap and
// the tap boundary itself. The tap is a single producer pushing onto a
// bounded channel; the recording engine consumes events synchronously and
// must never block, so any slow work happens after the stream is released.
package event
