// Package player executes macro scripts against the input synthesizer.
// Pointer motion is interpolated rather than warped, text is synthesized
// character by character, and code blocks are pasted line by line through
// the clipboard so editor auto-indent cannot mangle them.
package player
