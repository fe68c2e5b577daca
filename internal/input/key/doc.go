// Package key defines the keyboard model shared by the recording and
// playback engines: named special keys, modifier flags, and the static
// virtual key code tables used to decode captured events and to encode
// synthesized ones.
//
// Key codes are expressed in a single canonical code space. Platform
// adapters translate between this space and whatever the OS delivers.
package key
