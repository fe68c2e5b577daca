package key

import "strings"

// Modifier represents held modifier keys as a bit set.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModCmd indicates the Command key.
	ModCmd Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModShift indicates the Shift key.
	ModShift

	// ModOption indicates the Option (Alt) key.
	ModOption
)

// ordered lists modifiers in the order they are written in press commands
// and pressed during playback.
var ordered = []struct {
	mod  Modifier
	name string
}{
	{ModCmd, "cmd"},
	{ModCtrl, "ctrl"},
	{ModShift, "shift"},
	{ModOption, "option"},
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Ordered returns the set modifiers in canonical order (cmd, ctrl, shift,
// option).
func (m Modifier) Ordered() []Modifier {
	var mods []Modifier
	for _, e := range ordered {
		if m.Has(e.mod) {
			mods = append(mods, e.mod)
		}
	}
	return mods
}

// String returns the press-command representation, e.g. "cmd+shift".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	for _, e := range ordered {
		if m.Has(e.mod) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseModifier resolves a single modifier name (case-insensitive).
func ParseModifier(name string) (Modifier, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cmd", "command":
		return ModCmd, true
	case "ctrl", "control":
		return ModCtrl, true
	case "shift":
		return ModShift, true
	case "option", "alt":
		return ModOption, true
	}
	return ModNone, false
}

// ModifierKey returns the Key corresponding to a single modifier flag.
func ModifierKey(mod Modifier) (Key, bool) {
	switch mod {
	case ModCmd:
		return KeyCmd, true
	case ModCtrl:
		return KeyCtrl, true
	case ModShift:
		return KeyShift, true
	case ModOption:
		return KeyOption, true
	}
	return KeyNone, false
}
