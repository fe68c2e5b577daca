package key

import "strings"

// Key identifies a named non-character key. Character keys are represented
// as KeyRune with the character carried alongside the key.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// KeyRune is a printable character key. The character itself travels
	// separately (see Decode).
	KeyRune

	// Editing and whitespace keys
	KeyReturn
	KeySpace
	KeyTab
	KeyEscape
	KeyBackspace

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Navigation keys
	KeyHome
	KeyEnd

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Modifier keys, as keys in their own right (needed to recognize a
	// lone modifier press during recording).
	KeyCmd
	KeyCtrl
	KeyShift
	KeyOption
)

// keyNames maps keys to their script names. These are the names that appear
// in press commands, so they must stay stable.
var keyNames = map[Key]string{
	KeyReturn:    "return",
	KeySpace:     "space",
	KeyTab:       "tab",
	KeyEscape:    "escape",
	KeyBackspace: "backspace",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
	KeyCmd:       "cmd",
	KeyCtrl:      "ctrl",
	KeyShift:     "shift",
	KeyOption:    "option",
}

// keyAliases maps accepted alternate spellings to canonical keys.
var keyAliases = map[string]Key{
	"enter":   KeyReturn,
	"esc":     KeyEscape,
	"delete":  KeyBackspace,
	"command": KeyCmd,
	"control": KeyCtrl,
	"alt":     KeyOption,
}

// String returns the script name for the key, or "" for KeyNone/KeyRune.
func (k Key) String() string {
	return keyNames[k]
}

// IsModifier returns true if the key is a modifier key.
func (k Key) IsModifier() bool {
	switch k {
	case KeyCmd, KeyCtrl, KeyShift, KeyOption:
		return true
	}
	return false
}

// Parse resolves a script key name (case-insensitive) to a Key.
func Parse(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	if k, ok := keyAliases[name]; ok {
		return k, true
	}
	return KeyNone, false
}
