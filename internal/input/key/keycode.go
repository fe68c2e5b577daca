package key

import "unicode"

// Code is a virtual key code in the canonical code space used on the wire
// between the event tap, the engines, and the synthesizer. Platform
// adapters translate their native codes to and from this space.
type Code uint16

// CodeNone is returned for unmappable keys. It is deliberately outside the
// canonical code range.
const CodeNone Code = 0xFFFF

// specialCodes maps named keys to their virtual key codes.
var specialCodes = map[Key]Code{
	KeyReturn:    36,
	KeySpace:     49,
	KeyTab:       48,
	KeyEscape:    53,
	KeyBackspace: 51,
	KeyUp:        126,
	KeyDown:      125,
	KeyLeft:      123,
	KeyRight:     124,
	KeyHome:      115,
	KeyEnd:       119,
	KeyF1:        122,
	KeyF2:        120,
	KeyF3:        99,
	KeyF4:        118,
	KeyF5:        96,
	KeyF6:        97,
	KeyF7:        98,
	KeyF8:        100,
	KeyF9:        101,
	KeyF10:       109,
	KeyF11:       103,
	KeyF12:       111,
	KeyCmd:       55,
	KeyShift:     56,
	KeyOption:    58,
	KeyCtrl:      59,
}

// codeSpecials is the reverse of specialCodes, built at init.
var codeSpecials = make(map[Code]Key, len(specialCodes))

// charCodes maps base (unshifted) characters to virtual key codes.
var charCodes = map[rune]Code{
	'a': 0, 'b': 11, 'c': 8, 'd': 2, 'e': 14, 'f': 3, 'g': 5, 'h': 4,
	'i': 34, 'j': 38, 'k': 40, 'l': 37, 'm': 46, 'n': 45, 'o': 31, 'p': 35,
	'q': 12, 'r': 15, 's': 1, 't': 17, 'u': 32, 'v': 9, 'w': 13, 'x': 7,
	'y': 16, 'z': 6,
	'1': 18, '2': 19, '3': 20, '4': 21, '5': 23, '6': 22, '7': 26, '8': 28,
	'9': 25, '0': 29,
	'.': 47, ',': 43, '/': 44, ';': 41, '\'': 39, '[': 33, ']': 30,
	'\\': 42, '-': 27, '=': 24, '`': 50,
}

// codeChars is the reverse of charCodes, built at init.
var codeChars = make(map[Code]rune, len(charCodes))

// shiftedRunes maps a base character to the character produced with Shift
// held on a US layout.
var shiftedRunes = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', '\\': '|',
	';': ':', '\'': '"', ',': '<', '.': '>', '/': '?',
	'`': '~',
}

// shiftBase is the reverse of shiftedRunes, built at init.
var shiftBase = make(map[rune]rune, len(shiftedRunes))

func init() {
	for k, c := range specialCodes {
		codeSpecials[c] = k
	}
	for r, c := range charCodes {
		codeChars[c] = r
	}
	for base, shifted := range shiftedRunes {
		shiftBase[shifted] = base
	}
	// Backspace and modifier codes shadow nothing in the char table, but
	// the special table wins during decode regardless.
}

// CodeFor returns the virtual key code for a named key.
func CodeFor(k Key) (Code, bool) {
	c, ok := specialCodes[k]
	if !ok {
		return CodeNone, false
	}
	return c, true
}

// CodeForName resolves a press-command key name to a code. Single-character
// names resolve through the character table, everything else through the
// named key table.
func CodeForName(name string) (Code, bool) {
	if k, ok := Parse(name); ok {
		return CodeFor(k)
	}
	runes := []rune(name)
	if len(runes) == 1 {
		if c, ok := charCodes[unicode.ToLower(runes[0])]; ok {
			return c, true
		}
	}
	return CodeNone, false
}

// IsModifierCode returns true for the codes of lone modifier keys.
func IsModifierCode(c Code) bool {
	switch codeSpecials[c] {
	case KeyCmd, KeyCtrl, KeyShift, KeyOption:
		return true
	}
	return false
}

// Decode maps a captured key code and shift state to either a named key or
// a printable character. Named keys win over characters, matching the
// recording table: space and tab are treated as named keys, not text.
func Decode(c Code, shift bool) (Key, rune, bool) {
	if k, ok := codeSpecials[c]; ok {
		return k, 0, true
	}
	r, ok := codeChars[c]
	if !ok {
		return KeyNone, 0, false
	}
	if shift {
		if unicode.IsLetter(r) {
			return KeyRune, unicode.ToUpper(r), true
		}
		if shifted, ok := shiftedRunes[r]; ok {
			return KeyRune, shifted, true
		}
	}
	return KeyRune, r, true
}

// Stroke describes how to synthesize one printable character.
type Stroke struct {
	Code  Code
	Shift bool
}

// StrokeFor returns the key stroke that produces the given character.
// Whitespace maps to the corresponding named keys.
func StrokeFor(r rune) (Stroke, bool) {
	switch r {
	case ' ':
		return Stroke{Code: specialCodes[KeySpace]}, true
	case '\n':
		return Stroke{Code: specialCodes[KeyReturn]}, true
	case '\t':
		return Stroke{Code: specialCodes[KeyTab]}, true
	}
	if base, ok := shiftBase[r]; ok {
		return Stroke{Code: charCodes[base], Shift: true}, true
	}
	if unicode.IsUpper(r) {
		if c, ok := charCodes[unicode.ToLower(r)]; ok {
			return Stroke{Code: c, Shift: true}, true
		}
		return Stroke{}, false
	}
	if c, ok := charCodes[r]; ok {
		return Stroke{Code: c}, true
	}
	return Stroke{}, false
}

// riskyRunes are characters whose key positions double as dead keys on the
// platform's secondary (option) layer. Synthesizing them while a stale
// modifier is still reported as held can pop the OS symbol picker, so the
// typing engine force-releases all modifiers first.
var riskyRunes = map[rune]bool{
	'`': true, 'e': true, 'i': true, 'n': true, 'u': true,
}

// Risky reports whether the typing engine should force-release modifiers
// before synthesizing the character.
func Risky(r rune) bool {
	return riskyRunes[unicode.ToLower(r)]
}
