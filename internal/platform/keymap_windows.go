//go:build windows

package platform

import "github.com/dshills/replaykit/internal/input/key"

// Windows virtual key codes for the keys the adapters translate.
const (
	vkBack     = 0x08
	vkTab      = 0x09
	vkReturn   = 0x0D
	vkShift    = 0x10
	vkControl  = 0x11
	vkMenu     = 0x12
	vkEscape   = 0x1B
	vkSpace    = 0x20
	vkEnd      = 0x23
	vkHome     = 0x24
	vkLeft     = 0x25
	vkUp       = 0x26
	vkRight    = 0x27
	vkDown     = 0x28
	vkLWin     = 0x5B
	vkRWin     = 0x5C
	vkF1       = 0x70
	vkLShift   = 0xA0
	vkRShift   = 0xA1
	vkLControl = 0xA2
	vkRControl = 0xA3
	vkLMenu    = 0xA4
	vkRMenu    = 0xA5

	vkOEM1      = 0xBA // ;
	vkOEMPlus   = 0xBB // =
	vkOEMComma  = 0xBC // ,
	vkOEMMinus  = 0xBD // -
	vkOEMPeriod = 0xBE // .
	vkOEM2      = 0xBF // /
	vkOEM3      = 0xC0 // `
	vkOEM4      = 0xDB // [
	vkOEM5      = 0xDC // \
	vkOEM6      = 0xDD // ]
	vkOEM7      = 0xDE // '
)

// namedVKs maps named keys to virtual key codes.
var namedVKs = map[key.Key]uint16{
	key.KeyReturn:    vkReturn,
	key.KeySpace:     vkSpace,
	key.KeyTab:       vkTab,
	key.KeyEscape:    vkEscape,
	key.KeyBackspace: vkBack,
	key.KeyUp:        vkUp,
	key.KeyDown:      vkDown,
	key.KeyLeft:      vkLeft,
	key.KeyRight:     vkRight,
	key.KeyHome:      vkHome,
	key.KeyEnd:       vkEnd,
	key.KeyCmd:       vkLWin,
	key.KeyShift:     vkShift,
	key.KeyOption:    vkMenu,
	key.KeyCtrl:      vkControl,
}

// punctVKs maps base punctuation characters to OEM virtual key codes on a
// US layout.
var punctVKs = map[rune]uint16{
	';': vkOEM1, '=': vkOEMPlus, ',': vkOEMComma, '-': vkOEMMinus,
	'.': vkOEMPeriod, '/': vkOEM2, '`': vkOEM3, '[': vkOEM4,
	'\\': vkOEM5, ']': vkOEM6, '\'': vkOEM7,
}

// vkNamed and vkPunct are the reverse tables, built at init.
var (
	vkNamed = make(map[uint16]key.Key, len(namedVKs))
	vkPunct = make(map[uint16]rune, len(punctVKs))
)

func init() {
	for k, vk := range namedVKs {
		vkNamed[vk] = k
	}
	for r, vk := range punctVKs {
		vkPunct[vk] = r
	}
	for i := 1; i <= 12; i++ {
		vkNamed[uint16(vkF1+i-1)] = key.KeyF1 + key.Key(i-1)
	}
	// Left/right variants normalize to the plain modifier keys.
	vkNamed[vkLShift] = key.KeyShift
	vkNamed[vkRShift] = key.KeyShift
	vkNamed[vkLControl] = key.KeyCtrl
	vkNamed[vkRControl] = key.KeyCtrl
	vkNamed[vkLMenu] = key.KeyOption
	vkNamed[vkRMenu] = key.KeyOption
	vkNamed[vkRWin] = key.KeyCmd
}

// vkForCode translates a canonical key code to a Windows virtual key code.
func vkForCode(c key.Code) (uint16, bool) {
	k, r, ok := key.Decode(c, false)
	if !ok {
		return 0, false
	}
	if k != key.KeyRune {
		vk, ok := namedVKs[k]
		if !ok && k >= key.KeyF1 && k <= key.KeyF12 {
			return uint16(vkF1 + int(k-key.KeyF1)), true
		}
		return vk, ok
	}
	switch {
	case r >= 'a' && r <= 'z':
		return uint16('A' + (r - 'a')), true
	case r >= '0' && r <= '9':
		return uint16(r), true
	}
	vk, ok := punctVKs[r]
	return vk, ok
}

// codeForVK translates a Windows virtual key code back to the canonical
// code space.
func codeForVK(vk uint16) (key.Code, bool) {
	if k, ok := vkNamed[vk]; ok {
		return key.CodeFor(k)
	}
	switch {
	case vk >= 'A' && vk <= 'Z':
		return key.CodeForName(string(rune('a' + (vk - 'A'))))
	case vk >= '0' && vk <= '9':
		return key.CodeForName(string(rune(vk)))
	}
	if r, ok := vkPunct[vk]; ok {
		return key.CodeForName(string(r))
	}
	return 0, false
}
