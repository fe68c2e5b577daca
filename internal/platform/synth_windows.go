//go:build windows

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseEventLeftDown   = 0x0002
	mouseEventLeftUp     = 0x0004
	mouseEventRightDown  = 0x0008
	mouseEventRightUp    = 0x0010
	mouseEventMiddleDown = 0x0020
	mouseEventMiddleUp   = 0x0040

	keyEventKeyUp = 0x0002

	cfUnicodeText = 13
	gmemMoveable  = 0x0002
)

var (
	procSendInput        = user32.NewProc("SendInput")
	procSetCursorPos     = user32.NewProc("SetCursorPos")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procOpenClipboard    = user32.NewProc("OpenClipboard")
	procCloseClipboard   = user32.NewProc("CloseClipboard")
	procEmptyClipboard   = user32.NewProc("EmptyClipboard")
	procGetClipboardData = user32.NewProc("GetClipboardData")
	procSetClipboardData = user32.NewProc("SetClipboardData")
	procGlobalAlloc      = kernel32.NewProc("GlobalAlloc")
	procGlobalLock       = kernel32.NewProc("GlobalLock")
	procGlobalUnlock     = kernel32.NewProc("GlobalUnlock")
)

// mouseInput is MOUSEINPUT, the largest member of the INPUT union.
type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// keybdInput is KEYBDINPUT, overlaid on the same union space.
type keybdInput struct {
	WVk         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// input is INPUT with the union sized by its largest member.
type input struct {
	Type uint32
	_    uint32
	Mi   mouseInput
}

// synthesizer injects events through SendInput.
type synthesizer struct{}

// NewSynthesizer returns the input synthesizer for this platform.
func NewSynthesizer() (Synthesizer, error) {
	return synthesizer{}, nil
}

func sendInput(in *input) error {
	ret, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(in)), unsafe.Sizeof(*in))
	if ret == 0 {
		return fmt.Errorf("SendInput: %v", err)
	}
	return nil
}

func (synthesizer) MouseMove(p mouse.Point) error {
	ret, _, err := procSetCursorPos.Call(uintptr(p.X), uintptr(p.Y))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos: %v", err)
	}
	return nil
}

func (synthesizer) MouseDown(b mouse.Button) error {
	flag, _, err := buttonFlags(b)
	if err != nil {
		return err
	}
	in := input{Type: inputMouse, Mi: mouseInput{DwFlags: flag}}
	return sendInput(&in)
}

func (synthesizer) MouseUp(b mouse.Button) error {
	_, flag, err := buttonFlags(b)
	if err != nil {
		return err
	}
	in := input{Type: inputMouse, Mi: mouseInput{DwFlags: flag}}
	return sendInput(&in)
}

func buttonFlags(b mouse.Button) (down, up uint32, err error) {
	switch b {
	case mouse.ButtonLeft:
		return mouseEventLeftDown, mouseEventLeftUp, nil
	case mouse.ButtonRight:
		return mouseEventRightDown, mouseEventRightUp, nil
	case mouse.ButtonMiddle:
		return mouseEventMiddleDown, mouseEventMiddleUp, nil
	}
	return 0, 0, fmt.Errorf("unsupported button %v", b)
}

func (synthesizer) KeyDown(c key.Code) error {
	return sendKey(c, 0)
}

func (synthesizer) KeyUp(c key.Code) error {
	return sendKey(c, keyEventKeyUp)
}

func sendKey(c key.Code, flags uint32) error {
	vk, ok := vkForCode(c)
	if !ok {
		return fmt.Errorf("no virtual key for code %d", c)
	}
	var in input
	in.Type = inputKeyboard
	ki := (*keybdInput)(unsafe.Pointer(&in.Mi))
	ki.WVk = vk
	ki.DwFlags = flags
	return sendInput(&in)
}

func (synthesizer) CursorPos() (mouse.Point, error) {
	var p point
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if ret == 0 {
		return mouse.Point{}, fmt.Errorf("GetCursorPos: %v", err)
	}
	return mouse.Point{X: int(p.X), Y: int(p.Y)}, nil
}

// clipboard accesses the system clipboard as UTF-16 text.
type clipboard struct{}

// NewClipboard returns the system clipboard for this platform.
func NewClipboard() (Clipboard, error) {
	return clipboard{}, nil
}

func (clipboard) ReadText() (string, error) {
	ret, _, err := procOpenClipboard.Call(0)
	if ret == 0 {
		return "", fmt.Errorf("OpenClipboard: %v", err)
	}
	defer procCloseClipboard.Call()

	h, _, err := procGetClipboardData.Call(cfUnicodeText)
	if h == 0 {
		return "", fmt.Errorf("GetClipboardData: %v", err)
	}

	ptr, _, err := procGlobalLock.Call(h)
	if ptr == 0 {
		return "", fmt.Errorf("GlobalLock: %v", err)
	}
	defer procGlobalUnlock.Call(h)

	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(ptr))), nil
}

func (clipboard) WriteText(text string) error {
	u16, err := windows.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("encode clipboard text: %w", err)
	}

	ret, _, callErr := procOpenClipboard.Call(0)
	if ret == 0 {
		return fmt.Errorf("OpenClipboard: %v", callErr)
	}
	defer procCloseClipboard.Call()

	procEmptyClipboard.Call()

	size := uintptr(len(u16)) * unsafe.Sizeof(u16[0])
	h, _, callErr := procGlobalAlloc.Call(gmemMoveable, size)
	if h == 0 {
		return fmt.Errorf("GlobalAlloc: %v", callErr)
	}

	ptr, _, callErr := procGlobalLock.Call(h)
	if ptr == 0 {
		return fmt.Errorf("GlobalLock: %v", callErr)
	}
	dst := unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), len(u16))
	copy(dst, u16)
	procGlobalUnlock.Call(h)

	ret, _, callErr = procSetClipboardData.Call(cfUnicodeText, h)
	if ret == 0 {
		return fmt.Errorf("SetClipboardData: %v", callErr)
	}
	return nil
}
