//go:build windows

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/dshills/replaykit/internal/event"
	"github.com/dshills/replaykit/internal/input/key"
	"github.com/dshills/replaykit/internal/input/mouse"
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmQuit        = 0x0012
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
	procGetCurrentThreadID  = kernel32.NewProc("GetCurrentThreadId")
)

type point struct {
	X, Y int32
}

type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// tap captures global input with low-level hooks. The hooks and the
// message loop that drives them must live on one locked OS thread.
type tap struct {
	mu           sync.Mutex
	events       chan event.Event
	suppress     func(event.Event) bool
	mouseHook    uintptr
	keyboardHook uintptr
	threadID     uint32
	running      bool
	done         chan struct{}
}

// NewTap returns the event tap for this platform.
func NewTap(opts ...TapOption) (event.Tap, error) {
	var o tapOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &tap{suppress: o.suppress}, nil
}

// Start installs the hooks and begins delivering events.
func (t *tap) Start() (<-chan event.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil, fmt.Errorf("tap already started")
	}

	t.events = make(chan event.Event, event.StreamSize)
	t.done = make(chan struct{})

	ready := make(chan error, 1)
	go t.run(ready)
	if err := <-ready; err != nil {
		return nil, err
	}

	t.running = true
	return t.events, nil
}

// Stop removes the hooks and closes the event channel.
func (t *tap) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	procPostThreadMessage.Call(uintptr(t.threadID), wmQuit, 0, 0)
	<-t.done
	t.running = false
	return nil
}

// run owns the hook thread: install, pump messages, uninstall.
func (t *tap) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tid, _, _ := procGetCurrentThreadID.Call()
	t.threadID = uint32(tid)

	mouseHook, _, err := procSetWindowsHookEx.Call(
		whMouseLL, syscall.NewCallback(t.mouseProc), 0, 0)
	if mouseHook == 0 {
		ready <- fmt.Errorf("%w: mouse hook: %v", event.ErrTapUnavailable, err)
		return
	}
	keyboardHook, _, err := procSetWindowsHookEx.Call(
		whKeyboardLL, syscall.NewCallback(t.keyboardProc), 0, 0)
	if keyboardHook == 0 {
		procUnhookWindowsHookEx.Call(mouseHook)
		ready <- fmt.Errorf("%w: keyboard hook: %v", event.ErrTapUnavailable, err)
		return
	}
	t.mouseHook = mouseHook
	t.keyboardHook = keyboardHook
	ready <- nil

	var m msg
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if ret == 0 || int32(ret) == -1 {
			break
		}
	}

	procUnhookWindowsHookEx.Call(t.mouseHook)
	procUnhookWindowsHookEx.Call(t.keyboardHook)
	t.mouseHook = 0
	t.keyboardHook = 0
	close(t.events)
	close(t.done)
}

// deliver forwards an event without ever blocking the hook callback. A
// full buffer drops the event; a stalled consumer must not freeze global
// input.
func (t *tap) deliver(ev event.Event) {
	select {
	case t.events <- ev:
	default:
	}
}

func (t *tap) mouseProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		info := (*msllHookStruct)(unsafe.Pointer(lParam))
		pos := mouse.Point{X: int(info.Pt.X), Y: int(info.Pt.Y)}
		now := time.Now()

		var ev event.Event
		switch wParam {
		case wmLButtonDown:
			ev = event.MouseDown(mouse.ButtonLeft, pos.X, pos.Y, now)
		case wmLButtonUp:
			ev = event.MouseUp(mouse.ButtonLeft, pos.X, pos.Y, now)
		case wmRButtonDown:
			ev = event.MouseDown(mouse.ButtonRight, pos.X, pos.Y, now)
		case wmRButtonUp:
			ev = event.MouseUp(mouse.ButtonRight, pos.X, pos.Y, now)
		case wmMButtonDown:
			ev = event.MouseDown(mouse.ButtonMiddle, pos.X, pos.Y, now)
		case wmMButtonUp:
			ev = event.MouseUp(mouse.ButtonMiddle, pos.X, pos.Y, now)
		case wmMouseMove:
			ev = event.Event{Kind: event.KindMouseMove, Pos: pos, Time: now}
		}
		if ev.Kind != event.KindNone {
			t.deliver(ev)
			// Swallow trigger events so the foreground app never sees them.
			if t.suppress != nil && t.suppress(ev) {
				return 1
			}
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func (t *tap) keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		info := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		now := time.Now()

		if code, ok := codeForVK(uint16(info.VkCode)); ok {
			mods := heldModifiers()
			var ev event.Event
			switch wParam {
			case wmKeyDown, wmSysKeyDown:
				ev = event.KeyDown(code, mods, now)
			case wmKeyUp, wmSysKeyUp:
				ev = event.KeyUp(code, mods, now)
			}
			if ev.Kind != event.KindNone {
				t.deliver(ev)
				if t.suppress != nil && t.suppress(ev) {
					return 1
				}
			}
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// heldModifiers samples the async key state for the four modifiers.
func heldModifiers() key.Modifier {
	var mods key.Modifier
	if keyHeld(vkShift) {
		mods = mods.With(key.ModShift)
	}
	if keyHeld(vkControl) {
		mods = mods.With(key.ModCtrl)
	}
	if keyHeld(vkMenu) {
		mods = mods.With(key.ModOption)
	}
	if keyHeld(vkLWin) || keyHeld(vkRWin) {
		mods = mods.With(key.ModCmd)
	}
	return mods
}

func keyHeld(vk uint16) bool {
	state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return state&0x8000 != 0
}
