//go:build !linux

package source

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"keytick/input"
)

// Global hotkeys swallow the key system-wide, so codes are registered as
// Ctrl+Shift+<key> unless bare registration is asked for.
var hotkeyMods = []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}

var hotkeyKeys = map[int]hotkey.Key{
	input.KeySpace:  hotkey.KeySpace,
	input.KeyEnter:  hotkey.KeyReturn,
	input.KeyEscape: hotkey.KeyEscape,
	input.KeyTab:    hotkey.KeyTab,
	input.KeyLeft:   hotkey.KeyLeft,
	input.KeyRight:  hotkey.KeyRight,
	input.KeyUp:     hotkey.KeyUp,
	input.KeyDown:   hotkey.KeyDown,

	'A': hotkey.KeyA, 'B': hotkey.KeyB, 'C': hotkey.KeyC, 'D': hotkey.KeyD,
	'E': hotkey.KeyE, 'F': hotkey.KeyF, 'G': hotkey.KeyG, 'H': hotkey.KeyH,
	'I': hotkey.KeyI, 'J': hotkey.KeyJ, 'K': hotkey.KeyK, 'L': hotkey.KeyL,
	'M': hotkey.KeyM, 'N': hotkey.KeyN, 'O': hotkey.KeyO, 'P': hotkey.KeyP,
	'Q': hotkey.KeyQ, 'R': hotkey.KeyR, 'S': hotkey.KeyS, 'T': hotkey.KeyT,
	'U': hotkey.KeyU, 'V': hotkey.KeyV, 'W': hotkey.KeyW, 'X': hotkey.KeyX,
	'Y': hotkey.KeyY, 'Z': hotkey.KeyZ,

	'0': hotkey.Key0, '1': hotkey.Key1, '2': hotkey.Key2, '3': hotkey.Key3,
	'4': hotkey.Key4, '5': hotkey.Key5, '6': hotkey.Key6, '7': hotkey.Key7,
	'8': hotkey.Key8, '9': hotkey.Key9,

	input.KeyF1:      hotkey.KeyF1,
	input.KeyF1 + 1:  hotkey.KeyF2,
	input.KeyF1 + 2:  hotkey.KeyF3,
	input.KeyF1 + 3:  hotkey.KeyF4,
	input.KeyF1 + 4:  hotkey.KeyF5,
	input.KeyF1 + 5:  hotkey.KeyF6,
	input.KeyF1 + 6:  hotkey.KeyF7,
	input.KeyF1 + 7:  hotkey.KeyF8,
	input.KeyF1 + 8:  hotkey.KeyF9,
	input.KeyF1 + 9:  hotkey.KeyF10,
	input.KeyF1 + 10: hotkey.KeyF11,
	input.KeyF1 + 11: hotkey.KeyF12,
}

// Hotkey reports keyboard codes through OS-level global hotkeys.
type Hotkey struct {
	codes []int
	mods  []hotkey.Modifier

	mu   sync.Mutex
	hks  []*hotkey.Hotkey
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewHotkey(codes []int, bare bool) *Hotkey {
	h := &Hotkey{codes: codes, mods: hotkeyMods}
	if bare {
		h.mods = nil
	}
	return h
}

func (h *Hotkey) Start(sink Sink) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.codes) == 0 {
		return fmt.Errorf("hotkey source needs at least one key")
	}
	h.stop = make(chan struct{})
	for _, code := range h.codes {
		key, ok := hotkeyKeys[code]
		if !ok {
			h.unregisterLocked()
			return fmt.Errorf("%s cannot be registered as a global hotkey", input.KeyName(input.Keyboard, code))
		}
		hk := hotkey.New(h.mods, key)
		if err := hk.Register(); err != nil {
			h.unregisterLocked()
			return fmt.Errorf("registering %s: %w", input.KeyName(input.Keyboard, code), err)
		}
		h.hks = append(h.hks, hk)
		h.wg.Add(1)
		go h.forward(hk.Keydown(), hk.Keyup(), code, sink, h.stop)
	}
	return nil
}

func (h *Hotkey) forward(down, up <-chan hotkey.Event, code int, sink Sink, stop <-chan struct{}) {
	defer h.wg.Done()
	for {
		select {
		case <-stop:
			return
		case <-down:
			sink.OnPress(input.Keyboard, code)
		case <-up:
			sink.OnRelease(input.Keyboard, code)
		}
	}
}

func (h *Hotkey) unregisterLocked() {
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
	for _, hk := range h.hks {
		hk.Unregister()
	}
	h.hks = nil
}

// Stop unregisters every hotkey and waits for the forwarders to exit.
func (h *Hotkey) Stop() {
	h.mu.Lock()
	h.unregisterLocked()
	h.mu.Unlock()
	h.wg.Wait()
}

const (
	hasEvdev  = false
	hasHotkey = true
)

func openEvdev(Options) (Source, error) {
	return nil, ErrUnsupported
}

func openHotkey(opts Options) (Source, error) {
	return NewHotkey(opts.Keys, opts.BareHotkeys), nil
}

// Devices is empty where evdev is unavailable.
func Devices() ([]DeviceInfo, error) {
	return nil, nil
}

func Diagnose() (string, error) {
	return "global hotkeys available (Ctrl+Shift+<key>)", nil
}
