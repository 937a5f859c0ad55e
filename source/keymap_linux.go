//go:build linux

package source

import "keytick/input"

// evdev codes outside this table are passed through above this offset so they
// never collide with virtual-key codes.
const rawCodeOffset = 0x10000

var evdevKeys = map[uint16]int{
	1:   input.KeyEscape,
	14:  input.KeyBackspace,
	15:  input.KeyTab,
	28:  input.KeyEnter,
	96:  input.KeyEnter, // keypad enter
	29:  input.KeyControl,
	97:  input.KeyControl,
	42:  input.KeyShift,
	54:  input.KeyShift,
	56:  input.KeyAlt,
	100: input.KeyAlt,
	57:  input.KeySpace,
	103: input.KeyUp,
	105: input.KeyLeft,
	106: input.KeyRight,
	108: input.KeyDown,
	87:  input.KeyF1 + 10,
	88:  input.KeyF1 + 11,
}

func init() {
	// KEY_1..KEY_9, KEY_0
	for i := 0; i < 9; i++ {
		evdevKeys[uint16(2+i)] = input.Key0 + 1 + i
	}
	evdevKeys[11] = input.Key0

	rows := []struct {
		first uint16
		keys  string
	}{
		{16, "QWERTYUIOP"},
		{30, "ASDFGHJKL"},
		{44, "ZXCVBNM"},
	}
	for _, r := range rows {
		for i, c := range r.keys {
			evdevKeys[r.first+uint16(i)] = int(c)
		}
	}

	// KEY_F1..KEY_F10
	for i := 0; i < 10; i++ {
		evdevKeys[uint16(59+i)] = input.KeyF1 + i
	}
}

// Mouse buttons start at BTN_MOUSE.
const (
	btnMouse  = 0x110
	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
	btnTask   = 0x117
)

func translateKey(code uint16) (input.Device, int, bool) {
	switch {
	case code >= btnMouse && code <= btnTask:
		switch code {
		case btnLeft:
			return input.Mouse, input.MouseLeft, true
		case btnRight:
			return input.Mouse, input.MouseRight, true
		case btnMiddle:
			return input.Mouse, input.MouseMiddle, true
		}
		return input.Mouse, int(code-btnMouse) + 1, true
	case code >= 0x100:
		// joystick, digitizer and other BTN_* ranges
		return input.DeviceNone, 0, false
	}
	if vk, ok := evdevKeys[code]; ok {
		return input.Keyboard, vk, true
	}
	return input.Keyboard, rawCodeOffset | int(code), true
}
