package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Virtual-key codes shared by every source. Values follow the AWT/Win32
// layout so letters and digits equal their upper-case ASCII value.
const (
	KeyBackspace = 8
	KeyTab       = 9
	KeyEnter     = 10
	KeyShift     = 16
	KeyControl   = 17
	KeyAlt       = 18
	KeyEscape    = 27
	KeySpace     = 32
	KeyLeft      = 37
	KeyUp        = 38
	KeyRight     = 39
	KeyDown      = 40
	Key0         = 48
	Key9         = 57
	KeyA         = 65
	KeyZ         = 90
	KeyF1        = 112
	KeyF12       = 123
)

// Mouse button codes.
const (
	MouseLeft   = 1
	MouseMiddle = 2
	MouseRight  = 3
)

var ErrUnknownKey = errors.New("unknown key")

var namedKeys = map[string]int{
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"shift":     KeyShift,
	"ctrl":      KeyControl,
	"control":   KeyControl,
	"alt":       KeyAlt,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"space":     KeySpace,
	"left":      KeyLeft,
	"up":        KeyUp,
	"right":     KeyRight,
	"down":      KeyDown,
}

var namedButtons = map[string]int{
	"left":   MouseLeft,
	"middle": MouseMiddle,
	"right":  MouseRight,
}

// ParseKey resolves a key spec such as "A", "space", "f5", "mouse1",
// "mouse:left" or "key:65".
func ParseKey(spec string) (Device, int, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return DeviceNone, CodeNone, fmt.Errorf("%w: empty", ErrUnknownKey)
	}

	if rest, ok := strings.CutPrefix(s, "mouse"); ok {
		rest = strings.TrimPrefix(rest, ":")
		if code, ok := namedButtons[rest]; ok {
			return Mouse, code, nil
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			return Mouse, n, nil
		}
		return DeviceNone, CodeNone, fmt.Errorf("%w: %q", ErrUnknownKey, spec)
	}

	if rest, ok := strings.CutPrefix(s, "key:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return DeviceNone, CodeNone, fmt.Errorf("%w: %q", ErrUnknownKey, spec)
		}
		return Keyboard, n, nil
	}

	if code, ok := namedKeys[s]; ok {
		return Keyboard, code, nil
	}

	if len(s) == 1 {
		c := s[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Keyboard, int(c-'a') + KeyA, nil
		case c >= '0' && c <= '9':
			return Keyboard, int(c-'0') + Key0, nil
		}
	}

	if rest, ok := strings.CutPrefix(s, "f"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 12 {
			return Keyboard, KeyF1 + n - 1, nil
		}
	}

	return DeviceNone, CodeNone, fmt.Errorf("%w: %q", ErrUnknownKey, spec)
}

// KeyName is the inverse of ParseKey for display.
func KeyName(d Device, code int) string {
	switch d {
	case Mouse:
		for name, c := range namedButtons {
			if c == code {
				return "mouse:" + name
			}
		}
		return "mouse:" + strconv.Itoa(code)
	case Keyboard:
		switch {
		case code >= KeyA && code <= KeyZ, code >= Key0 && code <= Key9:
			return string(rune(code))
		case code >= KeyF1 && code <= KeyF12:
			return "F" + strconv.Itoa(code-KeyF1+1)
		}
		switch code {
		case KeyBackspace:
			return "backspace"
		case KeyTab:
			return "tab"
		case KeyEnter:
			return "enter"
		case KeyShift:
			return "shift"
		case KeyControl:
			return "ctrl"
		case KeyAlt:
			return "alt"
		case KeyEscape:
			return "esc"
		case KeySpace:
			return "space"
		case KeyLeft:
			return "left"
		case KeyUp:
			return "up"
		case KeyRight:
			return "right"
		case KeyDown:
			return "down"
		}
		return "key:" + strconv.Itoa(code)
	}
	return "unbound"
}
