package source

import (
	"errors"
	"fmt"
)

var ErrUnsupported = errors.New("source not supported on this platform")

const (
	KindEvdev    = "evdev"
	KindHotkey   = "hotkey"
	KindTerminal = "terminal"
)

type Options struct {
	Kind    string
	Devices []string // evdev node paths or device names
	Keys    []int    // keyboard codes to register as hotkeys
	Width   int
	Height  int

	// BareHotkeys registers hotkeys without the Ctrl+Shift modifiers.
	BareHotkeys bool
}

// DefaultKind picks a source when none is configured: evdev when input
// devices can be opened, then global hotkeys where the platform has them,
// then the terminal.
func DefaultKind() string {
	return pickKind(hasEvdev, hasHotkey, Diagnose)
}

func pickKind(evdev, hotkeys bool, diagnose func() (string, error)) string {
	if evdev {
		if _, err := diagnose(); err == nil {
			return KindEvdev
		}
	}
	if hotkeys {
		return KindHotkey
	}
	return KindTerminal
}

// Open builds the named source. The terminal source is returned as a
// *Terminal so the caller can feed it UI messages.
func Open(opts Options) (Source, error) {
	switch opts.Kind {
	case KindEvdev:
		return openEvdev(opts)
	case KindHotkey:
		return openHotkey(opts)
	case KindTerminal:
		return NewTerminal(), nil
	}
	return nil, fmt.Errorf("unknown source %q (want %s, %s or %s)", opts.Kind, KindEvdev, KindHotkey, KindTerminal)
}
