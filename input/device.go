// Package input turns asynchronous press, release and pointer notifications
// into per-tick snapshots shared by reference-counted bindings.
package input

import "fmt"

// Device is the closed category a code belongs to.
type Device int

const (
	DeviceNone Device = iota
	Keyboard
	Mouse
)

// CodeNone is reported by an unbound Binding.
const CodeNone = -1

func (d Device) String() string {
	switch d {
	case DeviceNone:
		return "none"
	case Keyboard:
		return "keyboard"
	case Mouse:
		return "mouse"
	default:
		return fmt.Sprintf("device(%d)", int(d))
	}
}

func (d Device) valid() bool {
	return d == Keyboard || d == Mouse
}

func mustDevice(d Device) {
	if !d.valid() {
		panic(fmt.Sprintf("input: invalid device %d", int(d)))
	}
}

// Action is the kind of a key notification.
type Action int

const (
	Press Action = iota
	Release
)

func (a Action) String() string {
	switch a {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}
