// Package source adapts host input (evdev, global hotkeys, terminal events)
// into press, release, move and focus notifications for a Sink.
package source

import "keytick/input"

// Sink receives notifications from any goroutine. *input.Registry is a Sink.
type Sink interface {
	OnPress(d input.Device, code int)
	OnRelease(d input.Device, code int)
	OnPointerMove(x, y int)
	OnFocusLost()
}

// Source delivers host events to a Sink until stopped.
type Source interface {
	Start(sink Sink) error
	Stop()
}

// DeviceInfo describes one host input device.
type DeviceInfo struct {
	Path string
	Name string
	Kind input.Device
}
