//go:build linux

package source

const (
	hasEvdev  = true
	hasHotkey = false
)

func openEvdev(opts Options) (Source, error) {
	return NewEvdev(EvdevOptions{
		Paths:  opts.Devices,
		Width:  opts.Width,
		Height: opts.Height,
	}), nil
}

// golang.design/x/hotkey needs X11 on Linux; evdev covers the same ground.
func openHotkey(Options) (Source, error) {
	return nil, ErrUnsupported
}
