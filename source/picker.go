package source

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

var ErrCancelled = errors.New("device selection cancelled")

type pickerKey int

const (
	pickNone pickerKey = iota
	pickUp
	pickDown
	pickConfirm
	pickCancel
)

func decodePickerKey(buf []byte) pickerKey {
	switch {
	case len(buf) == 1:
		switch buf[0] {
		case '\r', '\n':
			return pickConfirm
		case 3, 'q': // Ctrl+C
			return pickCancel
		case 'j':
			return pickDown
		case 'k':
			return pickUp
		}
	case len(buf) == 3 && buf[0] == 0x1b && buf[1] == '[':
		switch buf[2] {
		case 'A':
			return pickUp
		case 'B':
			return pickDown
		}
	}
	return pickNone
}

func moveCursor(cursor, n int, k pickerKey) int {
	switch k {
	case pickUp:
		if cursor > 0 {
			cursor--
		}
	case pickDown:
		if cursor < n-1 {
			cursor++
		}
	}
	return cursor
}

// SelectDevice presents an interactive picker on the controlling terminal.
// A single device is returned without prompting.
func SelectDevice(devices []DeviceInfo) (*DeviceInfo, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("no input devices found")
	}
	if len(devices) == 1 {
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	render := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Select input device (↑/↓, Enter to confirm):\r\n\r\n")
		for i, d := range devices {
			if i == cursor {
				fmt.Printf("  \x1b[1;36m▶ %s \x1b[2m%s (%s)\x1b[0m\r\n", d.Name, d.Path, d.Kind)
			} else {
				fmt.Printf("    %s \x1b[2m%s (%s)\x1b[0m\r\n", d.Name, d.Path, d.Kind)
			}
		}
	}
	render()

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		switch k := decodePickerKey(buf[:n]); k {
		case pickConfirm:
			fmt.Print("\r\n")
			return &devices[cursor], nil
		case pickCancel:
			fmt.Print("\r\n")
			return nil, ErrCancelled
		default:
			cursor = moveCursor(cursor, len(devices), k)
		}

		fmt.Printf("\x1b[%dA", len(devices)+2)
		render()
	}
}
