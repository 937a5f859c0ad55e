package main

import (
	"fmt"
	"strings"
)

// Display abstracts the presentation layer so the TUI and the plain
// line printer receive the same per-tick snapshots.
type Display interface {
	Snapshot(s Snapshot)
	Notice(text string)
}

type KeyState struct {
	Name     string
	Down     bool
	Pressed  bool
	Released bool
	Presses  int
	Releases int
}

func (k KeyState) edge() bool { return k.Pressed || k.Released }

func (k KeyState) String() string {
	return fmt.Sprintf("%s down=%d pressed=%d released=%d presses=%d releases=%d",
		k.Name, b2i(k.Down), b2i(k.Pressed), b2i(k.Released), k.Presses, k.Releases)
}

type Snapshot struct {
	Tick uint64
	Keys []KeyState
	X, Y int
}

// Lines is one line per bound key followed by the pointer position.
func (s Snapshot) Lines() []string {
	lines := make([]string, 0, len(s.Keys)+1)
	for _, k := range s.Keys {
		lines = append(lines, k.String())
	}
	return append(lines, fmt.Sprintf("pointer %d %d", s.X, s.Y))
}

func (s Snapshot) String() string {
	return fmt.Sprintf("tick %d\n%s", s.Tick, strings.Join(s.Lines(), "\n"))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// lineDisplay prints edges as they happen. Used when the TUI is off.
type lineDisplay struct {
	printf func(format string, args ...any)
}

func (d lineDisplay) Snapshot(s Snapshot) {
	for _, k := range s.Keys {
		if k.edge() {
			d.printf("%6d  %-10s +%d -%d %s\n", s.Tick, k.Name, k.Presses, k.Releases, downWord(k.Down))
		}
	}
}

func (d lineDisplay) Notice(text string) {
	d.printf("%s\n", text)
}

func downWord(down bool) string {
	if down {
		return "down"
	}
	return "up"
}
