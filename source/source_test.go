package source

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"keytick/input"
)

// recorder is a Sink that keeps a readable trace of what it received.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recorder) OnPress(d input.Device, code int)   { r.add(fmt.Sprintf("press %s %d", d, code)) }
func (r *recorder) OnRelease(d input.Device, code int) { r.add(fmt.Sprintf("release %s %d", d, code)) }
func (r *recorder) OnPointerMove(x, y int)             { r.add(fmt.Sprintf("move %d %d", x, y)) }
func (r *recorder) OnFocusLost()                       { r.add("blur") }

func (r *recorder) trace() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func assertTrace(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace[%d] = %q, want %q (full %q)", i, got[i], want[i], got)
		}
	}
}

func TestFakeForwards(t *testing.T) {
	rec := &recorder{}
	f := NewFake()

	f.Press(input.Keyboard, input.KeyA) // dropped, not started
	if err := f.Start(rec); err != nil {
		t.Fatal(err)
	}
	f.Tap(input.Keyboard, input.KeyA)
	f.Move(5, 6)
	f.FocusLost()
	f.Stop()
	f.Release(input.Keyboard, input.KeyA) // dropped, stopped

	assertTrace(t, rec.trace(), []string{
		"press keyboard 65",
		"release keyboard 65",
		"move 5 6",
		"blur",
	})
}

func TestFakeDrivesRegistry(t *testing.T) {
	reg := input.NewRegistry()
	b := reg.Bind(input.Mouse, input.MouseLeft)
	f := NewFake()
	if err := f.Start(reg); err != nil {
		t.Fatal(err)
	}

	f.Press(input.Mouse, input.MouseLeft)
	f.Move(10, 20)
	reg.Tick()

	if !b.IsPressed() || !b.IsDown() {
		t.Fatalf("pressed=%v down=%v after press", b.IsPressed(), b.IsDown())
	}
	if x, y := reg.Pointer().Position(); x != 10 || y != 20 {
		t.Errorf("pointer = (%d,%d), want (10,20)", x, y)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open(Options{Kind: "joystick"}); err == nil {
		t.Fatal("expected error for unknown source kind")
	}
}

func TestOpenTerminal(t *testing.T) {
	src, err := Open(Options{Kind: KindTerminal})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*Terminal); !ok {
		t.Fatalf("Open(terminal) = %T, want *Terminal", src)
	}
}

func TestPickKind(t *testing.T) {
	ok := func() (string, error) { return "1 device(s)", nil }
	denied := func() (string, error) { return "", errors.New("permission denied") }

	tests := []struct {
		name     string
		evdev    bool
		hotkeys  bool
		diagnose func() (string, error)
		want     string
	}{
		{"evdev readable", true, false, ok, KindEvdev},
		{"evdev denied", true, false, denied, KindTerminal},
		{"evdev denied with hotkeys", true, true, denied, KindHotkey},
		{"hotkeys only", false, true, ok, KindHotkey},
		{"nothing", false, false, ok, KindTerminal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickKind(tt.evdev, tt.hotkeys, tt.diagnose); got != tt.want {
				t.Errorf("pickKind = %q, want %q", got, tt.want)
			}
		})
	}
}
