package source

import (
	"sync"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"keytick/input"
)

// Terminal turns bubbletea messages into sink notifications. Terminals report
// no key-up, so every key message is delivered as a press followed by a
// release.
type Terminal struct {
	mu   sync.Mutex
	sink Sink
	held map[int]bool // mouse buttons seen pressed
}

func NewTerminal() *Terminal {
	return &Terminal{held: make(map[int]bool)}
}

func (t *Terminal) Start(sink Sink) error {
	t.mu.Lock()
	t.sink = sink
	t.mu.Unlock()
	return nil
}

func (t *Terminal) Stop() {
	t.mu.Lock()
	t.sink = nil
	t.mu.Unlock()
}

// Feed delivers msg to the sink and reports whether it was an input message.
func (t *Terminal) Feed(msg tea.Msg) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sink == nil {
		return false
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		code, ok := terminalKey(msg)
		if !ok {
			return false
		}
		t.sink.OnPress(input.Keyboard, code)
		t.sink.OnRelease(input.Keyboard, code)
		return true

	case tea.MouseMsg:
		t.sink.OnPointerMove(msg.X, msg.Y)
		switch msg.Action {
		case tea.MouseActionPress:
			if b, ok := terminalButton(msg.Button); ok {
				t.held[b] = true
				t.sink.OnPress(input.Mouse, b)
			}
		case tea.MouseActionRelease:
			if b, ok := terminalButton(msg.Button); ok {
				delete(t.held, b)
				t.sink.OnRelease(input.Mouse, b)
				break
			}
			// X10 mouse reporting does not say which button went up.
			for b := range t.held {
				t.sink.OnRelease(input.Mouse, b)
			}
			clear(t.held)
		}
		return true

	case tea.BlurMsg:
		clear(t.held)
		t.sink.OnFocusLost()
		return true
	}
	return false
}

func terminalButton(b tea.MouseButton) (int, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return input.MouseLeft, true
	case tea.MouseButtonMiddle:
		return input.MouseMiddle, true
	case tea.MouseButtonRight:
		return input.MouseRight, true
	case tea.MouseButtonBackward:
		return 4, true
	case tea.MouseButtonForward:
		return 5, true
	}
	return 0, false
}

var terminalKeys = map[tea.KeyType]int{
	tea.KeySpace:     input.KeySpace,
	tea.KeyEnter:     input.KeyEnter,
	tea.KeyTab:       input.KeyTab,
	tea.KeyEsc:       input.KeyEscape,
	tea.KeyBackspace: input.KeyBackspace,
	tea.KeyUp:        input.KeyUp,
	tea.KeyDown:      input.KeyDown,
	tea.KeyLeft:      input.KeyLeft,
	tea.KeyRight:     input.KeyRight,
	tea.KeyF1:        input.KeyF1,
	tea.KeyF2:        input.KeyF1 + 1,
	tea.KeyF3:        input.KeyF1 + 2,
	tea.KeyF4:        input.KeyF1 + 3,
	tea.KeyF5:        input.KeyF1 + 4,
	tea.KeyF6:        input.KeyF1 + 5,
	tea.KeyF7:        input.KeyF1 + 6,
	tea.KeyF8:        input.KeyF1 + 7,
	tea.KeyF9:        input.KeyF1 + 8,
	tea.KeyF10:       input.KeyF1 + 9,
	tea.KeyF11:       input.KeyF1 + 10,
	tea.KeyF12:       input.KeyF1 + 11,
}

func terminalKey(k tea.KeyMsg) (int, bool) {
	if k.Type == tea.KeyRunes {
		if len(k.Runes) != 1 {
			return 0, false
		}
		r := unicode.ToUpper(k.Runes[0])
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return int(r), true
		case r == ' ':
			return input.KeySpace, true
		}
		return 0, false
	}
	code, ok := terminalKeys[k.Type]
	return code, ok
}
