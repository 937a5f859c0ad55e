package source

import (
	"sync"

	"keytick/input"
)

// Fake forwards calls straight to its sink. Calls before Start or after Stop
// are dropped.
type Fake struct {
	mu   sync.Mutex
	sink Sink
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Start(sink Sink) error {
	f.mu.Lock()
	f.sink = sink
	f.mu.Unlock()
	return nil
}

func (f *Fake) Stop() {
	f.mu.Lock()
	f.sink = nil
	f.mu.Unlock()
}

func (f *Fake) current() Sink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sink
}

func (f *Fake) Press(d input.Device, code int) {
	if s := f.current(); s != nil {
		s.OnPress(d, code)
	}
}

func (f *Fake) Release(d input.Device, code int) {
	if s := f.current(); s != nil {
		s.OnRelease(d, code)
	}
}

// Tap is a press immediately followed by a release.
func (f *Fake) Tap(d input.Device, code int) {
	f.Press(d, code)
	f.Release(d, code)
}

func (f *Fake) Move(x, y int) {
	if s := f.current(); s != nil {
		s.OnPointerMove(x, y)
	}
}

func (f *Fake) FocusLost() {
	if s := f.current(); s != nil {
		s.OnFocusLost()
	}
}
