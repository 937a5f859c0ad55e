// Package shutdown ties process termination signals to a context.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// Context is cancelled on the first interrupt or terminate signal. A second
// signal is left to the default handler so a stuck shutdown can be killed.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// Notify relays termination signals to ch.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, signals...)
}

// Hooks run registered cleanup functions once, in reverse order.
type Hooks struct {
	mu   sync.Mutex
	fns  []func()
	once sync.Once
}

func (h *Hooks) Add(fn func()) {
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *Hooks) Run() {
	h.once.Do(func() {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}
