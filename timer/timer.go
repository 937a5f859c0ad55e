// Package timer runs an action at a fixed rate, catching up on periods missed
// while the process was busy or descheduled.
package timer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxCatchUp bounds how many missed periods are replayed at once.
const DefaultMaxCatchUp = 5

type Timer struct {
	period time.Duration
	action func()

	// MaxCatchUp caps back-to-back runs after a stall. Periods beyond it are
	// dropped and counted as overruns. Set before Start.
	MaxCatchUp int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	runs     atomic.Uint64
	overruns atomic.Uint64
}

func New(period time.Duration, action func()) *Timer {
	if period <= 0 {
		panic("timer: non-positive period")
	}
	return &Timer{period: period, action: action, MaxCatchUp: DefaultMaxCatchUp}
}

func (t *Timer) Period() time.Duration { return t.period }

// Start runs the timer on its own goroutine. It returns false if the timer is
// already running.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	go func() {
		defer close(done)
		t.Run(ctx)
	}()
	return true
}

// Stop halts a started timer and waits for an in-flight action to return.
// It must not be called from the action.
func (t *Timer) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Runs is the number of times the action has been called.
func (t *Timer) Runs() uint64 { return t.runs.Load() }

// Overruns is the number of periods dropped because of MaxCatchUp.
func (t *Timer) Overruns() uint64 { return t.overruns.Load() }

// Run blocks, calling the action once per period until ctx is done.
func (t *Timer) Run(ctx context.Context) error {
	next := time.Now().Add(t.period)
	timer := time.NewTimer(t.period)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-timer.C:
			n, nx, dropped := due(now, next, t.period, t.MaxCatchUp)
			next = nx
			if dropped > 0 {
				t.overruns.Add(uint64(dropped))
			}
			for i := 0; i < n; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				t.action()
				t.runs.Add(1)
			}
			timer.Reset(time.Until(next))
		}
	}
}

// due reports how many periods have elapsed at now given the next deadline,
// the following deadline, and how many periods were dropped over maxCatchUp.
func due(now, next time.Time, period time.Duration, maxCatchUp int) (n int, after time.Time, dropped int) {
	if now.Before(next) {
		return 0, next, 0
	}
	n = int(now.Sub(next)/period) + 1
	after = next.Add(time.Duration(n) * period)
	if maxCatchUp > 0 && n > maxCatchUp {
		dropped = n - maxCatchUp
		n = maxCatchUp
	}
	return n, after, dropped
}
