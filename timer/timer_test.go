package timer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDue(t *testing.T) {
	base := time.Unix(1000, 0)
	period := 10 * time.Millisecond

	tests := []struct {
		name    string
		now     time.Time
		max     int
		n       int
		after   time.Time
		dropped int
	}{
		{"early", base.Add(-time.Millisecond), 5, 0, base, 0},
		{"on time", base, 5, 1, base.Add(period), 0},
		{"slightly late", base.Add(3 * time.Millisecond), 5, 1, base.Add(period), 0},
		{"two missed", base.Add(25 * time.Millisecond), 5, 3, base.Add(3 * period), 0},
		{"stall capped", base.Add(95 * time.Millisecond), 5, 5, base.Add(10 * period), 5},
		{"uncapped", base.Add(95 * time.Millisecond), 0, 10, base.Add(10 * period), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, after, dropped := due(tt.now, base, period, tt.max)
			if n != tt.n || !after.Equal(tt.after) || dropped != tt.dropped {
				t.Errorf("due = (%d, %v, %d), want (%d, %v, %d)",
					n, after.Sub(base), dropped, tt.n, tt.after.Sub(base), tt.dropped)
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	var calls atomic.Int32
	tm := New(2*time.Millisecond, func() { calls.Add(1) })

	if !tm.Start() {
		t.Fatal("Start returned false")
	}
	if tm.Start() {
		t.Error("second Start returned true")
	}
	if !tm.Running() {
		t.Error("Running false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	tm.Stop()

	if calls.Load() < 5 {
		t.Fatalf("calls = %d, want at least 5", calls.Load())
	}
	if tm.Running() {
		t.Error("Running true after Stop")
	}

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("action ran after Stop: %d -> %d", after, calls.Load())
	}
	if tm.Runs() != uint64(after) {
		t.Errorf("Runs = %d, want %d", tm.Runs(), after)
	}

	tm.Stop() // idempotent
}

func TestRestart(t *testing.T) {
	var calls atomic.Int32
	tm := New(time.Millisecond, func() { calls.Add(1) })
	tm.Start()
	tm.Stop()
	if !tm.Start() {
		t.Fatal("Start after Stop returned false")
	}
	tm.Stop()
}

func TestRunReturnsOnCancel(t *testing.T) {
	tm := New(time.Millisecond, func() {})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tm.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestCatchUpAfterStall(t *testing.T) {
	var calls atomic.Int32
	tm := New(time.Millisecond, func() {
		if calls.Add(1) == 1 {
			time.Sleep(30 * time.Millisecond) // miss many periods
		}
	})
	tm.MaxCatchUp = 3
	tm.Start()

	deadline := time.Now().Add(2 * time.Second)
	for tm.Overruns() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	tm.Stop()

	if tm.Overruns() == 0 {
		t.Error("expected overruns after a stall longer than MaxCatchUp periods")
	}
}

func TestNewPanicsOnZeroPeriod(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New(0, func() {})
}
