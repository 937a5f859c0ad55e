package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"keytick/input"
	"keytick/log"
	"keytick/sound"
	"keytick/timer"
)

type keyBinding struct {
	name string
	b    *input.Binding
}

// app owns the registry, the bindings made from the command line and the
// per-tick work done after each commit.
type app struct {
	reg *input.Registry

	mu   sync.Mutex
	keys []keyBinding

	press   *sound.Clip
	release *sound.Clip
	trace   bool
	display Display

	ticks      atomic.Uint64
	timer      *timer.Timer
	statsEvery time.Duration
	lastStats  time.Time
}

func newApp() *app {
	return &app{reg: input.NewRegistry(), lastStats: time.Now()}
}

// bind parses spec and adds a binding for it, returning the display name.
func (a *app) bind(spec string) (string, error) {
	d, code, err := input.ParseKey(spec)
	if err != nil {
		return "", err
	}
	name := input.KeyName(d, code)
	b := a.reg.Bind(d, code)

	a.mu.Lock()
	a.keys = append(a.keys, keyBinding{name: name, b: b})
	a.mu.Unlock()
	return name, nil
}

// unbind drops the most recent binding for spec.
func (a *app) unbind(spec string) error {
	d, code, err := input.ParseKey(spec)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.keys) - 1; i >= 0; i-- {
		k := a.keys[i]
		if k.b.Device() == d && k.b.Code() == code {
			a.reg.Unbind(k.b)
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s is not bound", input.KeyName(d, code))
}

func (a *app) unbindAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range a.keys {
		a.reg.Unbind(k.b)
	}
	a.keys = nil
}

func (a *app) names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, len(a.keys))
	for i, k := range a.keys {
		names[i] = k.name
	}
	return names
}

// step commits one tick and reacts to the edges it produced.
func (a *app) step() Snapshot {
	a.reg.Tick()
	snap := a.snapshot(a.ticks.Add(1))

	for _, k := range snap.Keys {
		if k.Pressed {
			a.press.Play()
		}
		if k.Released {
			a.release.Play()
		}
		if a.trace && k.edge() {
			log.Edge(snap.Tick, k.Name, k.Presses, k.Releases, k.Down)
		}
	}

	if a.display != nil {
		a.display.Snapshot(snap)
	}
	if a.statsEvery > 0 && time.Since(a.lastStats) >= a.statsEvery {
		a.logStats()
		a.lastStats = time.Now()
	}
	return snap
}

// snapshot reads the committed state. Bindings sharing a key report the same
// state, so each key appears once.
func (a *app) snapshot(tick uint64) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{Tick: tick}
	seen := make(map[string]bool, len(a.keys))
	for _, k := range a.keys {
		if seen[k.name] {
			continue
		}
		seen[k.name] = true
		snap.Keys = append(snap.Keys, KeyState{
			Name:     k.name,
			Down:     k.b.IsDown(),
			Pressed:  k.b.IsPressed(),
			Released: k.b.IsReleased(),
			Presses:  k.b.PressCount(),
			Releases: k.b.ReleaseCount(),
		})
	}
	snap.X, snap.Y = a.reg.Pointer().Position()
	return snap
}

func (a *app) logStats() {
	st := a.reg.Stats()
	var overruns uint64
	if a.timer != nil {
		overruns = a.timer.Overruns()
	}
	log.Stats(log.StatsData{
		Ticks:         st.Ticks,
		Events:        st.Events,
		Coalesced:     st.Coalesced,
		Unknown:       st.Unknown,
		FocusReleases: st.FocusReleases,
		Live:          st.Live,
		Overruns:      overruns,
	})
}

// startTicker drives step at rate ticks per second.
func (a *app) startTicker(rate int) {
	a.timer = timer.New(time.Second/time.Duration(rate), func() { a.step() })
	a.timer.Start()
}

func (a *app) stop() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.press.Stop()
	a.release.Stop()
}

// loadClip resolves a sound flag: "" is silent, "tick" and "tock" are
// built-in tones, anything else is a WAV or FLAC path.
func loadClip(spec string) (*sound.Clip, error) {
	switch spec {
	case "":
		return nil, nil
	case "tick":
		return sound.Tone(1200, 30*time.Millisecond, 0.5, 60), nil
	case "tock":
		return sound.Tone(900, 50*time.Millisecond, 0.5, 40), nil
	}
	return sound.Load(spec)
}
