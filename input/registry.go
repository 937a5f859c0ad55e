package input

import (
	"sync"
	"sync/atomic"

	"keytick/log"
)

type refKey struct {
	device Device
	code   int
}

// keyRef is the shared record for one (device, code) pair. Intake only
// touches the pending side; Tick is the only writer of the committed side.
type keyRef struct {
	device Device
	code   int
	links  int // guarded by Registry.mu

	pendingPress   atomic.Int32
	pendingRelease atomic.Int32
	// held is the inverse of the released edge: true once a press has been
	// counted and no release has arrived since.
	held atomic.Bool

	pressCount   atomic.Int32
	releaseCount atomic.Int32
	down         atomic.Bool
}

func (k *keyRef) press() bool {
	if !k.held.CompareAndSwap(false, true) {
		return false
	}
	k.pendingPress.Add(1)
	return true
}

func (k *keyRef) release() {
	k.pendingRelease.Add(1)
	k.held.Store(false)
}

func (k *keyRef) commit() {
	press := k.pendingPress.Swap(0)
	release := k.pendingRelease.Swap(0)
	k.pressCount.Store(press)
	k.releaseCount.Store(release)

	down := k.down.Load()
	if press > 0 {
		down = true
	}
	if release > 0 {
		down = false
	}
	k.down.Store(down)
}

// Stats are monotonic counters except Live, which is the current number of
// referenced pairs.
type Stats struct {
	Ticks         uint64
	Events        uint64
	Coalesced     uint64
	Unknown       uint64
	FocusReleases uint64
	Live          int
}

type counters struct {
	ticks         atomic.Uint64
	events        atomic.Uint64
	coalesced     atomic.Uint64
	unknown       atomic.Uint64
	focusReleases atomic.Uint64
}

// Registry owns the key references and commits pending input on Tick.
// Event intake methods are safe to call from any goroutine; Tick must have a
// single caller.
type Registry struct {
	mu   sync.RWMutex
	refs map[refKey]*keyRef

	// live is replaced copy-on-write by link/unlink so Tick never locks.
	live atomic.Pointer[[]*keyRef]

	pointer Pointer
	stats   counters
}

func NewRegistry() *Registry {
	r := &Registry{refs: make(map[refKey]*keyRef)}
	r.live.Store(&[]*keyRef{})
	r.pointer.reset()
	return r
}

// Bind returns a new handle bound to (d, code). It panics if d is not
// Keyboard or Mouse.
func (r *Registry) Bind(d Device, code int) *Binding {
	b := r.NewBinding()
	b.Bind(d, code)
	return b
}

// NewBinding returns an unbound handle attached to r.
func (r *Registry) NewBinding() *Binding {
	return &Binding{reg: r}
}

// Unbind releases b's reference. Unbinding an unbound handle is a no-op.
func (r *Registry) Unbind(b *Binding) {
	if b == nil {
		return
	}
	b.Unbind()
}

func (r *Registry) link(d Device, code int) *keyRef {
	mustDevice(d)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := refKey{d, code}
	ref, ok := r.refs[key]
	if !ok {
		ref = &keyRef{device: d, code: code}
		r.refs[key] = ref
		r.publishLocked()
	}
	ref.links++
	log.KeyRef("link", d.String(), code, ref.links)
	return ref
}

func (r *Registry) unlink(ref *keyRef) {
	if ref == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ref.links == 0 {
		return
	}
	ref.links--
	log.KeyRef("unlink", ref.device.String(), ref.code, ref.links)
	if ref.links > 0 {
		return
	}

	key := refKey{ref.device, ref.code}
	if r.refs[key] == ref {
		delete(r.refs, key)
	}
	r.publishLocked()
}

func (r *Registry) publishLocked() {
	live := make([]*keyRef, 0, len(r.refs))
	for _, ref := range r.refs {
		live = append(live, ref)
	}
	r.live.Store(&live)
}

func (r *Registry) lookup(d Device, code int) *keyRef {
	r.mu.RLock()
	ref := r.refs[refKey{d, code}]
	r.mu.RUnlock()
	return ref
}

// ReceiveEvent accumulates one press or release for (d, code). Events for
// pairs nobody has bound are dropped.
func (r *Registry) ReceiveEvent(d Device, code int, action Action) {
	mustDevice(d)

	ref := r.lookup(d, code)
	if ref == nil {
		r.stats.unknown.Add(1)
		return
	}
	r.stats.events.Add(1)

	switch action {
	case Press:
		if !ref.press() {
			r.stats.coalesced.Add(1)
		}
	case Release:
		ref.release()
	}
}

func (r *Registry) OnPress(d Device, code int)   { r.ReceiveEvent(d, code, Press) }
func (r *Registry) OnRelease(d Device, code int) { r.ReceiveEvent(d, code, Release) }
func (r *Registry) OnPointerMove(x, y int)       { r.pointer.move(x, y) }

// OnFocusLost releases every key that is still held, so nothing stays stuck
// down after the host loses input focus.
func (r *Registry) OnFocusLost() {
	for _, ref := range *r.live.Load() {
		if ref.held.CompareAndSwap(true, false) {
			ref.pendingRelease.Add(1)
			r.stats.focusReleases.Add(1)
		}
	}
}

// FocusLost is an alias of OnFocusLost for callers that are not sources.
func (r *Registry) FocusLost() { r.OnFocusLost() }

// Tick commits everything received since the previous Tick.
func (r *Registry) Tick() {
	for _, ref := range *r.live.Load() {
		ref.commit()
	}
	r.pointer.commit()
	r.stats.ticks.Add(1)
}

func (r *Registry) Pointer() *Pointer {
	return &r.pointer
}

func (r *Registry) Stats() Stats {
	return Stats{
		Ticks:         r.stats.ticks.Load(),
		Events:        r.stats.events.Load(),
		Coalesced:     r.stats.coalesced.Load(),
		Unknown:       r.stats.unknown.Load(),
		FocusReleases: r.stats.focusReleases.Load(),
		Live:          len(*r.live.Load()),
	}
}

// links reports the link count for (d, code), zero when not registered.
func (r *Registry) links(d Device, code int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ref, ok := r.refs[refKey{d, code}]; ok {
		return ref.links
	}
	return 0
}
