package input

import "sync/atomic"

// Pointer holds the pointer position. Moves land in a pending word and become
// visible through X and Y only after the next Tick.
type Pointer struct {
	pending   atomic.Uint64
	committed atomic.Uint64
}

// x and y share one word so a reader never sees a torn pair.
func pack(x, y int) uint64 {
	return uint64(uint32(int32(x)))<<32 | uint64(uint32(int32(y)))
}

func unpack(v uint64) (int, int) {
	return int(int32(uint32(v >> 32))), int(int32(uint32(v)))
}

func (p *Pointer) reset() {
	p.pending.Store(pack(-1, -1))
	p.committed.Store(pack(-1, -1))
}

func (p *Pointer) move(x, y int) {
	p.pending.Store(pack(x, y))
}

func (p *Pointer) commit() {
	p.committed.Store(p.pending.Load())
}

func (p *Pointer) X() int {
	x, _ := unpack(p.committed.Load())
	return x
}

func (p *Pointer) Y() int {
	_, y := unpack(p.committed.Load())
	return y
}

// Position returns both committed coordinates from a single load.
func (p *Pointer) Position() (int, int) {
	return unpack(p.committed.Load())
}
