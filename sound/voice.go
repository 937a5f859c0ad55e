package sound

import (
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"
)

// voice is one playback of a clip. Backends pull samples from it until it
// reports end of data.
type voice struct {
	samples []int16
	loop    bool

	mu  sync.Mutex
	pos int

	stopped  atomic.Bool
	finished chan struct{}
	once     sync.Once
}

func newVoice(samples []int16, loop bool) *voice {
	return &voice{samples: samples, loop: loop, finished: make(chan struct{})}
}

// read fills buf with interleaved samples and returns how many were written.
// Zero means the voice is over.
func (v *voice) read(buf []int16) int {
	if v.stopped.Load() {
		return 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	n := 0
	for n < len(buf) {
		if v.pos >= len(v.samples) {
			if !v.loop {
				break
			}
			v.pos = 0
		}
		c := copy(buf[n:], v.samples[v.pos:])
		v.pos += c
		n += c
	}
	return n
}

// Read implements io.Reader over little-endian int16 samples.
func (v *voice) Read(p []byte) (int, error) {
	tmp := make([]int16, len(p)/2)
	n := v.read(tmp)
	if n == 0 {
		return 0, io.EOF
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(tmp[i]))
	}
	return n * 2, nil
}

func (v *voice) stop() {
	v.stopped.Store(true)
}

func (v *voice) finish() {
	v.once.Do(func() { close(v.finished) })
}

func (v *voice) done() bool {
	select {
	case <-v.finished:
		return true
	default:
		return false
	}
}
