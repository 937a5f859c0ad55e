// Package sound decodes short clips and plays them on the host audio system.
package sound

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"keytick/log"
)

const (
	SampleRate = 44100
	channels   = 2
)

var disabled atomic.Bool

// Disable turns every later Play and Loop into a no-op.
func Disable() { disabled.Store(true) }

// Clip holds interleaved stereo int16 samples at SampleRate.
type Clip struct {
	samples []int16

	mu  sync.Mutex
	cur *voice
}

func newClip(samples []int16) *Clip {
	return &Clip{samples: samples}
}

// Tone synthesizes a decaying sine tick.
func Tone(freq float64, d time.Duration, volume, decay float64) *Clip {
	n := int(math.Round(float64(SampleRate) * d.Seconds()))
	samples := make([]int16, n*channels)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(SampleRate)
		envelope := math.Exp(-t * decay)
		s := int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
		samples[i*2] = s
		samples[i*2+1] = s
	}
	return newClip(samples)
}

func (c *Clip) Duration() time.Duration {
	frames := len(c.samples) / channels
	return time.Duration(frames) * time.Second / SampleRate
}

// Play restarts the clip from the beginning.
func (c *Clip) Play() { c.start(false) }

// Loop plays the clip continuously until Stop.
func (c *Clip) Loop() { c.start(true) }

func (c *Clip) start(loop bool) {
	if c == nil || disabled.Load() || len(c.samples) == 0 {
		return
	}

	c.mu.Lock()
	if c.cur != nil {
		c.cur.stop()
	}
	v := newVoice(c.samples, loop)
	c.cur = v
	c.mu.Unlock()

	go func() {
		if err := playVoice(v); err != nil {
			log.Warnf("sound playback: %v", err)
		}
		v.finish()
	}()
}

func (c *Clip) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.cur != nil {
		c.cur.stop()
		c.cur = nil
	}
	c.mu.Unlock()
}

func (c *Clip) Playing() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil && !c.cur.done()
}
