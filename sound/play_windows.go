//go:build windows

package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

var (
	otoCtx  *oto.Context
	otoErr  error
	otoOnce sync.Once
)

func initContext() {
	var ready chan struct{}
	otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	})
	if otoErr == nil {
		<-ready
	}
}

func playVoice(v *voice) error {
	otoOnce.Do(initContext)
	if otoErr != nil {
		return fmt.Errorf("oto context: %w", otoErr)
	}

	player := otoCtx.NewPlayer(v)
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Err()
}
