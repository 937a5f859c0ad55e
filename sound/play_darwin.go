//go:build darwin

package sound

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

var (
	malgoCtx  *malgo.AllocatedContext
	malgoErr  error
	malgoOnce sync.Once
)

func initContext() {
	malgoCtx, malgoErr = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
}

func playVoice(v *voice) error {
	malgoOnce.Do(initContext)
	if malgoErr != nil {
		return fmt.Errorf("malgo context: %w", malgoErr)
	}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = channels
	config.SampleRate = SampleRate

	ended := make(chan struct{})
	var endOnce sync.Once

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			n, _ := v.Read(pOutput[:frameCount*channels*2])
			// zero-fill the remainder so the tail is silent
			for i := n; i < len(pOutput); i++ {
				pOutput[i] = 0
			}
			if n == 0 {
				endOnce.Do(func() { close(ended) })
			}
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, config, callbacks)
	if err != nil {
		return fmt.Errorf("malgo device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("malgo start: %w", err)
	}
	<-ended
	return device.Stop()
}
