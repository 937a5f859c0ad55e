//go:build linux

package sound

import (
	"fmt"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

func playVoice(v *voice) error {
	c, err := pulse.NewClient()
	if err != nil {
		return fmt.Errorf("pulse client: %w", err)
	}
	defer c.Close()

	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		n := v.read(buf)
		if n == 0 {
			return 0, pulse.EndOfData
		}
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(SampleRate),
		pulse.PlaybackLatency(0.05),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	stream.Stop()
	return stream.Error()
}
