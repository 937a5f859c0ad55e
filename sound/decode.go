package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/mewkiz/flac"
)

type Format int

const (
	WAV Format = iota
	FLAC
)

func (f Format) String() string {
	switch f {
	case WAV:
		return "wav"
	case FLAC:
		return "flac"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

var ErrUnknownFormat = errors.New("unknown sound format")

// FormatOf picks a decoder from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return WAV, nil
	case ".flac":
		return FLAC, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func Load(path string) (*Clip, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return c, nil
}

func Decode(r io.Reader, format Format) (*Clip, error) {
	var (
		frames [][2]float64
		rate   int
		err    error
	)
	switch format {
	case WAV:
		frames, rate, err = decodeWAV(r)
	case FLAC:
		frames, rate, err = decodeFLAC(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if rate != SampleRate {
		frames = resample(frames, rate)
	}
	return newClip(toInt16(frames)), nil
}

func decodeWAV(r io.Reader) ([][2]float64, int, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return nil, 0, err
	}
	defer streamer.Close()

	frames, err := drain(streamer)
	if err != nil {
		return nil, 0, err
	}
	return frames, int(format.SampleRate), nil
}

func decodeFLAC(r io.Reader) ([][2]float64, int, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	info := stream.Info
	if info.NChannels == 0 || info.NChannels > 2 {
		return nil, 0, fmt.Errorf("unsupported flac channel count %d", info.NChannels)
	}
	scale := float64(int64(1) << (info.BitsPerSample - 1))

	var frames [][2]float64
	for {
		f, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		left := f.Subframes[0].Samples
		right := left
		if len(f.Subframes) > 1 {
			right = f.Subframes[1].Samples
		}
		for i := 0; i < int(f.BlockSize); i++ {
			frames = append(frames, [2]float64{
				float64(left[i]) / scale,
				float64(right[i]) / scale,
			})
		}
	}
	return frames, int(info.SampleRate), nil
}

// sliceStreamer replays decoded frames so beep can resample them.
type sliceStreamer struct {
	frames [][2]float64
	pos    int
}

func (s *sliceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.frames) {
		return 0, false
	}
	n := copy(samples, s.frames[s.pos:])
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

func resample(frames [][2]float64, from int) [][2]float64 {
	r := beep.Resample(4, beep.SampleRate(from), beep.SampleRate(SampleRate), &sliceStreamer{frames: frames})
	out, _ := drain(r)
	return out
}

func drain(s beep.Streamer) ([][2]float64, error) {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out, s.Err()
}

func toInt16(frames [][2]float64) []int16 {
	out := make([]int16, len(frames)*channels)
	for i, f := range frames {
		out[i*2] = clampSample(f[0])
		out[i*2+1] = clampSample(f[1])
	}
	return out
}

func clampSample(v float64) int16 {
	s := v * 32768
	switch {
	case s > 32767:
		return 32767
	case s < -32768:
		return -32768
	}
	return int16(s)
}
