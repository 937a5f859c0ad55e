//go:build !linux && !darwin && !windows

package sound

import "errors"

func playVoice(*voice) error {
	return errors.New("no audio backend on this platform")
}
