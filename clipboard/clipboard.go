// Package clipboard wraps the system clipboard.
package clipboard

import (
	"fmt"
	"time"

	cb "github.com/atotto/clipboard"
)

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	if cb.Unsupported {
		return fmt.Errorf("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	}
	return cb.WriteAll(text)
}

// Verify writes a probe, reads it back and restores the previous contents.
func Verify() error {
	prev, _ := Read()
	defer Copy(prev)

	probe := fmt.Sprintf("keytick-probe-%d", time.Now().UnixNano())
	if err := Copy(probe); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	got, err := Read()
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if got != probe {
		return fmt.Errorf("read back %q, wrote %q", got, probe)
	}
	return nil
}
