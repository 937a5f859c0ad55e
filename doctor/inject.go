package doctor

import (
	"runtime"
	"time"

	"github.com/micmonay/keybd_event"
)

// injectKey types A through a virtual keyboard. withMods adds Ctrl+Shift so
// a global-hotkey source sees its registered chord.
func injectKey(withMods bool) error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	if runtime.GOOS == "linux" {
		// the uinput node needs time to appear and be picked up by hot-plug
		time.Sleep(2 * time.Second)
	}
	kb.SetKeys(keybd_event.VK_A)
	if withMods && runtime.GOOS != "linux" {
		kb.HasCTRL(true)
		kb.HasSHIFT(true)
	}
	return kb.Launching()
}
