package doctor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"keytick/clipboard"
	"keytick/input"
	"keytick/log"
	"keytick/sound"
	"keytick/source"
	"keytick/timer"
)

type Options struct {
	Source      string
	Devices     []string
	BareHotkeys bool
}

const totalChecks = 5

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(opts Options) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("keytick doctor - interactive system diagnostics")
	fmt.Println("===============================================")

	checks := []func(Options) bool{
		checkInputAccess,
		checkKeyRoundTrip,
		checkAudio,
		checkLogDir,
		checkClipboard,
	}
	allPass := true
	for _, check := range checks {
		if !check(opts) {
			allPass = false
		}
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func header(n int, title string) {
	fmt.Println()
	fmt.Printf("[%d/%d] %s\n", n, totalChecks, title)
}

func checkInputAccess(Options) bool {
	header(1, "Input device access")

	msg, err := source.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  PASS: %s\n", msg)
	return true
}

func checkKeyRoundTrip(opts Options) bool {
	header(2, "Synthetic key round trip")

	kind := opts.Source
	if kind == "" || kind == source.KindTerminal {
		kind = source.DefaultKind()
	}
	if kind == source.KindTerminal {
		fmt.Println("  FAIL: no host input source available (see check 1)")
		return false
	}
	src, err := source.Open(source.Options{
		Kind:        kind,
		Devices:     opts.Devices,
		Keys:        []int{input.KeyA},
		BareHotkeys: opts.BareHotkeys,
	})
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	reg := input.NewRegistry()
	a := reg.Bind(input.Keyboard, input.KeyA)
	defer a.Unbind()

	if err := src.Start(reg); err != nil {
		fmt.Printf("  FAIL: starting %s source: %v\n", kind, err)
		return false
	}
	defer src.Stop()

	var pressed, released atomic.Bool
	t := timer.New(10*time.Millisecond, func() {
		reg.Tick()
		if a.IsPressed() {
			pressed.Store(true)
		}
		if a.IsReleased() {
			released.Store(true)
		}
	})
	t.Start()
	defer t.Stop()

	fmt.Println("  Injecting A...")
	if err := injectKey(!opts.BareHotkeys); err != nil {
		fmt.Printf("  FAIL: cannot inject key: %v\n", err)
		return false
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if pressed.Load() && released.Load() {
			fmt.Printf("  PASS: %s source reported press and release\n", kind)
			resetTerminal()
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	resetTerminal()
	fmt.Printf("  FAIL: timeout (pressed=%v released=%v)\n", pressed.Load(), released.Load())
	return false
}

func checkAudio(Options) bool {
	header(3, "Audio output")

	tick := sound.Tone(1200, 300*time.Millisecond, 0.5, 20)
	tick.Play()
	time.Sleep(tick.Duration() + 100*time.Millisecond)

	if !confirm("Did you hear a tick?") {
		fmt.Println("  FAIL: tick not confirmed")
		return false
	}
	fmt.Println("  PASS: audio verified by user")
	return true
}

func checkLogDir(Options) bool {
	header(4, "Log directory")

	if err := log.EnsureDir(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	probe := filepath.Join(log.Dir(), ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		fmt.Printf("  FAIL: %s not writable: %v\n", log.Dir(), err)
		return false
	}
	os.Remove(probe)
	fmt.Printf("  PASS: %s is writable\n", log.Dir())
	return true
}

func checkClipboard(Options) bool {
	header(5, "Clipboard")

	if err := clipboard.Verify(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Println("  PASS: clipboard round trip")
	return true
}

func confirm(question string) bool {
	resetTerminal()
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/n]: ", question)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
