package doctor

import (
	"fmt"
	"os"

	"keytick/shutdown"
)

// setupInterruptHandler puts the terminal back before exiting when a check
// is aborted mid-prompt.
func setupInterruptHandler() {
	ch := make(chan os.Signal, 1)
	shutdown.Notify(ch)
	go func() {
		<-ch
		resetTerminal()
		fmt.Fprintln(os.Stderr, "\nInterrupted")
		os.Exit(130)
	}()
}
