package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"keytick/fileutil"
	"keytick/shutdown"
)

const usageCommands = `Commands:
  keytick fetch <url> <dst> [sha256]   download a sound clip
  keytick cp <src> <dst>               copy a file or directory
  keytick mv <src> <dst>               move a file or directory
  keytick rm <path>                    delete a file or directory`

// runCommand handles file subcommands. ok is false when args name none.
func runCommand(args []string) (code int, ok bool) {
	if len(args) == 0 {
		return 0, false
	}
	var err error
	switch args[0] {
	case "fetch":
		if len(args) != 3 && len(args) != 4 {
			return usageError()
		}
		opts := fileutil.DownloadOptions{Progress: os.Stderr, Timeout: 5 * time.Minute}
		if len(args) == 4 {
			opts.SHA256 = args[3]
		}
		ctx, stop := shutdown.Context(context.Background())
		defer stop()
		fmt.Printf("Downloading %s...\n", args[1])
		err = fileutil.Download(ctx, args[1], args[2], opts)
		fmt.Fprintln(os.Stderr) // newline after progress
	case "cp":
		if len(args) != 3 {
			return usageError()
		}
		err = fileutil.Copy(args[1], args[2])
	case "mv":
		if len(args) != 3 {
			return usageError()
		}
		err = fileutil.Move(args[1], args[2])
	case "rm":
		if len(args) != 2 {
			return usageError()
		}
		err = fileutil.Delete(args[1])
	default:
		return 0, false
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1, true
	}
	return 0, true
}

func usageError() (int, bool) {
	fmt.Fprintln(os.Stderr, usageCommands)
	return 2, true
}
