package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"keytick/input"
	"keytick/log"
	"keytick/source"
)

// runTestMode drives the registry from line commands instead of a host
// source. Ticks happen only on TICK so output is deterministic.
func runTestMode(a *app, in io.Reader, out io.Writer) {
	fake := source.NewFake()
	fake.Start(a.reg)
	defer fake.Stop()

	log.SessionStart("test", 0, a.names())
	defer func() { log.SessionEnd(a.ticks.Load()) }()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		cmd, args := strings.ToUpper(fields[0]), fields[1:]
		if cmd == "QUIT" {
			return
		}
		if err := testCommand(a, fake, cmd, args, out); err != nil {
			fmt.Fprintf(out, "ERR %v\n", err)
		}
	}
}

func testCommand(a *app, fake *source.Fake, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "BIND":
		if len(args) != 1 {
			return fmt.Errorf("usage: BIND <key>")
		}
		_, err := a.bind(args[0])
		return err

	case "UNBIND":
		if len(args) != 1 {
			return fmt.Errorf("usage: UNBIND <key>")
		}
		return a.unbind(args[0])

	case "PRESS", "RELEASE", "TAP":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <key>", cmd)
		}
		d, code, err := input.ParseKey(args[0])
		if err != nil {
			return err
		}
		switch cmd {
		case "PRESS":
			fake.Press(d, code)
		case "RELEASE":
			fake.Release(d, code)
		default:
			fake.Tap(d, code)
		}

	case "MOVE":
		if len(args) != 2 {
			return fmt.Errorf("usage: MOVE <x> <y>")
		}
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad x: %w", err)
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad y: %w", err)
		}
		fake.Move(x, y)

	case "BLUR":
		fake.FocusLost()

	case "TICK":
		n := 1
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("bad tick count %q", args[0])
			}
			n = v
		}
		for i := 0; i < n; i++ {
			a.step()
		}

	case "DUMP":
		for _, line := range a.snapshot(a.ticks.Load()).Lines() {
			fmt.Fprintln(out, line)
		}

	case "STATS":
		st := a.reg.Stats()
		fmt.Fprintf(out, "ticks=%d events=%d coalesced=%d unknown=%d focus_releases=%d live=%d\n",
			st.Ticks, st.Events, st.Coalesced, st.Unknown, st.FocusReleases, st.Live)

	case "SLEEP":
		if len(args) != 1 {
			return fmt.Errorf("usage: SLEEP <ms>")
		}
		ms, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad duration: %w", err)
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
