package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"keytick/config"
	"keytick/doctor"
	"keytick/input"
	"keytick/log"
	"keytick/shutdown"
	"keytick/sound"
	"keytick/source"
)

var version = "dev"

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	log.Errorf(format, args...)
	log.Close()
	os.Exit(1)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func run() {
	if code, ok := runCommand(os.Args[1:]); ok {
		os.Exit(code)
	}

	configFlag := flag.String("config", "", "config file path (default: OS config dir, or $KEYTICK_CONFIG)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	tpsFlag := flag.Int("tps", config.DefaultTickRate, "ticks per second")
	sourceFlag := flag.String("source", "", "event source: evdev, hotkey or terminal (default: evdev on Linux, hotkey elsewhere)")
	keysFlag := flag.String("keys", "", `comma-separated keys to bind, e.g. "A,space,mouse1"`)
	deviceFlag := flag.String("device", "", "comma-separated evdev device paths or names")
	setupFlag := flag.Bool("setup", false, "Select input device interactively and save it to the config")
	pressSoundFlag := flag.String("press-sound", "", `clip played on press: "tick", "tock" or a WAV/FLAC path`)
	releaseSoundFlag := flag.String("release-sound", "", `clip played on release: "tick", "tock" or a WAV/FLAC path`)
	traceFlag := flag.Bool("trace", false, "Write committed edges to edges_log.txt")
	debugFlag := flag.Bool("debug", false, "Log key reference changes")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: keytick [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\n%s\n", usageCommands)
	}
	flag.Parse()

	if *versionFlag {
		fmt.Printf("keytick %s\n", version)
		os.Exit(0)
	}

	cfgPath, err := config.Path(*configFlag)
	if err != nil {
		fatalf("%v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "logpath":
			cfg.LogPath = *logPathFlag
		case "tps":
			cfg.TickRate = *tpsFlag
		case "source":
			cfg.Source = *sourceFlag
		case "device":
			cfg.Devices = splitList(*deviceFlag)
		case "press-sound":
			cfg.PressSound = *pressSoundFlag
		case "release-sound":
			cfg.ReleaseSound = *releaseSoundFlag
		case "trace":
			cfg.Trace = *traceFlag
		}
	})
	if err := cfg.Validate(source.KindEvdev, source.KindHotkey, source.KindTerminal); err != nil {
		fatalf("%s: %v", cfgPath, err)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(cfg.LogPath)
	if err != nil {
		fatalf("failed to resolve log directory: %v", err)
	}
	log.SetDir(logPath)
	log.SetDebug(*debugFlag)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if *doctorFlag {
		os.Exit(doctor.Run(doctor.Options{
			Source:      cfg.Source,
			Devices:     cfg.Devices,
			BareHotkeys: cfg.BareHotkeys,
		}))
	}

	if *setupFlag {
		runSetup(cfgPath, cfg)
		os.Exit(0)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	a := newApp()
	a.trace = cfg.Trace
	a.statsEvery, _ = cfg.StatsInterval()
	for _, spec := range splitList(*keysFlag) {
		if _, err := a.bind(spec); err != nil {
			fatalf("-keys: %v", err)
		}
	}

	if *testFlag {
		sound.Disable()
		runTestMode(a, os.Stdin, os.Stdout)
		a.unbindAll()
		log.Close()
		return
	}

	if a.press, err = loadClip(cfg.PressSound); err != nil {
		log.Warnf("press sound: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: press sound: %v\n", err)
	}
	if a.release, err = loadClip(cfg.ReleaseSound); err != nil {
		log.Warnf("release sound: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: release sound: %v\n", err)
	}

	kind := cfg.Source
	if kind == "" {
		kind = source.DefaultKind()
	}
	if kind == source.KindTerminal && !*tuiFlag {
		fatalf("the terminal source needs the TUI (drop -tui=false, or fix evdev access: see -doctor)")
	}

	src, err := source.Open(source.Options{
		Kind:        kind,
		Devices:     cfg.Devices,
		Keys:        keyboardCodes(a),
		BareHotkeys: cfg.BareHotkeys,
	})
	if err != nil {
		fatalf("%s source: %v", kind, err)
	}
	if err := src.Start(a.reg); err != nil {
		fatalf("starting %s source: %v", kind, err)
	}

	log.SessionStart(kind, cfg.TickRate, a.names())

	var hooks shutdown.Hooks
	hooks.Add(log.Close)
	hooks.Add(func() { log.SessionEnd(a.ticks.Load()) })
	hooks.Add(a.unbindAll)
	hooks.Add(a.logStats)
	hooks.Add(src.Stop)
	hooks.Add(a.stop)
	defer hooks.Run()

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	if !*tuiFlag {
		a.display = lineDisplay{printf: func(format string, args ...any) { fmt.Printf(format, args...) }}
		a.display.Notice(fmt.Sprintf("keytick %s: %s source, %d tps, keys %s", version, kind, cfg.TickRate, strings.Join(a.names(), " ")))
		a.startTicker(cfg.TickRate)
		<-ctx.Done()
		return
	}

	d := &tuiDisplay{}
	a.display = d
	term, _ := src.(*source.Terminal)

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(d, term, kind, cfg.TickRate)
	p := tuiProgram
	tuiMu.Unlock()

	a.startTicker(cfg.TickRate)
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	if _, err := p.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
	}
}

// keyboardCodes lists the keyboard codes bound so far, for sources that must
// register keys up front.
func keyboardCodes(a *app) []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	var codes []int
	seen := make(map[int]bool)
	for _, k := range a.keys {
		if k.b.Device() == input.Keyboard && !seen[k.b.Code()] {
			seen[k.b.Code()] = true
			codes = append(codes, k.b.Code())
		}
	}
	return codes
}

func runSetup(cfgPath string, cfg config.Settings) {
	devices, err := source.Devices()
	if err != nil {
		fatalf("listing input devices: %v", err)
	}
	if len(devices) == 0 {
		fmt.Println("No selectable input devices on this platform; the hotkey source needs none.")
		return
	}
	dev, err := source.SelectDevice(devices)
	if err != nil {
		fatalf("%v", err)
	}
	cfg.Devices = []string{dev.Path}
	if cfg.Source == "" {
		cfg.Source = source.KindEvdev
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		fatalf("saving %s: %v", cfgPath, err)
	}
	fmt.Printf("Saved %s (%s) to %s\n", dev.Name, dev.Path, cfgPath)
}
