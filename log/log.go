package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog   zerolog.Logger
	diagFile  *os.File
	edgesFile *os.File
	logMu     sync.Mutex
	logReady  bool
	debug     bool
	pid       int
	dir       string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: KEYTICK_LOG_PATH environment variable
	if envPath := os.Getenv("KEYTICK_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return defaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// SetDebug enables Debugf output and per-reference lifecycle lines.
func SetDebug(on bool) {
	logMu.Lock()
	debug = on
	logMu.Unlock()
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if logReady {
		return nil
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	edgesPath := filepath.Join(dir, "edges_log.txt")
	edgesFile, err = os.OpenFile(edgesPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if edgesFile != nil {
		edgesFile.Close()
		edgesFile = nil
	}
	logReady = false
}

func ready() bool {
	logMu.Lock()
	defer logMu.Unlock()
	return logReady
}

func Info(msg string) {
	if ready() {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if ready() {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if ready() {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if ready() {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if ready() {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if ready() {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(source string, tickRate int, keys []string) {
	if !ready() {
		return
	}
	diagLog.Info().
		Str("source", source).
		Int("tps", tickRate).
		Strs("keys", keys).
		Msg("session_start")
}

func SessionEnd(ticks uint64) {
	if !ready() {
		return
	}
	diagLog.Info().
		Uint64("ticks", ticks).
		Msg("session_end")
}

type StatsData struct {
	Ticks         uint64
	Events        uint64
	Coalesced     uint64
	Unknown       uint64
	FocusReleases uint64
	Live          int
	Overruns      uint64
}

func Stats(s StatsData) {
	if !ready() {
		return
	}
	diagLog.Info().
		Uint64("ticks", s.Ticks).
		Uint64("events", s.Events).
		Uint64("coalesced", s.Coalesced).
		Uint64("unknown", s.Unknown).
		Uint64("focus_releases", s.FocusReleases).
		Int("live", s.Live).
		Uint64("overruns", s.Overruns).
		Msg("input_stats")
}

// KeyRef records a reference link or unlink at debug level.
func KeyRef(op, device string, code, links int) {
	if !ready() {
		return
	}
	diagLog.Debug().
		Str("device", device).
		Int("code", code).
		Int("links", links).
		Msg("key_ref_" + op)
}

// Edge appends one committed key state to edges_log.txt.
func Edge(tick uint64, key string, pressed, released int, down bool) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady || edgesFile == nil {
		return
	}
	state := "up"
	if down {
		state = "down"
	}
	line := fmt.Sprintf("%s\t[%d]\t%d\t%s\t+%d\t-%d\t%s\n",
		time.Now().Format("2006-01-02 15:04:05.000"), pid, tick, key, pressed, released, state)
	edgesFile.WriteString(line)
}
