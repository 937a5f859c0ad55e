package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir(""); SetDebug(false) })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("KEYTICK_LOG_PATH", "/tmp/keytick-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/keytick-env-log" {
		t.Errorf("got %q, want /tmp/keytick-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("KEYTICK_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Error("expected non-empty default directory")
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"diagnostics_log.txt", "edges_log.txt"} {
		path := filepath.Join(tmp, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestEdge(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	Edge(42, "A", 1, 0, true)

	data, err := os.ReadFile(filepath.Join(tmp, "edges_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	for _, want := range []string{"\t42\t", "\tA\t", "+1", "-0", "down"} {
		if !strings.Contains(line, want) {
			t.Errorf("edges_log.txt missing %q, got: %q", want, line)
		}
	}
}

func TestStatsLine(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Stats(StatsData{Ticks: 10, Events: 4, Coalesced: 2, Live: 3})
	Close()

	data, err := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"input_stats", "ticks=10", "coalesced=2", "live=3"} {
		if !strings.Contains(text, want) {
			t.Errorf("diagnostics_log.txt missing %q, got: %q", want, text)
		}
	}
}

func TestKeyRefDebugOnly(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	KeyRef("link", "keyboard", 65, 1)
	Close()

	data, _ := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if strings.Contains(string(data), "key_ref_link") {
		t.Error("debug line written at info level")
	}

	SetDebug(true)
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	KeyRef("link", "keyboard", 65, 1)
	Close()

	data, _ = os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if !strings.Contains(string(data), "key_ref_link") {
		t.Errorf("debug line missing, got: %q", string(data))
	}
}

func TestNoopBeforeInit(t *testing.T) {
	setupLogDir(t)
	Info("ignored")
	Edge(1, "A", 0, 0, false)
	SessionEnd(3)
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
