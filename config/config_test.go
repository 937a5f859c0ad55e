package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingIsDefault(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.TickRate != DefaultTickRate || s.StatsEvery != DefaultStatsEvery {
		t.Errorf("got %+v, want defaults", s)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
tick_rate = 120
source = "evdev"
devices = ["/dev/input/event3", "USB Mouse"]
press_sound = "sounds/press.wav"
trace = true
`)
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.TickRate != 120 || s.Source != "evdev" || !s.Trace {
		t.Errorf("got %+v", s)
	}
	if len(s.Devices) != 2 || s.Devices[1] != "USB Mouse" {
		t.Errorf("devices = %v", s.Devices)
	}
	if s.PressSound != "sounds/press.wav" || s.ReleaseSound != "" {
		t.Errorf("sounds = %q %q", s.PressSound, s.ReleaseSound)
	}
	// untouched keys keep their defaults
	if s.StatsEvery != DefaultStatsEvery {
		t.Errorf("stats_every = %q", s.StatsEvery)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "tick_rate = 30\nbindings = [\"A\"]\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "bindings") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, "tick_rate = = 30\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("err = %v, want line number", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Source = "hotkey"
	want.Devices = []string{"kbd"}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Source != "hotkey" || len(got.Devices) != 1 || got.TickRate != DefaultTickRate {
		t.Errorf("got %+v", got)
	}
}

func TestPath(t *testing.T) {
	if got, _ := Path("/etc/keytick.toml"); got != "/etc/keytick.toml" {
		t.Errorf("flag path = %q", got)
	}

	t.Setenv("KEYTICK_CONFIG", "/tmp/env.toml")
	if got, _ := Path(""); got != "/tmp/env.toml" {
		t.Errorf("env path = %q", got)
	}

	t.Setenv("KEYTICK_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	got, err := Path("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "config.toml" || filepath.Base(filepath.Dir(got)) != "keytick" {
		t.Errorf("default path = %q", got)
	}
}

func TestValidate(t *testing.T) {
	sources := []string{"evdev", "hotkey", "terminal"}
	tests := []struct {
		name string
		edit func(*Settings)
		ok   bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"zero tick rate", func(s *Settings) { s.TickRate = 0 }, false},
		{"negative tick rate", func(s *Settings) { s.TickRate = -5 }, false},
		{"huge tick rate", func(s *Settings) { s.TickRate = 5000 }, false},
		{"known source", func(s *Settings) { s.Source = "terminal" }, true},
		{"unknown source", func(s *Settings) { s.Source = "joystick" }, false},
		{"bad stats interval", func(s *Settings) { s.StatsEvery = "often" }, false},
		{"stats off", func(s *Settings) { s.StatsEvery = "0" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.edit(&s)
			err := s.Validate(sources...)
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestStatsInterval(t *testing.T) {
	s := Default()
	d, err := s.StatsInterval()
	if err != nil || d != 30*time.Second {
		t.Errorf("StatsInterval = %v, %v", d, err)
	}
	s.StatsEvery = ""
	if d, _ := s.StatsInterval(); d != 0 {
		t.Errorf("empty StatsEvery = %v, want 0", d)
	}
}
