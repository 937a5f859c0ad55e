// Package config loads keytick settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultTickRate   = 60
	DefaultStatsEvery = "30s"
	fileName          = "config.toml"
)

// Settings never carries key bindings; those come from the command line.
type Settings struct {
	TickRate     int      `toml:"tick_rate"`
	LogPath      string   `toml:"log_path"`
	Source       string   `toml:"source"`
	Devices      []string `toml:"devices"`
	BareHotkeys  bool     `toml:"bare_hotkeys"`
	PressSound   string   `toml:"press_sound"`
	ReleaseSound string   `toml:"release_sound"`
	Trace        bool     `toml:"trace"`
	StatsEvery   string   `toml:"stats_every"`
}

func Default() Settings {
	return Settings{
		TickRate:   DefaultTickRate,
		StatsEvery: DefaultStatsEvery,
	}
}

// Path picks the config file: flag > KEYTICK_CONFIG > OS config dir.
func Path(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if env := os.Getenv("KEYTICK_CONFIG"); env != "" {
		return env, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "keytick", fileName), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := decode(data, &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

func decode(data []byte, s *Settings) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(s)

	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return fmt.Errorf("line %d column %d: %s", row, col, de.Error())
	}
	var sme *toml.StrictMissingError
	if errors.As(err, &sme) {
		return fmt.Errorf("unknown setting: %s", sme.String())
	}
	return err
}

// Save writes s to path, creating the parent directory.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StatsInterval parses StatsEvery. Zero disables periodic stats.
func (s Settings) StatsInterval() (time.Duration, error) {
	if s.StatsEvery == "" || s.StatsEvery == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.StatsEvery)
	if err != nil {
		return 0, fmt.Errorf("stats_every: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("stats_every: negative duration %s", s.StatsEvery)
	}
	return d, nil
}

// Validate checks values the CLI cannot run with. sources lists the accepted
// source names; an empty Source means auto-detect.
func (s Settings) Validate(sources ...string) error {
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", s.TickRate)
	}
	if s.TickRate > 1000 {
		return fmt.Errorf("tick_rate must be at most 1000, got %d", s.TickRate)
	}
	if s.Source != "" && len(sources) > 0 {
		known := false
		for _, name := range sources {
			if s.Source == name {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown source %q", s.Source)
		}
	}
	if _, err := s.StatsInterval(); err != nil {
		return err
	}
	return nil
}
