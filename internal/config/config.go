// Package config loads the §6.2 TOML configuration file and resolves the
// XDG directories the rest of Glaciera writes into, grounded on the
// teacher's internal/config (koanf + toml parser + file provider) and
// generalized from waves' rich settings surface to Glaciera's three
// sections: library paths, player commands, and appearance.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/itspluxstahre/glaciera/internal/glacierr"
)

// Paths holds the library roots to scan and the ripper list location.
type Paths struct {
	Index   []string `koanf:"index"`
	Rippers string   `koanf:"rippers"`
}

// Players holds the external decoder commands per format, plus their
// shell-word-safe flag strings (§6.2: "variable/command substitution
// disallowed").
type Players struct {
	MP3Player  string `koanf:"mp3_player"`
	MP3Flags   string `koanf:"mp3_flags"`
	OggPlayer  string `koanf:"ogg_player"`
	OggFlags   string `koanf:"ogg_flags"`
	FLACPlayer string `koanf:"flac_player"`
	FLACFlags  string `koanf:"flac_flags"`
	PLSPlayer  string `koanf:"pls_player"`
	PLSFlags   string `koanf:"pls_flags"`
}

// Appearance selects the active theme.
type Appearance struct {
	Theme string `koanf:"theme"`
}

// Config is the parsed §6.2 configuration record.
type Config struct {
	Paths      Paths      `koanf:"paths"`
	Players    Players    `koanf:"players"`
	Appearance Appearance `koanf:"appearance"`
}

func defaults() *Config {
	return &Config{
		Players: Players{
			MP3Player:  "mpg123",
			MP3Flags:   "-q",
			OggPlayer:  "ogg123",
			OggFlags:   "-q",
			FLACPlayer: "flac123",
			FLACFlags:  "-q",
			PLSPlayer:  "mpg123",
			PLSFlags:   "-q",
		},
		Appearance: Appearance{Theme: "default"},
	}
}

// Dir returns $XDG_CONFIG_HOME/glaciera.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "glaciera")
}

// FilePath returns $XDG_CONFIG_HOME/glaciera/config.toml.
func FilePath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns $XDG_DATA_HOME/glaciera, home of the catalog database and
// the default playlist/history directory.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "glaciera")
}

// CacheDir returns $XDG_CACHE_HOME/glaciera, home of the per-root `.free`
// TurboScan sidecar files.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "glaciera")
}

// DBPath returns the catalog database path, §6.2: "...glaciera.db".
func DBPath() string {
	return filepath.Join(DataDir(), "glaciera.db")
}

// PlaylistDir returns the directory playlists and history files live in.
func PlaylistDir() string {
	return filepath.Join(DataDir(), "playlists")
}

// Load reads the config file, creating a default one on first run, and
// validates §6.2's path constraints (absolute, no ".." components). A
// malformed file is reported via KindConfigMalformed and built-in defaults
// are used for unset keys (§7 policy), matching the teacher's
// load-then-unmarshal-onto-defaults shape.
func Load() (*Config, error) {
	cfg := defaults()

	path := FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return cfg, glacierr.New(glacierr.KindConfigMalformed, "config.Load", path, err)
		}
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		// §7: print the underlying parser error, fall back to defaults.
		return cfg, glacierr.New(glacierr.KindConfigMalformed, "config.Load", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return cfg, glacierr.New(glacierr.KindConfigMalformed, "config.Load", path, err)
	}

	for i, p := range cfg.Paths.Index {
		cfg.Paths.Index[i] = expandPath(p)
	}
	if cfg.Paths.Rippers != "" {
		cfg.Paths.Rippers = expandPath(cfg.Paths.Rippers)
	}

	if err := validate(cfg); err != nil {
		return cfg, glacierr.New(glacierr.KindConfigMalformed, "config.Load", path, err)
	}

	return cfg, nil
}

// validate enforces §6.2: "Path entries must be absolute and may not
// contain `..` components."
func validate(cfg *Config) error {
	for _, p := range cfg.Paths.Index {
		if err := checkPathSecure(p); err != nil {
			return fmt.Errorf("paths.index %q: %w", p, err)
		}
	}
	if cfg.Paths.Rippers != "" {
		if err := checkPathSecure(cfg.Paths.Rippers); err != nil {
			return fmt.Errorf("paths.rippers %q: %w", cfg.Paths.Rippers, err)
		}
	}
	return nil
}

func checkPathSecure(p string) error {
	if !filepath.IsAbs(p) {
		return fmt.Errorf("must be absolute")
	}
	for _, part := range strings.Split(p, string(filepath.Separator)) {
		if part == ".." {
			return fmt.Errorf("must not contain .. components")
		}
	}
	return nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultTOML), 0o644)
}

const defaultTOML = `[paths]
index = []
rippers = ""

[players]
mp3_player = "mpg123"
mp3_flags = "-q"
ogg_player = "ogg123"
ogg_flags = "-q"
flac_player = "flac123"
flac_flags = "-q"
pls_player = "mpg123"
pls_flags = "-q"

[appearance]
theme = "default"
`

// expandPath expands a leading "~" to the user's home directory, honoring
// the §6.2 HOME-fallback convention.
func expandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home := os.Getenv("HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}
	if home == "" {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
