//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itspluxstahre/glaciera/internal/glacierr"
)

func setXDG(t *testing.T, configDir string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	require.NoError(t, xdg.Reload())
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/listener")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/music", "/home/listener/music"},
		{"tilde only", "~", "/home/listener"},
		{"absolute path unchanged", "/usr/local/music", "/usr/local/music"},
		{"relative path unchanged", "music/albums", "music/albums"},
		{"empty string unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestCheckPathSecure(t *testing.T) {
	assert.NoError(t, checkPathSecure("/music/library"))
	assert.Error(t, checkPathSecure("music/library"), "relative path must be rejected")
	assert.Error(t, checkPathSecure("/music/../etc"), "traversal must be rejected")
}

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	setXDG(t, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Appearance.Theme)
	assert.Equal(t, "mpg123", cfg.Players.MP3Player)

	_, statErr := os.Stat(filepath.Join(dir, "glaciera", "config.toml"))
	assert.NoError(t, statErr, "first run should write a default config file")
}

func TestLoadParsesExistingFile(t *testing.T) {
	configDir := t.TempDir()
	setXDG(t, configDir)

	dir := filepath.Join(configDir, "glaciera")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	contents := `[paths]
index = ["/music/library"]
rippers = "/music/rippers.txt"

[players]
mp3_player = "mpv"
mp3_flags = "--no-video"
ogg_player = "ogg123"
ogg_flags = ""
flac_player = "flac123"
flac_flags = ""
pls_player = "mpg123"
pls_flags = ""

[appearance]
theme = "midnight"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/music/library"}, cfg.Paths.Index)
	assert.Equal(t, "/music/rippers.txt", cfg.Paths.Rippers)
	assert.Equal(t, "mpv", cfg.Players.MP3Player)
	assert.Equal(t, "midnight", cfg.Appearance.Theme)
}

func TestLoadRejectsRelativeLibraryPath(t *testing.T) {
	configDir := t.TempDir()
	setXDG(t, configDir)

	dir := filepath.Join(configDir, "glaciera")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	contents := "[paths]\nindex = [\"relative/music\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.True(t, glacierr.Is(err, glacierr.KindConfigMalformed))
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	configDir := t.TempDir()
	setXDG(t, configDir)

	dir := filepath.Join(configDir, "glaciera")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0o644))

	cfg, err := Load()
	require.Error(t, err)
	assert.True(t, glacierr.Is(err, glacierr.KindConfigMalformed))
	// §7: built-in defaults are still returned for unset keys.
	assert.Equal(t, "default", cfg.Appearance.Theme)
}

func TestDataAndCacheDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	require.NoError(t, xdg.Reload())

	assert.Equal(t, filepath.Join(dir, "data", "glaciera"), DataDir())
	assert.Equal(t, filepath.Join(dir, "data", "glaciera", "glaciera.db"), DBPath())
	assert.Equal(t, filepath.Join(dir, "data", "glaciera", "playlists"), PlaylistDir())
	assert.Equal(t, filepath.Join(dir, "cache", "glaciera"), CacheDir())
}
