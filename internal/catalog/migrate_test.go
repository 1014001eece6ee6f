package catalog

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLegacyFixture builds a minimal §6.3 five-file legacy catalog with
// one record: path "/music/old.mp3", display "Old Song", search "OLDSONG".
func writeLegacyFixture(t *testing.T, dir string) {
	t.Helper()

	pathBuf := []byte("/music/old.mp3\x00")
	displayBuf := []byte("Old Song\x00")
	searchBuf := []byte("OLDSONG\x00")

	idx := make([]byte, legacyOffsetsSize)
	binary.LittleEndian.PutUint64(idx[0:8], 0)
	binary.LittleEndian.PutUint64(idx[8:16], 0)
	binary.LittleEndian.PutUint64(idx[16:24], 0)
	binary.LittleEndian.PutUint64(idx[24:32], 0)

	info := make([]byte, legacyTuneInfoSize)
	binary.LittleEndian.PutUint32(info[0:4], 4096000)
	binary.LittleEndian.PutUint32(info[4:8], 1600000000)
	binary.LittleEndian.PutUint16(info[8:10], 180)
	binary.LittleEndian.PutUint16(info[10:12], 192)
	info[12] = 17 // genre
	info[13] = 3  // rating

	require.NoError(t, os.WriteFile(filepath.Join(dir, "0.db"), idx, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.db"), pathBuf, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.db"), displayBuf, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3.db"), searchBuf, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "4.db"), info, 0o644))
}

func TestMigrateLegacyImportsAndDeletesFiles(t *testing.T) {
	dir := t.TempDir()
	writeLegacyFixture(t, dir)

	s, err := Open(filepath.Join(dir, "glaciera.db"))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetByFilepath("/music/old.mp3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Old Song", got.Display)
	assert.Equal(t, "OLDSONG", got.Search)
	assert.Equal(t, 180, got.Info.Duration)
	assert.Equal(t, byte(17), got.Info.Genre)

	for _, name := range []string{"0.db", "1.db", "2.db", "3.db", "4.db"} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(statErr), "legacy file %s should be removed after migration", name)
	}
}

func TestMigrateLegacyNoOpWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "glaciera.db"))
	require.NoError(t, err)
	defer s.Close()

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
