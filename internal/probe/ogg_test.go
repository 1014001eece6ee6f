package probe

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildOggPage wraps payload in one minimal Ogg page (no continuation,
// "fresh packet" header type, single segment unless payload needs lacing).
func buildOggPage(granule uint64, payload []byte, headerType byte) []byte {
	var segs []byte
	remaining := len(payload)
	for remaining >= 255 {
		segs = append(segs, 255)
		remaining -= 255
	}
	segs = append(segs, byte(remaining))

	page := []byte("OggS")
	page = append(page, 0) // version
	page = append(page, headerType)
	granuleBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(granuleBuf, granule)
	page = append(page, granuleBuf...)
	page = append(page, make([]byte, 4)...) // serial
	page = append(page, make([]byte, 4)...) // sequence
	page = append(page, make([]byte, 4)...) // checksum
	page = append(page, byte(len(segs)))
	page = append(page, segs...)
	page = append(page, payload...)
	return page
}

func vorbisIdentPacket(sampleRate uint32, channels byte) []byte {
	p := []byte{1}
	p = append(p, []byte("vorbis")...)
	p = append(p, make([]byte, 4)...) // vorbis_version
	p = append(p, channels)
	rateBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(rateBuf, sampleRate)
	p = append(p, rateBuf...)
	p = append(p, make([]byte, 12)...) // bitrate max/nominal/min
	p = append(p, 0)                   // blocksize byte
	p = append(p, 1)                   // framing bit
	return p
}

func vorbisCommentPacket(vendor string, comments []string) []byte {
	p := []byte{3}
	p = append(p, []byte("vorbis")...)

	vlen := make([]byte, 4)
	binary.LittleEndian.PutUint32(vlen, uint32(len(vendor)))
	p = append(p, vlen...)
	p = append(p, []byte(vendor)...)

	clen := make([]byte, 4)
	binary.LittleEndian.PutUint32(clen, uint32(len(comments)))
	p = append(p, clen...)
	for _, c := range comments {
		l := make([]byte, 4)
		binary.LittleEndian.PutUint32(l, uint32(len(c)))
		p = append(p, l...)
		p = append(p, []byte(c)...)
	}
	return p
}

func writeTestOgg(t *testing.T, sampleRate uint32, totalSamples uint64, comments []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ogg")

	var buf []byte
	buf = append(buf, buildOggPage(0, vorbisIdentPacket(sampleRate, 2), 0x02)...)
	buf = append(buf, buildOggPage(0, vorbisCommentPacket("glaciera-test", comments), 0x00)...)
	buf = append(buf, buildOggPage(totalSamples, []byte{0xAA, 0xBB}, 0x04)...)

	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestOGGIsIt(t *testing.T) {
	p := OGG{}
	assert.True(t, p.IsIt("track.ogg"))
	assert.True(t, p.IsIt("TRACK.OGG"))
	assert.False(t, p.IsIt("track.mp3"))
}

func TestOGGReadInfoComputesDurationAndBitrate(t *testing.T) {
	path := writeTestOgg(t, 44100, 44100*3, nil)

	p := OGG{}
	info, err := p.ReadInfo(path)
	require.NoError(t, err)
	assert.Equal(t, 3, info.Duration)
	// 144 bytes over 3 s is below 1 kbit/s; integer kbit/s truncates to 0.
	assert.Equal(t, 0, info.Bitrate)
}

func TestOGGReadMetadataParsesComments(t *testing.T) {
	path := writeTestOgg(t, 44100, 44100, []string{
		"TITLE=Test Song",
		"ARTIST=Test Artist",
		"ALBUM=Test Album",
		"TRACKNUMBER=7",
	})

	p := OGG{}
	meta, err := p.ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Song", meta.Title)
	assert.Equal(t, "Test Artist", meta.Artist)
	assert.Equal(t, "Test Album", meta.Album)
	assert.Equal(t, 7, meta.TrackNumber)
}

func TestOGGReadInfoRejectsNonOggFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.ogg")
	require.NoError(t, os.WriteFile(path, []byte("not an ogg file"), 0o644))

	p := OGG{}
	_, err := p.ReadInfo(path)
	assert.Error(t, err)
}
