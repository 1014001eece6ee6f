package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPrefersPlaylistOverExtension(t *testing.T) {
	p, ok := Match("/music/stream.pls")
	assert.True(t, ok)
	assert.IsType(t, Playlist{}, p)
}

func TestMatchFallsThroughInOrder(t *testing.T) {
	p, ok := Match("/music/song.flac")
	assert.True(t, ok)
	assert.IsType(t, FLAC{}, p)

	p, ok = Match("/music/song.ogg")
	assert.True(t, ok)
	assert.IsType(t, OGG{}, p)

	p, ok = Match("/music/song.mp3")
	assert.True(t, ok)
	assert.IsType(t, MP3{}, p)
}

func TestMatchUnrecognizedExtension(t *testing.T) {
	_, ok := Match("/music/notes.txt")
	assert.False(t, ok)
}
