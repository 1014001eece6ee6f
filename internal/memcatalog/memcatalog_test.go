package memcatalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

func track(path, display, search string) tuneinfo.Track {
	return tuneinfo.Track{Path: path, Display: display, Search: search}
}

func TestLoadSortsCaseInsensitively(t *testing.T) {
	c := Load([]tuneinfo.Track{
		track("/b", "banana", "BANANA"),
		track("/a", "Apple", "APPLE"),
		track("/c", "cherry", "CHERRY"),
	})

	require := func(cond bool, msg string) {
		if !cond {
			t.Fatal(msg)
		}
	}
	require(c.Len() == 3, "expected 3 tracks")

	for i := 0; i+1 < c.Len(); i++ {
		a := strings.ToUpper(c.At(i).Display)
		b := strings.ToUpper(c.At(i + 1).Display)
		assert.LessOrEqual(t, a, b, "P2: sort must be case-insensitive ascending")
	}
}

func TestBucketCoversExactRange(t *testing.T) {
	c := Load([]tuneinfo.Track{
		track("/a1", "Apple", "APPLE"),
		track("/a2", "Avocado", "AVOCADO"),
		track("/b1", "Banana", "BANANA"),
	})

	bucket := c.Bucket('A')
	assert.Equal(t, 2, bucket.Hi-bucket.Lo)
	for i := bucket.Lo; i < bucket.Hi; i++ {
		assert.Equal(t, byte('A'), c.At(i).Search[0])
	}

	bucket = c.Bucket('Z')
	assert.Equal(t, 0, bucket.Hi-bucket.Lo, "unused letters must have an empty bucket")
}

func TestIndexOfAndByPath(t *testing.T) {
	c := Load([]tuneinfo.Track{
		track("/a1", "Apple", "APPLE"),
		track("/b1", "Banana", "BANANA"),
	})

	idx, ok := c.IndexOf("/b1")
	assert.True(t, ok)
	assert.Equal(t, "Banana", c.At(idx).Display)

	_, ok = c.IndexOf("/missing")
	assert.False(t, ok)

	assert.Nil(t, c.ByPath("/missing"))
	assert.NotNil(t, c.ByPath("/a1"))
}

func TestNextSkipsEmptySearch(t *testing.T) {
	c := Load([]tuneinfo.Track{
		track("/a1", "Apple", "APPLE"),
		track("/a2", "Avocado", ""), // zero-duration or synthetic-like row
		track("/b1", "Banana", "BANANA"),
	})

	idx, _ := c.IndexOf("/a1")
	next, nextIdx := c.Next(idx)
	assert.Equal(t, "/b1", next.Path, "Next must skip rows with empty search text")
	assert.Equal(t, 2, nextIdx)

	_, endIdx := c.Next(nextIdx)
	assert.Equal(t, -1, endIdx, "Next past the end returns -1")
}

func TestFirstReturnsFirstNonEmptySearch(t *testing.T) {
	c := Load([]tuneinfo.Track{
		track("/a1", "Apple", ""),
		track("/b1", "Banana", "BANANA"),
	})

	first, idx := c.First()
	assert.Equal(t, "/b1", first.Path)
	assert.Equal(t, 1, idx)
}
