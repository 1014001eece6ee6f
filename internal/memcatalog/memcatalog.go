// Package memcatalog is the player's whole-library snapshot (spec §4.5,
// C5): every track loaded once from the catalog store into a single sorted
// array plus a first-letter bucket index, so per-keystroke search (C6)
// never touches the database. Grounded on original_source/src/
// searchmp3berg.c's qsearch bucket scan and the teacher's "load once into
// memory, mutate a view over it" shape.
package memcatalog

import (
	"sort"
	"strings"

	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// Bucket is the half-open range [Lo, Hi) of the sorted array whose entries
// share one first searchable byte (I4).
type Bucket struct {
	Lo, Hi int
}

// Catalog is the in-memory, sorted snapshot of the whole track catalog.
type Catalog struct {
	tunes   []tuneinfo.Track
	qsearch [256]Bucket
	byPath  map[string]int
}

// Load copies tracks into an owned, display-sorted array (I4) and builds
// the first-letter bucket index over each track's Search projection.
func Load(tracks []tuneinfo.Track) *Catalog {
	sorted := make([]tuneinfo.Track, len(tracks))
	copy(sorted, tracks)
	sort.Slice(sorted, func(i, j int) bool {
		return lessDisplay(sorted[i].Display, sorted[j].Display, sorted[i].Path, sorted[j].Path)
	})

	c := &Catalog{tunes: sorted, byPath: make(map[string]int, len(sorted))}
	for i, t := range c.tunes {
		c.byPath[t.Path] = i
	}
	c.buildBuckets()
	return c
}

func lessDisplay(displayA, displayB, pathA, pathB string) bool {
	ua, ub := strings.ToUpper(displayA), strings.ToUpper(displayB)
	if ua != ub {
		return ua < ub
	}
	return pathA < pathB
}

func (c *Catalog) buildBuckets() {
	for i := range c.qsearch {
		c.qsearch[i] = Bucket{}
	}
	n := len(c.tunes)
	i := 0
	for i < n {
		ch := firstSearchByte(c.tunes[i].Search)
		j := i
		for j < n && firstSearchByte(c.tunes[j].Search) == ch {
			j++
		}
		c.qsearch[ch] = Bucket{Lo: i, Hi: j}
		i = j
	}
}

func firstSearchByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}

// Len reports the number of tracks loaded.
func (c *Catalog) Len() int { return len(c.tunes) }

// All returns the full sorted array, live (callers must not mutate it).
func (c *Catalog) All() []tuneinfo.Track { return c.tunes }

// At returns the track at index i, or nil if out of range.
func (c *Catalog) At(i int) *tuneinfo.Track {
	if i < 0 || i >= len(c.tunes) {
		return nil
	}
	return &c.tunes[i]
}

// Bucket returns the first-letter range for an uppercased ASCII byte c.
func (c *Catalog) Bucket(ch byte) Bucket {
	return c.qsearch[ch]
}

// IndexOf returns the catalog position of path, and whether it was found.
func (c *Catalog) IndexOf(path string) (int, bool) {
	i, ok := c.byPath[path]
	return i, ok
}

// ByPath returns the track at path, or nil if not present.
func (c *Catalog) ByPath(path string) *tuneinfo.Track {
	if i, ok := c.byPath[path]; ok {
		return &c.tunes[i]
	}
	return nil
}

// Next returns the next non-empty-search track after index i, wrapping
// never (the caller, per §4.6 next-track selection, falls back to the
// first catalog entry itself when nothing follows). Returns nil, -1 at the
// end of the catalog.
func (c *Catalog) Next(i int) (*tuneinfo.Track, int) {
	for j := i + 1; j < len(c.tunes); j++ {
		if c.tunes[j].Search != "" {
			return &c.tunes[j], j
		}
	}
	return nil, -1
}

// First returns the first catalog track with a non-empty search text, the
// last resort of §4.6's next-track selection chain.
func (c *Catalog) First() (*tuneinfo.Track, int) {
	for i := range c.tunes {
		if c.tunes[i].Search != "" {
			return &c.tunes[i], i
		}
	}
	return nil, -1
}
