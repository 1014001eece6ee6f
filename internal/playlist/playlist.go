// Package playlist implements the ordered track list (spec §2 Playlist,
// §6.4 file format) and the append-only play history (§6.5), generalized
// from the teacher's in-memory editable-list API.
package playlist

import "github.com/itspluxstahre/glaciera/internal/tuneinfo"

// Entry is one playlist row. Track is the catalog row the entry was added
// from with Add; it is nil for entries read back by Load and for
// placeholders. A placeholder stands for a path the catalog no longer has
// (the file was renamed or removed after the playlist was saved), and its
// Display carries the "??? <display>" text.
type Entry struct {
	Path      string
	Display   string
	Track     *tuneinfo.Track
	StartedAt int64 // unix seconds, 0 if never played in this session
}

// Playlist holds an ordered, path-unique (I6) sequence of entries.
type Playlist struct {
	entries []Entry
	byPath  map[string]int
}

// New creates an empty playlist.
func New() *Playlist {
	return &Playlist{byPath: make(map[string]int)}
}

// Add appends t, unless a track with the same path is already present (I6:
// adding an existing path is a no-op). Returns true if it was added.
func (p *Playlist) Add(t *tuneinfo.Track) bool {
	if _, exists := p.byPath[t.Path]; exists {
		return false
	}
	p.entries = append(p.entries, Entry{Path: t.Path, Display: t.Display, Track: t})
	p.byPath[t.Path] = len(p.entries) - 1
	return true
}

// AddPlaceholder inserts a "??? <display>" entry for a path the catalog no
// longer recognizes (a renamed or removed track, §6.4).
func (p *Playlist) AddPlaceholder(path, display string) bool {
	if _, exists := p.byPath[path]; exists {
		return false
	}
	p.entries = append(p.entries, Entry{Path: path, Display: "??? " + display})
	p.byPath[path] = len(p.entries) - 1
	return true
}

// Remove deletes the entry at index, reports false if out of range.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.entries) {
		return false
	}
	delete(p.byPath, p.entries[index].Path)
	p.entries = append(p.entries[:index], p.entries[index+1:]...)
	p.reindex()
	return true
}

// Clear removes every entry.
func (p *Playlist) Clear() {
	p.entries = p.entries[:0]
	p.byPath = make(map[string]int)
}

// Move relocates the entry at fromIndex to toIndex, shifting the entries
// between them.
func (p *Playlist) Move(fromIndex, toIndex int) bool {
	if fromIndex < 0 || fromIndex >= len(p.entries) || toIndex < 0 || toIndex >= len(p.entries) {
		return false
	}
	if fromIndex == toIndex {
		return true
	}
	e := p.entries[fromIndex]
	p.entries = append(p.entries[:fromIndex], p.entries[fromIndex+1:]...)
	p.entries = append(p.entries[:toIndex], append([]Entry{e}, p.entries[toIndex:]...)...)
	p.reindex()
	return true
}

// Entries returns a copy of the playlist contents.
func (p *Playlist) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// At returns the entry at index, or nil if out of range.
func (p *Playlist) At(index int) *Entry {
	if index < 0 || index >= len(p.entries) {
		return nil
	}
	return &p.entries[index]
}

// Len reports the number of entries.
func (p *Playlist) Len() int { return len(p.entries) }

// Contains reports whether path is already in the playlist (I6).
func (p *Playlist) Contains(path string) bool {
	_, ok := p.byPath[path]
	return ok
}

// Duration is the find_duration_of_playlist operation. It always returns
// 0; entry durations are not summed.
func (p *Playlist) Duration() int { return 0 }

func (p *Playlist) reindex() {
	p.byPath = make(map[string]int, len(p.entries))
	for i, e := range p.entries {
		p.byPath[e.Path] = i
	}
}
