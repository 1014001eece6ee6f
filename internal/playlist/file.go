package playlist

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// TrackResolverFunc looks a playlist display name up against the catalog so
// Load can reattach the live path behind a saved display name. Callers pass
// a function backed by the in-memory catalog's display index.
type TrackResolverFunc func(display string) (path string, display2 string, found bool)

// Load reads a §6.4 playlist file: one display name per line, an
// all-digit line gives the previous entry's start timestamp and is never
// itself treated as a track, blank lines are ignored. Names the resolver
// can't find in the catalog become "??? <display>" placeholder entries so
// a renamed or removed track doesn't corrupt the rest of the file.
func Load(path string, resolve TrackResolverFunc) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pl := New()
	sc := bufio.NewScanner(f)
	var last *Entry
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			last = nil
			continue
		}
		if isAllDigits(line) {
			if last != nil {
				if ts, err := strconv.ParseInt(line, 10, 64); err == nil {
					last.StartedAt = ts
				}
			}
			continue
		}

		trackPath, display, found := resolve(line)
		if found {
			pl.entries = append(pl.entries, Entry{Path: trackPath, Display: display})
		} else {
			pl.entries = append(pl.entries, Entry{Path: line, Display: "??? " + line})
		}
		idx := len(pl.entries) - 1
		pl.byPath[pl.entries[idx].Path] = idx
		last = &pl.entries[idx]
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pl, nil
}

// Save writes pl to path in the §6.4 format: one display name per line,
// followed by a numeric start-timestamp line when the entry carries one.
func (p *Playlist) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range p.entries {
		if _, err := w.WriteString(e.Display + "\n"); err != nil {
			return err
		}
		if e.StartedAt != 0 {
			if _, err := w.WriteString(strconv.FormatInt(e.StartedAt, 10) + "\n"); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
