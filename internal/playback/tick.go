package playback

import (
	"github.com/itspluxstahre/glaciera/internal/displaylist"
	"github.com/itspluxstahre/glaciera/internal/memcatalog"
	"github.com/itspluxstahre/glaciera/internal/playlist"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// Tick implements §4.6's 1Hz progress handling: it fires the three
// background jobs as their conditions become true, never starting a second
// instance of one while it is still running. now is the current Unix
// timestamp (callers pass time.Now().Unix() so this stays deterministic to
// test). readAheadEnabled gates the read-ahead job per §6.1's `-r` flag
// ("Always (when read-ahead is enabled)").
func (c *Controller) Tick(nowUnix int64, readAheadEnabled bool) {
	c.mu.Lock()
	t := c.current
	startedAt := c.startedAt
	playing := c.state == Playing
	c.mu.Unlock()

	if t == nil || !playing {
		return
	}

	elapsed := int(nowUnix - startedAt.Unix())
	if elapsed < 0 {
		elapsed = 0
	}

	c.maybePrecache(t, elapsed)
	c.maybeAppendHistory(t, startedAt.Unix(), elapsed)
	if readAheadEnabled {
		c.maybeReadAhead(t, elapsed)
	}
}

// maybePrecache starts the pre-cache job once ≤10s remain in the track, if
// no prior instance launched by this controller is still alive and the
// target hasn't already been warmed. The target is t itself, the track
// that is playing; the track that will follow it is not pre-cached.
func (c *Controller) maybePrecache(t *tuneinfo.Track, elapsed int) {
	if t.Info.Duration <= 0 {
		return
	}
	remaining := t.Info.Duration - elapsed
	if remaining > 10 {
		return
	}

	c.mu.Lock()
	if c.precacheBusy || c.precachedPath == t.Path {
		c.mu.Unlock()
		return
	}
	c.precacheBusy = true
	c.mu.Unlock()

	go func() {
		precacheHead(t.Path)
		c.mu.Lock()
		c.precacheBusy = false
		c.precachedPath = t.Path
		c.mu.Unlock()
	}()
}

// maybeAppendHistory fires the history-append job exactly once per play,
// the first tick where playlist.PlayThreshold crosses true.
func (c *Controller) maybeAppendHistory(t *tuneinfo.Track, startedAt int64, elapsed int) {
	if !playlist.PlayThreshold(elapsed, t.Info.Duration) {
		return
	}

	c.mu.Lock()
	if c.historyBusy || c.historyLogged == t.Path {
		c.mu.Unlock()
		return
	}
	c.historyBusy = true
	c.mu.Unlock()

	go func() {
		_ = playlist.AppendHistory(c.historyDir, t.Display, startedAt)
		c.mu.Lock()
		c.historyBusy = false
		c.historyLogged = t.Path
		c.mu.Unlock()
	}()
}

// maybeReadAhead runs the always-on read-ahead job once per tick interval
// (§4.6: "Always (when read-ahead is enabled)").
func (c *Controller) maybeReadAhead(t *tuneinfo.Track, elapsed int) {
	if t.Info.Duration <= 0 || t.Info.FileSize <= 0 {
		return
	}

	c.mu.Lock()
	if c.readAheadBusy {
		c.mu.Unlock()
		return
	}
	c.readAheadBusy = true
	c.mu.Unlock()

	percent := 100 * float64(elapsed) / float64(t.Info.Duration)
	size := t.Info.FileSize

	go func() {
		readAhead(t.Path, size, percent)
		c.mu.Lock()
		c.readAheadBusy = false
		c.mu.Unlock()
	}()
}

// NextTrack implements §4.6's next-track selection chain: the next
// playlist entry, else the next display-list entry, else the next catalog
// entry, else the catalog's first entry — skipping any candidate whose
// search text is empty (a synthetic/placeholder row).
func NextTrack(current *tuneinfo.Track, pl *playlist.Playlist, list *displaylist.List, cat *memcatalog.Catalog) *tuneinfo.Track {
	if current != nil && pl != nil {
		if t := nextInPlaylist(current, pl); t != nil {
			return t
		}
	}
	if current != nil && list != nil {
		if t := nextInDisplayList(current, list); t != nil {
			return t
		}
	}
	if current != nil && cat != nil {
		if idx, ok := cat.IndexOf(current.Path); ok {
			if t, _ := cat.Next(idx); t != nil {
				return t
			}
		}
	}
	if cat != nil {
		if t, _ := cat.First(); t != nil {
			return t
		}
	}
	return nil
}

func nextInPlaylist(current *tuneinfo.Track, pl *playlist.Playlist) *tuneinfo.Track {
	entries := pl.Entries()
	for i, e := range entries {
		if e.Path != current.Path {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			if entries[j].Track != nil && entries[j].Track.Search != "" {
				return entries[j].Track
			}
		}
		return nil
	}
	return nil
}

func nextInDisplayList(current *tuneinfo.Track, list *displaylist.List) *tuneinfo.Track {
	slots := list.Slots()
	for i, s := range slots {
		if s.Track == nil || s.Track.Path != current.Path {
			continue
		}
		for j := i + 1; j < len(slots); j++ {
			if slots[j].Track != nil && slots[j].Track.Search != "" {
				return slots[j].Track
			}
		}
		return nil
	}
	return nil
}
