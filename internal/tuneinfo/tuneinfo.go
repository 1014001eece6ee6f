// Package tuneinfo defines the catalog data model shared by the indexer and
// the player: tracks, the per-track audio facts that drive list rendering
// and sorting, decoded tag metadata, and the small value types that sit on
// top of a track (playlist entries, history, now-playing).
package tuneinfo

import "time"

// GenreUnknown is the ID3v1 genre byte meaning "no genre recorded".
const GenreUnknown = 0xff

// TuneInfo holds the compact per-track facts a format probe extracts.
// Fields are deliberately narrow (see invariants I3 in spec) so a whole
// catalog's worth fits comfortably in memory.
type TuneInfo struct {
	FileSize int64 // bytes
	FileDate int64 // mtime, unix seconds
	Duration int   // seconds, 0..65535
	Bitrate  int   // kbit/s average, 0..32767
	Genre    byte  // ID3v1 genre byte, GenreUnknown if not known
	Rating   int   // user rating, 0..5
}

// Clamp forces the fields into the ranges required by invariant I3.
func (t *TuneInfo) Clamp() {
	if t.Duration < 0 {
		t.Duration = 0
	}
	if t.Duration > 65535 {
		t.Duration = 65535
	}
	if t.Bitrate < 0 {
		t.Bitrate = 0
	}
	if t.Bitrate > 32767 {
		t.Bitrate = 32767
	}
	if t.Rating < 0 {
		t.Rating = 0
	}
	if t.Rating > 5 {
		t.Rating = 5
	}
}

// Track is one catalog row. Path is the stable identity (I1); Display and
// Search are both derivable from the filesystem/tags but are stored so the
// search engine and the sorted in-memory array never need to recompute them.
type Track struct {
	ID        int64
	Path      string // absolute, UTF-8 (I1)
	Display   string // human-visible name, already denoised
	Search    string // ASCII-uppercase-alphanumerics projection of Display (I2)
	Info      TuneInfo
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackMetadata is optional decoded tag data. TrackNumber is -1 when unknown,
// matching the original's "unknown" sentinel so 0 can remain a legitimate
// (if unusual) track number coming out of a raw integer parse.
type TrackMetadata struct {
	Title       string
	Artist      string
	Album       string
	Track       string // raw string form, e.g. "3/12"
	TrackNumber int    // >=1, or -1 if unknown
}

// Empty reports whether no field carries useful information.
func (m TrackMetadata) Empty() bool {
	return m.Title == "" && m.Artist == "" && m.Album == "" && m.Track == "" && m.TrackNumber < 1
}

// Ripper is a case-insensitive filename suffix stripped during display
// synthesis (e.g. a CD-ripper's website tag appended to every track).
type Ripper struct {
	Suffix string // stored reversed for sort-by-last-character bucketing
	Len    int
}

// HistoryEntry is one completed-or-mostly-completed play, appended to the
// day's history file once the §4.6 play threshold is crossed.
type HistoryEntry struct {
	Display   string
	StartedAt int64 // unix seconds
}

// NowPlaying is owned exclusively by the playback controller.
type NowPlaying struct {
	Track     *Track
	StartedAt time.Time
	Paused    bool
	PID       int
}
