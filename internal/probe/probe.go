// Package probe reads per-format audio facts (spec §4.1/§4.2): a format
// sniff from the filename, the compact TuneInfo record the scanner stores,
// and whatever tag metadata the format carries. Grounded on
// original_source/src/music.c's struct filetype vtable, redesigned per
// spec.md §9 as a static slice of an interface instead of a linked list of
// function pointers.
package probe

import "github.com/itspluxstahre/glaciera/internal/tuneinfo"

// Probe recognizes and reads one audio container format.
type Probe interface {
	// IsIt reports whether name (a bare filename, not a path) belongs to
	// this format, purely by its extension.
	IsIt(name string) bool

	// ReadInfo extracts the compact per-track facts the catalog stores.
	// A *glacierr.Error with KindFormatInvalid means the file sniffed as
	// this format but no usable header could be found; callers still
	// record the file with a zeroed TuneInfo (spec §7).
	ReadInfo(path string) (tuneinfo.TuneInfo, error)

	// ReadMetadata extracts whatever tag metadata the format carries.
	// Returns a TrackMetadata with no fields set and TrackNumber -1
	// (Empty() == true) if none was found;
	// that is not itself an error.
	ReadMetadata(path string) (tuneinfo.TrackMetadata, error)
}
