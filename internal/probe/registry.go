package probe

import "path/filepath"

// Registry is the fixed preference order §4.1 requires: a playlist
// wrapper must be recognized before the extension of the file it might
// otherwise resemble. Grounded on original_source/src/music.c's
// music_register_all_modules (a linked list of filetype vtables probed in
// registration order), redesigned per spec.md §9 as a static slice of the
// Probe interface instead of function-pointer dispatch.
var Registry = []Probe{
	Playlist{},
	FLAC{},
	OGG{},
	MP3{},
}

// Match returns the first registered probe whose IsIt recognizes path's
// filename, and false if none do.
func Match(path string) (Probe, bool) {
	name := filepath.Base(path)
	for _, p := range Registry {
		if p.IsIt(name) {
			return p, true
		}
	}
	return nil, false
}
