package display

import (
	"strings"

	"github.com/itspluxstahre/glaciera/internal/ripper"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// FromFilename synthesizes a display name from a track's path alone, using
// the directory's column Keeper to drop the bytes shared by every sibling
// and a ripper list to drop a trailing website tag. fullPath must be
// absolute and use '/' separators (I1).
func FromFilename(fullPath string, keeper Keeper, rip *ripper.List) string {
	massaged := massageFullPath(fullPath)
	base := lastComponent(massaged)

	var kept strings.Builder
	for i := 0; i < len(base); i++ {
		if keeper.Test(i) {
			kept.WriteByte(base[i])
		}
	}

	stripped := rip.Strip(kept.String())
	return cleanup(stripped)
}

// FromMetadata synthesizes a display name from decoded tag metadata,
// matching the original's build_display_from_metadata fallback chain:
// prefer "Artist - Title", fall back to Title alone, then Album alone.
// Returns "" if meta carries nothing usable, signaling the caller should
// fall back to FromFilename.
func FromMetadata(meta tuneinfo.TrackMetadata) string {
	artist := strings.TrimSpace(meta.Artist)
	title := strings.TrimSpace(meta.Title)
	album := strings.TrimSpace(meta.Album)

	switch {
	case artist != "" && title != "":
		return cleanup(artist + " - " + title)
	case title != "":
		return cleanup(title)
	case album != "":
		return cleanup(album)
	default:
		return ""
	}
}

// Synthesize implements spec §4.3's overall rule: prefer the metadata-based
// name, falling back to the column/filename method when tag extraction
// yielded nothing usable.
func Synthesize(fullPath string, meta tuneinfo.TrackMetadata, keeper Keeper, rip *ripper.List) string {
	if name := FromMetadata(meta); name != "" {
		return name
	}
	return FromFilename(fullPath, keeper, rip)
}
