package probe

import (
	"bufio"
	"os"
	"strings"

	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// Playlist recognizes .pls and .m3u files. Per §4.1 it carries no format
// header of its own: detection is purely "the text file contains a line
// referencing an http stream", the same heuristic
// original_source/src/music.c uses to decide a playlist wraps a radio
// stream rather than local files it should index directly.
type Playlist struct{}

func (Playlist) IsIt(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".pls") || strings.HasSuffix(lower, ".m3u")
}

// ReadInfo succeeds iff the file contains a line matching "http" anywhere;
// otherwise it is KindFormatInvalid so the scanner falls through to
// treating it as a plain file, not a stream playlist (§4.1 edge case).
func (Playlist) ReadInfo(path string) (tuneinfo.TuneInfo, error) {
	var ti tuneinfo.TuneInfo
	ti.Genre = tuneinfo.GenreUnknown

	fi, err := os.Stat(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindNotFound, "probe.Playlist.ReadInfo", path, err)
	}
	ti.FileSize = fi.Size()
	ti.FileDate = fi.ModTime().Unix()

	f, err := os.Open(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindPermissionDenied, "probe.Playlist.ReadInfo", path, err)
	}
	defer f.Close()

	found := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.Contains(strings.ToLower(scanner.Text()), "http") {
			found = true
			break
		}
	}
	if !found {
		return ti, glacierr.New(glacierr.KindFormatInvalid, "probe.Playlist.ReadInfo", path, nil)
	}
	return ti, nil
}

// ReadMetadata is a no-op: playlists carry no track tags of their own.
func (Playlist) ReadMetadata(path string) (tuneinfo.TrackMetadata, error) {
	return tuneinfo.TrackMetadata{TrackNumber: -1}, nil
}
