package probe

import (
	"os"
	"strconv"
	"strings"

	flac "github.com/go-flac/go-flac"

	"github.com/go-flac/flacvorbis"

	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// FLAC reads STREAMINFO (for duration) and the Vorbis comment block (for
// tags), grounded on original_source/src/mod_flac.c.
type FLAC struct{}

func (FLAC) IsIt(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".flac")
}

func (FLAC) ReadInfo(path string) (tuneinfo.TuneInfo, error) {
	var ti tuneinfo.TuneInfo
	ti.Genre = tuneinfo.GenreUnknown

	fi, err := os.Stat(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindNotFound, "probe.FLAC.ReadInfo", path, err)
	}
	ti.FileSize = fi.Size()
	ti.FileDate = fi.ModTime().Unix()

	f, err := flac.ParseFile(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindFormatInvalid, "probe.FLAC.ReadInfo", path, err)
	}

	for _, block := range f.Meta {
		if block.Type != flac.StreamInfo {
			continue
		}
		si, err := parseStreamInfo(block.Data)
		if err != nil {
			continue
		}
		if si.sampleRate > 0 {
			ti.Duration = int(si.totalSamples / uint64(si.sampleRate))
		}
		if ti.FileSize > 0 && ti.Duration > 0 {
			ti.Bitrate = int(8 * ti.FileSize / 1000 / int64(ti.Duration))
		}
		break
	}

	ti.Clamp()
	return ti, nil
}

func (FLAC) ReadMetadata(path string) (tuneinfo.TrackMetadata, error) {
	meta := tuneinfo.TrackMetadata{TrackNumber: -1}

	f, err := flac.ParseFile(path)
	if err != nil {
		return meta, glacierr.New(glacierr.KindFormatInvalid, "probe.FLAC.ReadMetadata", path, err)
	}

	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		vc, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			continue
		}
		for _, comment := range vc.Comments {
			applyVorbisComment(comment, &meta)
		}
		break
	}

	return meta, nil
}

func applyVorbisComment(comment string, meta *tuneinfo.TrackMetadata) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok || value == "" {
		return
	}
	switch strings.ToUpper(key) {
	case "TITLE":
		setIfEmpty(&meta.Title, value)
	case "ARTIST":
		setIfEmpty(&meta.Artist, value)
	case "ALBUM":
		setIfEmpty(&meta.Album, value)
	case "TRACKNUMBER", "TRACK":
		setIfEmpty(&meta.Track, value)
		if meta.TrackNumber < 0 {
			num := value
			if i := strings.IndexByte(num, '/'); i >= 0 {
				num = num[:i]
			}
			if n, err := strconv.Atoi(num); err == nil && n > 0 {
				meta.TrackNumber = n
			}
		}
	}
}

type streamInfo struct {
	sampleRate   uint32
	totalSamples uint64
}

// parseStreamInfo decodes the 34-byte STREAMINFO block per the FLAC
// format spec: 16+16 bits block size, 24+24 bits frame size, then a packed
// 20-bit sample rate / 3-bit (channels-1) / 5-bit (bits-per-sample-1) /
// 36-bit total-sample-count field, followed by a 128-bit MD5.
func parseStreamInfo(data []byte) (streamInfo, error) {
	if len(data) < 18 {
		return streamInfo{}, glacierr.New(glacierr.KindFormatInvalid, "probe.parseStreamInfo", "", nil)
	}
	// Bytes 10..17 (0-indexed) hold the packed sample-rate/channels/bps/samples field.
	packed := data[10:18]
	sampleRate := uint32(packed[0])<<12 | uint32(packed[1])<<4 | uint32(packed[2])>>4
	totalSamples := uint64(packed[3]&0x0F)<<32 | uint64(packed[4])<<24 | uint64(packed[5])<<16 | uint64(packed[6])<<8 | uint64(packed[7])

	return streamInfo{sampleRate: sampleRate, totalSamples: totalSamples}, nil
}
