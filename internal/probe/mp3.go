package probe

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/mmap"
	textutf16 "golang.org/x/text/encoding/unicode"

	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// MP3 reads MPEG audio frame headers and ID3 tags from scratch, grounded on
// original_source/src/mod_mp3.c. No bitstream library in the pack covers
// this format's header math, so it is handwritten against the spec.
type MP3 struct{}

func (MP3) IsIt(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".mp3")
}

// mpegFrequencyTable[versionIndex][frequencyIndex], versionIndex 0 is
// MPEG 2.5, 1 is reserved, 2 is MPEG 2, 3 is MPEG 1.
var mpegFrequencyTable = [4][3]int{
	{32000, 16000, 8000},
	{0, 0, 0},
	{22050, 24000, 16000},
	{44100, 48000, 32000},
}

// mpegBitrateTable[isMPEG1][layerIndex-1][bitrateIndex].
var mpegBitrateTable = [2][3][16]int{
	{
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
	},
	{
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
	},
}

type mpegHeader uint32

func (h mpegHeader) frameSync() int     { return int((h >> 21) & 0x7FF) }
func (h mpegHeader) versionIndex() int  { return int((h >> 19) & 0x03) }
func (h mpegHeader) layerIndex() int    { return int((h >> 17) & 0x03) }
func (h mpegHeader) bitrateIndex() int  { return int((h >> 12) & 0x0F) }
func (h mpegHeader) freqIndex() int     { return int((h >> 10) & 0x03) }
func (h mpegHeader) modeIndex() int     { return int((h >> 6) & 0x03) }
func (h mpegHeader) emphasisIndex() int { return int(h & 0x03) }

func (h mpegHeader) valid() bool {
	return h.frameSync() == 0x7FF &&
		h.versionIndex() != 1 &&
		h.layerIndex() != 0 &&
		h.bitrateIndex() != 0 && h.bitrateIndex() != 15 &&
		h.freqIndex() != 3 &&
		h.emphasisIndex() != 2
}

func (h mpegHeader) frequency() int {
	return mpegFrequencyTable[h.versionIndex()][h.freqIndex()]
}

// bitrate returns the average bitrate in kbit/s. variableFrames is the
// Xing frame count, 0 for CBR.
func (h mpegHeader) bitrate(fileSize int64, variableFrames int) int {
	if variableFrames > 0 {
		medFrameSize := float64(fileSize) / float64(variableFrames)
		samplesPerFrame := 144.0
		if h.layerIndex() == 3 { // Layer I
			samplesPerFrame = 12.0
		}
		return int((medFrameSize * float64(h.frequency())) / (1000.0 * samplesPerFrame))
	}

	isMPEG1 := 0
	if h.versionIndex()&1 == 1 {
		isMPEG1 = 1
	}
	return mpegBitrateTable[isMPEG1][h.layerIndex()-1][h.bitrateIndex()]
}

func lengthInSeconds(fileSize int64, bitrate int) int {
	if bitrate == 0 {
		return 0
	}
	kiloBitFileSize := int(8 * fileSize / 1000)
	return kiloBitFileSize / bitrate
}

// ReadInfo scans for the first valid MPEG frame header, computes bitrate
// and duration from it (Xing VBR frames use the packed frame count instead
// of the lookup table), and reads the ID3v1 trailer's genre byte if present.
func (MP3) ReadInfo(path string) (tuneinfo.TuneInfo, error) {
	var ti tuneinfo.TuneInfo

	fi, err := os.Stat(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindNotFound, "probe.MP3.ReadInfo", path, err)
	}
	ti.FileSize = fi.Size()
	ti.FileDate = fi.ModTime().Unix()
	ti.Genre = tuneinfo.GenreUnknown

	if ti.FileSize == 0 {
		return ti, glacierr.New(glacierr.KindFormatInvalid, "probe.MP3.ReadInfo", path, nil)
	}

	r, err := mmap.Open(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindPermissionDenied, "probe.MP3.ReadInfo", path, err)
	}
	defer r.Close()

	n := r.Len()
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return ti, glacierr.New(glacierr.KindPermissionDenied, "probe.MP3.ReadInfo", path, err)
	}

	for i := 0; i+4 <= n; i++ {
		if buf[i] != 0xFF {
			continue
		}
		h := mpegHeader(uint32(buf[i])<<24 | uint32(buf[i+1])<<16 | uint32(buf[i+2])<<8 | uint32(buf[i+3]))
		if !h.valid() {
			continue
		}

		pos := i + 4
		if h.versionIndex() == 3 { // MPEG 1
			if h.modeIndex() == 3 {
				pos += 17
			} else {
				pos += 32
			}
		} else {
			if h.modeIndex() == 3 {
				pos += 9
			} else {
				pos += 17
			}
		}

		variableFrames := 0
		if pos+12 <= n && buf[pos] == 'X' && buf[pos+1] == 'i' && buf[pos+2] == 'n' && buf[pos+3] == 'g' {
			if buf[pos+7]&0x01 != 0 {
				variableFrames = int(uint32(buf[pos+8])<<24 | uint32(buf[pos+9])<<16 | uint32(buf[pos+10])<<8 | uint32(buf[pos+11]))
			}
		}

		ti.Bitrate = h.bitrate(ti.FileSize, variableFrames)
		ti.Duration = lengthInSeconds(ti.FileSize, ti.Bitrate)

		if n >= 128 {
			trailer := buf[n-128:]
			if trailer[0] == 'T' && trailer[1] == 'A' && trailer[2] == 'G' {
				ti.Genre = trailer[127]
			}
		}

		ti.Clamp()
		return ti, nil
	}

	return ti, glacierr.New(glacierr.KindFormatInvalid, "probe.MP3.ReadInfo", path, nil)
}

// id3v1Layout mirrors the 128-byte "TAG" trailer.
const (
	id3v1TitleOffset   = 3
	id3v1ArtistOffset  = 33
	id3v1AlbumOffset   = 63
	id3v1CommentOffset = 97
	id3v1GenreOffset   = 127
	id3v1FieldLen      = 30
)

func (MP3) ReadMetadata(path string) (tuneinfo.TrackMetadata, error) {
	meta := tuneinfo.TrackMetadata{TrackNumber: -1}

	r, err := mmap.Open(path)
	if err != nil {
		return meta, glacierr.New(glacierr.KindPermissionDenied, "probe.MP3.ReadMetadata", path, err)
	}
	defer r.Close()

	n := r.Len()
	if n == 0 {
		return meta, nil
	}
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return meta, glacierr.New(glacierr.KindPermissionDenied, "probe.MP3.ReadMetadata", path, err)
	}

	parseID3v2(buf, &meta)
	parseID3v1(buf, &meta)
	return meta, nil
}

func parseID3v1(buf []byte, meta *tuneinfo.TrackMetadata) {
	if len(buf) < 128 {
		return
	}
	tag := buf[len(buf)-128:]
	if tag[0] != 'T' || tag[1] != 'A' || tag[2] != 'G' {
		return
	}

	setIfEmpty(&meta.Title, trimASCIIField(tag[id3v1TitleOffset:id3v1TitleOffset+id3v1FieldLen]))
	setIfEmpty(&meta.Artist, trimASCIIField(tag[id3v1ArtistOffset:id3v1ArtistOffset+id3v1FieldLen]))
	setIfEmpty(&meta.Album, trimASCIIField(tag[id3v1AlbumOffset:id3v1AlbumOffset+id3v1FieldLen]))

	comment := tag[id3v1CommentOffset : id3v1CommentOffset+id3v1FieldLen]
	// ID3v1.1 "track number" extension: comment[28]==0 and comment[29]!=0.
	if meta.TrackNumber < 0 && comment[28] == 0 && comment[29] != 0 {
		meta.TrackNumber = int(comment[29])
	}
	if meta.Track == "" && meta.TrackNumber > 0 {
		meta.Track = strconv.Itoa(meta.TrackNumber)
	}
}

func trimASCIIField(b []byte) string {
	start, end := 0, len(b)
	for start < end && (b[start] == 0 || unicode.IsSpace(rune(b[start]))) {
		start++
	}
	for end > start && (b[end-1] == 0 || unicode.IsSpace(rune(b[end-1]))) {
		end--
	}
	if end <= start {
		return ""
	}
	return string(b[start:end])
}

func setIfEmpty(dest *string, value string) {
	if value != "" && *dest == "" {
		*dest = value
	}
}

func readBE32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func readSynchsafe32(b []byte) uint32 {
	return uint32(b[0]&0x7f)<<21 | uint32(b[1]&0x7f)<<14 | uint32(b[2]&0x7f)<<7 | uint32(b[3]&0x7f)
}

func parseID3v2(buf []byte, meta *tuneinfo.TrackMetadata) {
	if len(buf) < 10 || string(buf[:3]) != "ID3" {
		return
	}
	version := buf[3]
	if version < 3 || version > 4 {
		return
	}
	flags := buf[5]
	tagSize := readSynchsafe32(buf[6:10])

	offset := 10
	limit := offset + int(tagSize)
	if limit > len(buf) {
		limit = len(buf)
	}

	offset = skipExtendedHeader(buf, offset, limit, version, flags)

	for offset+10 <= limit {
		consumed := decodeFrame(buf[offset:limit], version, meta)
		if consumed == 0 {
			break
		}
		offset += consumed
	}
}

func skipExtendedHeader(buf []byte, offset, limit int, version, flags byte) int {
	if flags&0x40 == 0 || offset >= limit {
		return offset
	}
	switch version {
	case 4:
		if offset+4 > limit {
			return offset
		}
		extSize := int(readSynchsafe32(buf[offset : offset+4]))
		if extSize > 0 && offset+extSize <= limit {
			return offset + extSize
		}
	case 3:
		if offset+4 > limit {
			return offset
		}
		extSize := int(readBE32(buf[offset : offset+4]))
		if extSize > 0 && offset+4+extSize <= limit {
			return offset + 4 + extSize
		}
	}
	return offset
}

// decodeFrame parses one ID3v2 frame and returns its total size (header +
// body), or 0 if frame decoding should stop (padding reached or the frame
// is malformed).
func decodeFrame(frame []byte, version byte, meta *tuneinfo.TrackMetadata) int {
	if len(frame) < 10 || frame[0] == 0 {
		return 0
	}

	id := string(frame[:4])
	for _, c := range id {
		if !unicode.IsDigit(c) && !unicode.IsUpper(c) && !unicode.IsLower(c) {
			return 0
		}
	}

	var frameSize uint32
	if version == 4 {
		frameSize = readSynchsafe32(frame[4:8])
	} else {
		frameSize = readBE32(frame[4:8])
	}
	if frameSize == 0 || int(frameSize) > len(frame)-10 {
		return 0
	}

	parseTextFrame(id, frame[10:10+int(frameSize)], meta)
	return 10 + int(frameSize)
}

func parseTextFrame(id string, data []byte, meta *tuneinfo.TrackMetadata) {
	if id[0] != 'T' || len(data) < 2 {
		return
	}
	value := decodeID3Text(data[0], data[1:])
	if value == "" {
		return
	}

	switch id {
	case "TIT2":
		setIfEmpty(&meta.Title, value)
	case "TPE1":
		setIfEmpty(&meta.Artist, value)
	case "TALB":
		setIfEmpty(&meta.Album, value)
	case "TRCK":
		if meta.TrackNumber < 0 {
			if n, err := strconv.Atoi(strings.SplitN(value, "/", 2)[0]); err == nil && n > 0 {
				meta.TrackNumber = n
			}
		}
		setIfEmpty(&meta.Track, value)
	}
}

func decodeID3Text(encoding byte, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	switch encoding {
	case 0: // ISO-8859-1
		return trimASCIIField(data)
	case 3: // UTF-8
		if i := strings.IndexByte(string(data), 0); i >= 0 {
			data = data[:i]
		}
		return trimASCIIField(data)
	case 1: // UTF-16, endianness from BOM if present, else big-endian
		return decodeUTF16(data, textutf16.BigEndian, textutf16.UseBOM)
	case 2: // UTF-16BE without BOM
		return decodeUTF16(data, textutf16.BigEndian, textutf16.IgnoreBOM)
	default:
		return ""
	}
}

// decodeUTF16 uses golang.org/x/text/encoding/unicode so BOM handling and
// surrogate-pair reassembly follow the same code the rest of the ecosystem
// relies on for ID3v2 encoding 1/2 text frames.
func decodeUTF16(data []byte, endian textutf16.Endianness, bom textutf16.BOMPolicy) string {
	if i := len(data) - len(data)%2; i < len(data) {
		data = data[:i]
	}
	dec := textutf16.UTF16(endian, bom).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return ""
	}
	if nul := strings.IndexByte(string(out), 0); nul >= 0 {
		out = out[:nul]
	}
	return strings.TrimSpace(string(out))
}
