package probe

import (
	"encoding/binary"
	"os"
	"strings"

	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// OGG reads the Ogg container's identification and Vorbis-comment header
// packets directly, grounded on original_source/src/mod_ogg.c's use of
// libvorbisfile for the same two facts (sample rate for duration, comment
// map for tags), reimplemented against the raw Ogg page/packet framing so
// the probe only needs a container reader, never a PCM decoder (§1
// Non-goals: no audio decoding in-process).
type OGG struct{}

func (OGG) IsIt(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".ogg")
}

func (OGG) ReadInfo(path string) (tuneinfo.TuneInfo, error) {
	var ti tuneinfo.TuneInfo
	ti.Genre = tuneinfo.GenreUnknown

	fi, err := os.Stat(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindNotFound, "probe.OGG.ReadInfo", path, err)
	}
	ti.FileSize = fi.Size()
	ti.FileDate = fi.ModTime().Unix()

	buf, err := os.ReadFile(path)
	if err != nil {
		return ti, glacierr.New(glacierr.KindPermissionDenied, "probe.OGG.ReadInfo", path, err)
	}

	pages, err := readOggPages(buf)
	if err != nil || len(pages) == 0 {
		return ti, glacierr.New(glacierr.KindFormatInvalid, "probe.OGG.ReadInfo", path, err)
	}

	ident, ok := findIdentHeader(pages)
	if !ok {
		return ti, glacierr.New(glacierr.KindFormatInvalid, "probe.OGG.ReadInfo", path, nil)
	}

	var maxGranule uint64
	for _, p := range pages {
		if p.granule != ^uint64(0) && p.granule > maxGranule {
			maxGranule = p.granule
		}
	}

	if ident.sampleRate > 0 && maxGranule > 0 {
		ti.Duration = int(maxGranule / uint64(ident.sampleRate))
	}
	if ti.Duration > 0 && ti.FileSize > 0 {
		ti.Bitrate = int(8 * ti.FileSize / 1000 / int64(ti.Duration))
	}

	ti.Clamp()
	return ti, nil
}

func (OGG) ReadMetadata(path string) (tuneinfo.TrackMetadata, error) {
	meta := tuneinfo.TrackMetadata{TrackNumber: -1}

	buf, err := os.ReadFile(path)
	if err != nil {
		return meta, glacierr.New(glacierr.KindPermissionDenied, "probe.OGG.ReadMetadata", path, err)
	}

	pages, err := readOggPages(buf)
	if err != nil {
		return meta, glacierr.New(glacierr.KindFormatInvalid, "probe.OGG.ReadMetadata", path, err)
	}

	comments, ok := findCommentHeader(pages)
	if !ok {
		return meta, nil
	}
	for _, c := range comments {
		applyVorbisComment(c, &meta)
	}
	return meta, nil
}

type oggPage struct {
	granule uint64
	packets [][]byte // complete packets that end on this page
}

// readOggPages walks every "OggS" page in buf, reassembling lacing so each
// returned packet is complete. Packets spanning a page boundary are
// stitched together across pages.
func readOggPages(buf []byte) ([]oggPage, error) {
	var pages []oggPage
	var pending []byte // in-progress packet carried from a previous page

	i := 0
	for i+27 <= len(buf) {
		if string(buf[i:i+4]) != "OggS" {
			i++
			continue
		}
		headerType := buf[i+5]
		granule := binary.LittleEndian.Uint64(buf[i+6 : i+14])
		segCount := int(buf[i+26])
		segTableStart := i + 27
		if segTableStart+segCount > len(buf) {
			break
		}
		segTable := buf[segTableStart : segTableStart+segCount]
		dataStart := segTableStart + segCount

		page := oggPage{granule: granule}
		if headerType&0x01 == 0 {
			pending = nil // fresh start, no continuation expected
		}

		pos := dataStart
		packetLen := 0
		packetStart := pos
		for _, segLen := range segTable {
			if pos+int(segLen) > len(buf) {
				break
			}
			packetLen += int(segLen)
			pos += int(segLen)
			if segLen < 255 {
				// Packet complete.
				full := append(append([]byte(nil), pending...), buf[packetStart:pos]...)
				page.packets = append(page.packets, full)
				pending = nil
				packetStart = pos
				packetLen = 0
			}
		}
		if packetLen > 0 {
			// Packet continues on the next page.
			pending = append(append([]byte(nil), pending...), buf[packetStart:pos]...)
		}

		pages = append(pages, page)
		i = pos
	}

	return pages, nil
}

type oggIdent struct {
	channels   int
	sampleRate int
}

func findIdentHeader(pages []oggPage) (oggIdent, bool) {
	for _, p := range pages {
		for _, pkt := range p.packets {
			if len(pkt) >= 7 && pkt[0] == 1 && string(pkt[1:7]) == "vorbis" {
				if len(pkt) < 16 {
					continue
				}
				channels := int(pkt[11])
				rate := binary.LittleEndian.Uint32(pkt[12:16])
				return oggIdent{channels: channels, sampleRate: int(rate)}, true
			}
		}
	}
	return oggIdent{}, false
}

func findCommentHeader(pages []oggPage) ([]string, bool) {
	for _, p := range pages {
		for _, pkt := range p.packets {
			if len(pkt) >= 7 && pkt[0] == 3 && string(pkt[1:7]) == "vorbis" {
				return parseVorbisCommentPacket(pkt[7:])
			}
		}
	}
	return nil, false
}

func parseVorbisCommentPacket(body []byte) ([]string, bool) {
	if len(body) < 4 {
		return nil, false
	}
	vendorLen := int(binary.LittleEndian.Uint32(body[0:4]))
	off := 4 + vendorLen
	if off+4 > len(body) {
		return nil, false
	}
	count := int(binary.LittleEndian.Uint32(body[off : off+4]))
	off += 4

	var comments []string
	for i := 0; i < count; i++ {
		if off+4 > len(body) {
			break
		}
		n := int(binary.LittleEndian.Uint32(body[off : off+4]))
		off += 4
		if n < 0 || off+n > len(body) {
			break
		}
		comments = append(comments, string(body[off:off+n]))
		off += n
	}
	return comments, true
}
