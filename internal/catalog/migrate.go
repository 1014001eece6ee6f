package catalog

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

const legacyOffsetsSize = 32 // four little-endian uint64 offsets per record
const legacyTuneInfoSize = 14

// migrateLegacy ingests the §6.3 five-file flat format if present in dir,
// under one transaction, then unlinks the legacy files. "0.db" is a packed
// array of per-record {pathOff, displayOff, searchOff, infoOff} offsets;
// "1.db"/"2.db"/"3.db" are concatenated NUL-terminated strings; "4.db" is a
// packed array of fixed-size TuneInfo records.
func (s *Store) migrateLegacy(dir string) error {
	indexPath := filepath.Join(dir, "0.db")
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return nil
	}

	names := []string{"0.db", "1.db", "2.db", "3.db", "4.db"}
	bufs := make([][]byte, len(names))
	for i, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				// Partial legacy set: nothing coherent to migrate.
				return nil
			}
			return glacierr.New(glacierr.KindStoreIntegrity, "catalog.migrateLegacy", name, err)
		}
		bufs[i] = b
	}
	idxBuf, pathBuf, displayBuf, searchBuf, infoBuf := bufs[0], bufs[1], bufs[2], bufs[3], bufs[4]

	n := len(idxBuf) / legacyOffsetsSize
	if n == 0 {
		return removeLegacyFiles(dir, names)
	}

	err := s.WithTx(func(tx *sql.Tx) error {
		for i := 0; i < n; i++ {
			rec := idxBuf[i*legacyOffsetsSize : (i+1)*legacyOffsetsSize]
			pathOff := binary.LittleEndian.Uint64(rec[0:8])
			displayOff := binary.LittleEndian.Uint64(rec[8:16])
			searchOff := binary.LittleEndian.Uint64(rec[16:24])

			path := cString(pathBuf, pathOff)
			display := cString(displayBuf, displayOff)
			search := cString(searchBuf, searchOff)
			if path == "" {
				continue
			}

			info := legacyTuneInfoAt(infoBuf, i)

			t := &tuneinfo.Track{Path: path, Display: display, Search: search, Info: info}
			if _, insErr := s.Upsert(tx, t); insErr != nil {
				return insErr
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return removeLegacyFiles(dir, names)
}

func removeLegacyFiles(dir string, names []string) error {
	for _, name := range names {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return glacierr.New(glacierr.KindStoreIntegrity, "catalog.migrateLegacy", name, err)
		}
	}
	return nil
}

// cString reads a NUL-terminated string starting at offset off in buf.
func cString(buf []byte, off uint64) string {
	if off >= uint64(len(buf)) {
		return ""
	}
	rest := buf[off:]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		return string(rest[:i])
	}
	return string(rest)
}

// legacyTuneInfoAt decodes the fixed 14-byte TuneInfo record at index i of
// 4.db: 4-byte filesize, 4-byte mtime, 2-byte duration, 2-byte bitrate,
// 1-byte genre, 1-byte rating, all little-endian.
func legacyTuneInfoAt(buf []byte, i int) tuneinfo.TuneInfo {
	var ti tuneinfo.TuneInfo
	off := i * legacyTuneInfoSize
	if off+legacyTuneInfoSize > len(buf) {
		ti.Genre = tuneinfo.GenreUnknown
		return ti
	}
	rec := buf[off : off+legacyTuneInfoSize]
	ti.FileSize = int64(binary.LittleEndian.Uint32(rec[0:4]))
	ti.FileDate = int64(binary.LittleEndian.Uint32(rec[4:8]))
	ti.Duration = int(binary.LittleEndian.Uint16(rec[8:10]))
	ti.Bitrate = int(binary.LittleEndian.Uint16(rec[10:12]))
	ti.Genre = rec[12]
	ti.Rating = int(rec[13])
	ti.Clamp()
	return ti
}
