// Package catalog implements the persistent track store (spec §4.2): a
// sqlite-backed row store keyed by filepath, with batched transactional
// writes, substring search, and a one-time migration from the legacy §6.3
// flat-file format. Grounded on the teacher's internal/state (schema
// versioning, WAL pragmas, sql.Open("sqlite", ...)) and internal/db.WithTx,
// generalized from waves' rich library_tracks schema to the §3 Track model.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite3 driver

	"github.com/itspluxstahre/glaciera/internal/db"
	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS tracks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	filepath   TEXT NOT NULL UNIQUE,
	display    TEXT NOT NULL,
	search     TEXT NOT NULL,
	filesize   INTEGER NOT NULL,
	filedate   INTEGER NOT NULL,
	duration   INTEGER NOT NULL,
	bitrate    INTEGER NOT NULL,
	genre      INTEGER NOT NULL,
	rating     INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracks_display  ON tracks(display);
CREATE INDEX IF NOT EXISTS idx_tracks_search   ON tracks(search);
CREATE INDEX IF NOT EXISTS idx_tracks_filesize ON tracks(filesize);
CREATE INDEX IF NOT EXISTS idx_tracks_filedate ON tracks(filedate);
CREATE INDEX IF NOT EXISTS idx_tracks_genre    ON tracks(genre);
CREATE INDEX IF NOT EXISTS idx_tracks_rating   ON tracks(rating);
`

// Store is the row-oriented catalog database described in §4.2.
type Store struct {
	db *sql.DB
}

// Open creates or opens the catalog at path, running schema migration and,
// if present, the §6.3 legacy-format import.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, glacierr.New(glacierr.KindResourceExhausted, "catalog.Open", path, err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, glacierr.New(glacierr.KindStoreIntegrity, "catalog.Open", path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, glacierr.New(glacierr.KindStoreIntegrity, "catalog.Open", path, err)
		}
	}

	if _, err := sqlDB.Exec(schemaDDL); err != nil {
		sqlDB.Close()
		return nil, glacierr.New(glacierr.KindStoreIntegrity, "catalog.Open", path, err)
	}

	s := &Store{db: sqlDB}

	if err := s.migrateLegacy(filepath.Dir(path)); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a batch. Commit/Rollback close it.
func (s *Store) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

// WithTx runs fn inside one batched transaction (§4.2 begin/commit/rollback).
func (s *Store) WithTx(fn func(tx *sql.Tx) error) error {
	if err := db.WithTx(s.db, fn); err != nil {
		return glacierr.New(glacierr.KindStoreIntegrity, "catalog.WithTx", "", err)
	}
	return nil
}

// Exists reports whether filepath is already in the catalog.
func (s *Store) Exists(path string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT 1 FROM tracks WHERE filepath = ?`, path).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert adds a new row. Fails (StoreIntegrity) if filepath already exists
// (§4.2 insert contract).
func (s *Store) Insert(tx *sql.Tx, t *tuneinfo.Track) error {
	now := time.Now().Unix()
	res, err := tx.Exec(`
		INSERT INTO tracks (filepath, display, search, filesize, filedate, duration, bitrate, genre, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Path, t.Display, t.Search, t.Info.FileSize, t.Info.FileDate, t.Info.Duration, t.Info.Bitrate, t.Info.Genre, t.Info.Rating, now, now)
	if err != nil {
		return glacierr.New(glacierr.KindStoreIntegrity, "catalog.Insert", t.Path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = time.Unix(now, 0)
	t.UpdatedAt = t.CreatedAt
	return nil
}

// UpsertResult reports whether Upsert created a new row or overwrote one.
type UpsertResult int

const (
	Created UpsertResult = iota
	Updated
)

// Upsert implements §4.2's upsert contract: insert if filepath is new,
// otherwise overwrite display/search/TuneInfo and bump updated_at (I4: the
// track's own Display-derived position in the in-memory sort only matters
// on the next full load, not here).
func (s *Store) Upsert(tx *sql.Tx, t *tuneinfo.Track) (UpsertResult, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM tracks WHERE filepath = ?`, t.Path).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if insertErr := s.insertTx(tx, t); insertErr != nil {
			return Created, insertErr
		}
		return Created, nil
	case err != nil:
		return Updated, glacierr.New(glacierr.KindStoreIntegrity, "catalog.Upsert", t.Path, err)
	}

	now := time.Now().Unix()
	_, err = tx.Exec(`
		UPDATE tracks
		SET display = ?, search = ?, filesize = ?, filedate = ?, duration = ?, bitrate = ?, genre = ?, rating = ?, updated_at = ?
		WHERE id = ?`,
		t.Display, t.Search, t.Info.FileSize, t.Info.FileDate, t.Info.Duration, t.Info.Bitrate, t.Info.Genre, t.Info.Rating, now, id)
	if err != nil {
		return Updated, glacierr.New(glacierr.KindStoreIntegrity, "catalog.Upsert", t.Path, err)
	}
	t.ID = id
	t.UpdatedAt = time.Unix(now, 0)
	return Updated, nil
}

func (s *Store) insertTx(tx *sql.Tx, t *tuneinfo.Track) error {
	return s.Insert(tx, t)
}

// GetByID fetches one row by id.
func (s *Store) GetByID(id int64) (*tuneinfo.Track, error) {
	return scanOne(s.db.QueryRow(`
		SELECT id, filepath, display, search, filesize, filedate, duration, bitrate, genre, rating, created_at, updated_at
		FROM tracks WHERE id = ?`, id))
}

// GetByFilepath fetches one row by its unique path.
func (s *Store) GetByFilepath(path string) (*tuneinfo.Track, error) {
	return scanOne(s.db.QueryRow(`
		SELECT id, filepath, display, search, filesize, filedate, duration, bitrate, genre, rating, created_at, updated_at
		FROM tracks WHERE filepath = ?`, path))
}

// All returns every row, ordered case-insensitively by display (§4.2 "all").
func (s *Store) All() ([]tuneinfo.Track, error) {
	rows, err := s.db.Query(`
		SELECT id, filepath, display, search, filesize, filedate, duration, bitrate, genre, rating, created_at, updated_at
		FROM tracks ORDER BY display COLLATE NOCASE ASC`)
	if err != nil {
		return nil, glacierr.New(glacierr.KindStoreIntegrity, "catalog.All", "", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Search implements §4.2's substring search over filepath/display/search
// using a case-insensitive wildcard, ordered by display.
func (s *Store) Search(query string) ([]tuneinfo.Track, error) {
	like := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, filepath, display, search, filesize, filedate, duration, bitrate, genre, rating, created_at, updated_at
		FROM tracks
		WHERE filepath LIKE ? ESCAPE '\' COLLATE NOCASE
		   OR display  LIKE ? ESCAPE '\' COLLATE NOCASE
		   OR search   LIKE ? ESCAPE '\' COLLATE NOCASE
		ORDER BY display COLLATE NOCASE ASC`, like, like, like)
	if err != nil {
		return nil, glacierr.New(glacierr.KindStoreIntegrity, "catalog.Search", query, err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Count returns the number of rows in the catalog.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&n)
	return n, err
}

// Delete removes a row by path. Available per §3.4 but unused by the
// indexer in normal operation.
func (s *Store) Delete(path string) error {
	_, err := s.db.Exec(`DELETE FROM tracks WHERE filepath = ?`, path)
	return err
}

// ExportFlatIndex writes one display name per line, sorted case-
// insensitively, implementing the `-w` compatibility artifact (SPEC_FULL.md
// §C.2 / spec.md Open Question on opt_generate_allmp3db).
func (s *Store) ExportFlatIndex(path string) error {
	tracks, err := s.All()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return glacierr.New(glacierr.KindPermissionDenied, "catalog.ExportFlatIndex", path, err)
	}
	defer f.Close()
	for _, t := range tracks {
		if _, err := fmt.Fprintln(f, t.Display); err != nil {
			return err
		}
	}
	return nil
}

func scanOne(row *sql.Row) (*tuneinfo.Track, error) {
	var t tuneinfo.Track
	var createdAt, updatedAt int64
	var genre, rating int
	err := row.Scan(&t.ID, &t.Path, &t.Display, &t.Search, &t.Info.FileSize, &t.Info.FileDate,
		&t.Info.Duration, &t.Info.Bitrate, &genre, &rating, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Info.Genre = byte(genre)
	t.Info.Rating = rating
	t.CreatedAt = time.Unix(createdAt, 0)
	t.UpdatedAt = time.Unix(updatedAt, 0)
	return &t, nil
}

func scanAll(rows *sql.Rows) ([]tuneinfo.Track, error) {
	var out []tuneinfo.Track
	for rows.Next() {
		var t tuneinfo.Track
		var createdAt, updatedAt int64
		var genre, rating int
		if err := rows.Scan(&t.ID, &t.Path, &t.Display, &t.Search, &t.Info.FileSize, &t.Info.FileDate,
			&t.Info.Duration, &t.Info.Bitrate, &genre, &rating, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		t.Info.Genre = byte(genre)
		t.Info.Rating = rating
		t.CreatedAt = time.Unix(createdAt, 0)
		t.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, t)
	}
	return out, rows.Err()
}
