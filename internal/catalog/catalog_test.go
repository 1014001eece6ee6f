package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glaciera.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrack(path string) *tuneinfo.Track {
	return &tuneinfo.Track{
		Path:    path,
		Display: "01 song one",
		Search:  "SONGONE",
		Info:    tuneinfo.TuneInfo{FileSize: 3200000, FileDate: 1700000000, Duration: 200, Bitrate: 128, Genre: tuneinfo.GenreUnknown},
	}
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)

	tx, err := s.Begin()
	require.NoError(t, err)
	track := sampleTrack("/music/band/01 song one.mp3")
	require.NoError(t, s.Insert(tx, track))
	require.NoError(t, tx.Commit())

	got, err := s.GetByFilepath(track.Path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, track.Display, got.Display)
	assert.Equal(t, track.Info.Duration, got.Info.Duration)

	byID, err := s.GetByID(got.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, got.Path, byID.Path)
}

func TestInsertDuplicateFails(t *testing.T) {
	s := openTestStore(t)
	path := "/music/band/dup.mp3"

	tx, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Insert(tx, sampleTrack(path)))
	require.NoError(t, tx.Commit())

	tx, err = s.Begin()
	require.NoError(t, err)
	err = s.Insert(tx, sampleTrack(path))
	tx.Rollback()
	assert.Error(t, err, "§4.2: insert must fail when filepath already exists")
}

func TestUpsertIdempotence(t *testing.T) {
	s := openTestStore(t)
	track := sampleTrack("/music/band/idempotent.mp3")

	for i := 0; i < 2; i++ {
		tx, err := s.Begin()
		require.NoError(t, err)
		_, err = s.Upsert(tx, track)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
	}

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "P4: upserting the same row twice must not duplicate it")
}

func TestUpsertCreatedThenUpdated(t *testing.T) {
	s := openTestStore(t)
	track := sampleTrack("/music/band/change.mp3")

	tx, err := s.Begin()
	require.NoError(t, err)
	result, err := s.Upsert(tx, track)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, Created, result)

	track.Display = "02 song two"
	tx, err = s.Begin()
	require.NoError(t, err)
	result, err = s.Upsert(tx, track)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, Updated, result)

	got, err := s.GetByFilepath(track.Path)
	require.NoError(t, err)
	assert.Equal(t, "02 song two", got.Display)
}

func TestSearchAndAllOrdering(t *testing.T) {
	s := openTestStore(t)

	tracks := []*tuneinfo.Track{
		{Path: "/music/b/02 beta.mp3", Display: "Beta", Search: "BETA", Info: tuneinfo.TuneInfo{Genre: tuneinfo.GenreUnknown}},
		{Path: "/music/a/01 alpha.mp3", Display: "alpha", Search: "ALPHA", Info: tuneinfo.TuneInfo{Genre: tuneinfo.GenreUnknown}},
		{Path: "/music/c/03 gamma.mp3", Display: "Gamma", Search: "GAMMA", Info: tuneinfo.TuneInfo{Genre: tuneinfo.GenreUnknown}},
	}
	for _, tr := range tracks {
		tx, err := s.Begin()
		require.NoError(t, err)
		require.NoError(t, s.Insert(tx, tr))
		require.NoError(t, tx.Commit())
	}

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Display)
	assert.Equal(t, "Beta", all[1].Display)
	assert.Equal(t, "Gamma", all[2].Display)

	found, err := s.Search("eta")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Beta", found[0].Display)
}

func TestExportFlatIndex(t *testing.T) {
	s := openTestStore(t)
	tx, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Insert(tx, sampleTrack("/music/x.mp3")))
	require.NoError(t, tx.Commit())

	out := filepath.Join(t.TempDir(), "allmp3.txt")
	require.NoError(t, s.ExportFlatIndex(out))
}
