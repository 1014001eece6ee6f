package playlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

func TestAddIsIdempotentByPath(t *testing.T) {
	pl := New()
	tr := &tuneinfo.Track{Path: "/music/a.mp3", Display: "A"}

	if !pl.Add(tr) {
		t.Fatal("first add should succeed")
	}
	if pl.Add(tr) {
		t.Fatal("adding an existing path should be a no-op (I6)")
	}
	if pl.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", pl.Len())
	}
}

func TestRemoveAndMove(t *testing.T) {
	pl := New()
	pl.Add(&tuneinfo.Track{Path: "/a", Display: "A"})
	pl.Add(&tuneinfo.Track{Path: "/b", Display: "B"})
	pl.Add(&tuneinfo.Track{Path: "/c", Display: "C"})

	if !pl.Move(0, 2) {
		t.Fatal("move should succeed")
	}
	got := pl.Entries()
	want := []string{"B", "C", "A"}
	for i, w := range want {
		if got[i].Display != w {
			t.Errorf("position %d: got %q want %q", i, got[i].Display, w)
		}
	}

	if !pl.Remove(1) {
		t.Fatal("remove should succeed")
	}
	if pl.Len() != 2 {
		t.Fatalf("expected 2 entries after remove, got %d", pl.Len())
	}
	if pl.Contains("/c") {
		t.Fatal("removed path should no longer be contained")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	pl := New()
	pl.Add(&tuneinfo.Track{Path: "/music/one.mp3", Display: "Artist - One"})
	pl.Add(&tuneinfo.Track{Path: "/music/two.mp3", Display: "Artist - Two"})
	pl.entries[0].StartedAt = 1700000000

	dir := t.TempDir()
	file := filepath.Join(dir, "saved.playlist")
	if err := pl.Save(file); err != nil {
		t.Fatal(err)
	}

	resolver := func(display string) (string, string, bool) {
		switch display {
		case "Artist - One":
			return "/music/one.mp3", display, true
		case "Artist - Two":
			return "/music/two.mp3", display, true
		default:
			return "", "", false
		}
	}

	loaded, err := Load(file, resolver)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", loaded.Len())
	}
	if loaded.At(0).StartedAt != 1700000000 {
		t.Errorf("expected timestamp preserved, got %d", loaded.At(0).StartedAt)
	}
}

func TestLoadUnresolvableEntryBecomesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "p.playlist")
	if err := os.WriteFile(file, []byte("Missing Track\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := func(display string) (string, string, bool) { return "", "", false }
	pl, err := Load(file, resolver)
	if err != nil {
		t.Fatal(err)
	}
	if pl.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", pl.Len())
	}
	if pl.At(0).Display != "??? Missing Track" {
		t.Errorf("expected placeholder, got %q", pl.At(0).Display)
	}
}

func TestLoadSkipsNumericLine(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "p.playlist")
	contents := "Artist - Song\n1700000000\n"
	if err := os.WriteFile(file, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := func(display string) (string, string, bool) {
		return "/music/song.mp3", display, true
	}
	pl, err := Load(file, resolver)
	if err != nil {
		t.Fatal(err)
	}
	if pl.Len() != 1 {
		t.Fatalf("numeric line should not become its own entry, got %d entries", pl.Len())
	}
	if pl.At(0).StartedAt != 1700000000 {
		t.Errorf("expected timestamp attached to preceding entry, got %d", pl.At(0).StartedAt)
	}
}

func TestPlayThreshold(t *testing.T) {
	cases := []struct {
		elapsed, total int
		want           bool
	}{
		{elapsed: 239, total: 1000, want: false},
		{elapsed: 240, total: 1000, want: true},
		{elapsed: 100, total: 180, want: true}, // 100*2=200 >= 180
		{elapsed: 50, total: 180, want: false},
		{elapsed: 10, total: 0, want: false},
	}
	for _, c := range cases {
		got := PlayThreshold(c.elapsed, c.total)
		if got != c.want {
			t.Errorf("PlayThreshold(%d, %d) = %v, want %v", c.elapsed, c.total, got, c.want)
		}
	}
}

func TestHistoryAppendAndRead(t *testing.T) {
	dir := t.TempDir()
	if err := AppendHistory(dir, "Artist - Song", 1700000000); err != nil {
		t.Fatal(err)
	}
	if err := AppendHistory(dir, "Artist - Other", 1700000100); err != nil {
		t.Fatal(err)
	}

	name := HistoryFileName(time.Unix(1700000000, 0))
	entries, err := ReadHistory(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Display != "Artist - Song" || entries[0].StartedAt != 1700000000 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}
