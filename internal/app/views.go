package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itspluxstahre/glaciera/internal/config"
	"github.com/itspluxstahre/glaciera/internal/displaylist"
	"github.com/itspluxstahre/glaciera/internal/playlist"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
	"github.com/itspluxstahre/glaciera/internal/ui/textinput"
)

// showQueue switches to F5's "show playlist" view: the active
// in-progress playlist rendered as a display list, synthesizing a
// placeholder row for any entry whose track could not be resolved.
func (m *Model) showQueue() {
	list := displaylist.New()
	for _, e := range m.activePlaylist.Entries() {
		t := e.Track
		if t == nil {
			t = m.cat.ByPath(e.Path)
		}
		if t != nil {
			list.Add(t)
		} else {
			list.AddSynthetic(e.Display, 0)
		}
	}
	m.list = list
	m.view = ViewQueue
}

// openPlaylistPopup lists the saved playlist files under the playlist
// directory (F6 "Load playlist" and F12 "Show all playlists" share this
// view; on Enter F6 loads the selected file into the active playlist, F12
// only browses it).
func (m *Model) openPlaylistPopup(loadOnEnter bool) tea.Cmd {
	dir := config.PlaylistDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.statusMsg = "no playlists: " + err.Error()
		return nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".list") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	m.playlistFiles = files
	m.playlistLoadOnEnter = loadOnEnter

	list := displaylist.New()
	for _, f := range files {
		list.AddSynthetic(f, 0)
	}
	m.list = list
	m.view = ViewPlaylists
	return nil
}

// loadSelectedPlaylistFile implements F6's Enter action: load the
// highlighted file into the active playlist and switch to the queue view.
func (m *Model) loadSelectedPlaylistFile() tea.Cmd {
	idx := m.list.Cursor
	if idx < 0 || idx >= len(m.playlistFiles) {
		return nil
	}
	if !m.playlistLoadOnEnter {
		return nil
	}

	name := m.playlistFiles[idx]
	path := filepath.Join(config.PlaylistDir(), name)
	pl, err := playlist.Load(path, m.resolveByDisplay)
	if err != nil {
		m.statusMsg = "load failed: " + err.Error()
		return nil
	}
	m.activePlaylist = pl
	m.showQueue()
	return nil
}

// openSavePlaylistPopup implements F7: prompt for a filename (sans
// extension) and save the active playlist there on confirmation.
func (m *Model) openSavePlaylistPopup() tea.Cmd {
	in := textinput.New()
	in.Start("Save playlist as", "", nil, m.width, m.height)
	m.popupActive = &in
	m.popupKind = popupSavePlaylist
	return nil
}

func savePlaylist(m *Model, name string) error {
	if err := os.MkdirAll(config.PlaylistDir(), 0o755); err != nil {
		return err
	}
	path := filepath.Join(config.PlaylistDir(), name+".list")
	return m.activePlaylist.Save(path)
}

// cycleContext implements F4's double-tap radius doubling: a repeated
// press (no other key typed in between) while already viewing context
// doubles the radius; a press from another view resets it to the default,
// and a non-repeated press inside the context view keeps the current
// radius. Every press re-centers on the currently selected track.
func (m *Model) cycleContext() {
	isRepeat := m.keyCount == m.lastF4Count+1
	m.lastF4Count = m.keyCount

	if m.view == ViewContext && isRepeat {
		m.contextRadius *= 2
	} else if m.view != ViewContext {
		m.contextRadius = 20
	}
	m.enterContextView()
}

func (m *Model) enterContextView() {
	sel := m.list.Selected()
	if sel == nil || sel.Track == nil {
		return
	}
	idx, ok := m.cat.IndexOf(sel.Track.Path)
	if !ok {
		return
	}

	lo := idx - m.contextRadius
	hi := idx + m.contextRadius + 1
	if lo < 0 {
		lo = 0
	}
	if hi > m.cat.Len() {
		hi = m.cat.Len()
	}

	var tracks []*tuneinfo.Track
	for i := lo; i < hi; i++ {
		tracks = append(tracks, m.cat.At(i))
	}

	list := displaylist.FromTracks(tracks)
	for i, t := range tracks {
		if t.Path == sel.Track.Path {
			list.Cursor = i
			break
		}
	}
	m.list = list
	m.view = ViewContext
}

// cycleNewSongs implements F10 (the one F-key the dispatch precedence
// list leaves unassigned): a window of 1-9 weeks back from the newest
// FileDate in the catalog, widening by one week per repeated press and
// wrapping back to one.
func (m *Model) cycleNewSongs() {
	isRepeat := m.keyCount == m.lastF10Count+1
	m.lastF10Count = m.keyCount

	if m.view == ViewNewSongs && isRepeat {
		m.newSongsWeeks = m.newSongsWeeks%9 + 1
	} else {
		m.newSongsWeeks = 1
	}

	m.list = buildNewSongsList(m.cat, m.newSongsWeeks)
	m.view = ViewNewSongs
}

func buildNewSongsList(cat catalogReader, weeks int) *displaylist.List {
	all := cat.All()
	var newest int64
	for _, t := range all {
		if t.Info.FileDate > newest {
			newest = t.Info.FileDate
		}
	}
	cutoff := newest - int64(weeks)*7*24*3600

	var tracks []*tuneinfo.Track
	for i := range all {
		if all[i].Info.FileDate >= cutoff {
			tracks = append(tracks, &all[i])
		}
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Info.FileDate > tracks[j].Info.FileDate })
	return displaylist.FromTracks(tracks)
}

// buildArtistRollup hash-counts the text before " - " in each display
// name, optionally filtered to names starting with letter (anchor mode's
// rollup use case), grounded on §4.7's "artist rollup" gloss.
func buildArtistRollup(cat catalogReader, letter byte) *displaylist.List {
	counts := map[string]int{}
	for _, t := range cat.All() {
		if letter != 0 && (t.Display == "" || upper(t.Display[0]) != letter) {
			continue
		}
		artist := t.Display
		if i := strings.Index(artist, " - "); i >= 0 {
			artist = artist[:i]
		}
		counts[artist]++
	}

	list := displaylist.New()
	for _, name := range sortedKeys(counts) {
		list.AddSynthetic(name, counts[name])
	}
	return list
}

// buildGenreRollup hash-counts the ID3v1 genre byte across the catalog.
// No genre-name table ships with this build (none was available to ground
// one on), so genres render as a numeric label.
func buildGenreRollup(cat catalogReader) *displaylist.List {
	counts := map[byte]int{}
	for _, t := range cat.All() {
		if t.Info.Genre == tuneinfo.GenreUnknown {
			continue
		}
		counts[t.Info.Genre]++
	}

	var genres []byte
	for g := range counts {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i] < genres[j] })

	list := displaylist.New()
	for _, g := range genres {
		list.AddSynthetic(genreLabel(g), counts[g])
	}
	return list
}

func genreLabel(g byte) string {
	return fmt.Sprintf("Genre %d", g)
}

// buildTopList hash-counts display names across every history file in
// the playlist directory, keeping only names played at least 10 times.
func buildTopList(historyDir string) *displaylist.List {
	counts := map[string]int{}

	entries, err := os.ReadDir(historyDir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".list") {
				continue
			}
			hist, err := playlist.ReadHistory(filepath.Join(historyDir, e.Name()))
			if err != nil {
				continue
			}
			for _, h := range hist {
				counts[h.Display]++
			}
		}
	}

	list := displaylist.New()
	for _, name := range sortedKeys(counts) {
		if counts[name] >= 10 {
			list.AddSynthetic(name, counts[name])
		}
	}
	return list
}

func (m *Model) showArtists() {
	var letter byte
	if m.searchText != "" {
		letter = upper(m.searchText[0])
	}
	m.list = buildArtistRollup(m.cat, letter)
	m.view = ViewArtists
}

func (m *Model) showGenres() {
	m.list = buildGenreRollup(m.cat)
	m.view = ViewGenres
}

func (m *Model) showTop() {
	m.list = buildTopList(config.PlaylistDir())
	m.view = ViewTop
}

// catalogReader is the subset of memcatalog.Catalog the rollup builders
// need, kept narrow so they can run without a real catalog store.
type catalogReader interface {
	All() []tuneinfo.Track
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return strings.ToLower(keys[i]) < strings.ToLower(keys[j]) })
	return keys
}

