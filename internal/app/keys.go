package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itspluxstahre/glaciera/internal/config"
	"github.com/itspluxstahre/glaciera/internal/displaylist"
	"github.com/itspluxstahre/glaciera/internal/playback"
	"github.com/itspluxstahre/glaciera/internal/playlist"
	"github.com/itspluxstahre/glaciera/internal/ripper"
	"github.com/itspluxstahre/glaciera/internal/scanner"
	"github.com/itspluxstahre/glaciera/internal/search"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
	"github.com/itspluxstahre/glaciera/internal/ui/playerbar"
)

// handleKey is the §4.7 dispatch precedence chain: search editor first,
// then function keys, then navigation, then special commands.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.keyCount++
	key := msg.String()

	if m.view == ViewSplash {
		m.view = ViewResults
		return m, nil
	}

	if m.popupActive != nil {
		return m.handlePopupKey(key, msg)
	}

	if handled, cmd := m.handleSearchEditorKey(key, msg); handled {
		return m, cmd
	}

	if handled, cmd := m.handleFunctionKey(key); handled {
		return m, cmd
	}

	if navigate(m.list, key, m.listHeight()) {
		return m, nil
	}

	return m.handleSpecialKey(key)
}

// handlePopupKey routes a key to the active popup, special-casing close
// keys for popups (like the scan report) whose own Update never signals
// completion.
func (m *Model) handlePopupKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.popupKind == popupScanReport && (key == "enter" || key == "esc") {
		m.popupActive = nil
		m.popupKind = popupNone
		return m, nil
	}

	updated, cmd := m.popupActive.Update(msg)
	m.popupActive = updated
	return m, cmd
}

// handleSearchEditorKey implements the incremental, per-keystroke search
// editor (spec §4.2/§4.7): typeable runes and backspace edit searchText and
// re-run the query live. '+' and '*' are carved out as dedicated special
// commands rather than literal search characters. A repeated space (no
// other key typed in between) plays the next track instead of inserting a
// second space.
func (m *Model) handleSearchEditorKey(key string, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key == "backspace":
		if m.searchText != "" {
			_, size := lastRuneSize(m.searchText)
			m.searchText = m.searchText[:len(m.searchText)-size]
		}
		m.runSearch()
		return true, nil

	case key == " " || msg.Type == tea.KeySpace:
		isRepeat := m.keyCount == m.lastSpaceKey+1
		m.lastSpaceKey = m.keyCount
		if isRepeat && strings.HasSuffix(m.searchText, " ") {
			m.searchText = strings.TrimSuffix(m.searchText, " ")
			m.runSearch()
			return true, m.playNextTrack()
		}
		m.searchText += " "
		m.runSearch()
		return true, nil

	case msg.Type == tea.KeyRunes && key != "+" && key != "*":
		m.searchText += string(msg.Runes)
		m.runSearch()
		return true, nil
	}

	return false, nil
}

func lastRuneSize(s string) (rune, int) {
	r := []rune(s)
	if len(r) == 0 {
		return 0, 0
	}
	last := r[len(r)-1]
	return last, len(string(last))
}

// handleFunctionKey dispatches F1-F12 (F10 is the undocumented new-songs
// key, the one slot the spec's F-key list leaves unassigned).
func (m *Model) handleFunctionKey(key string) (bool, tea.Cmd) {
	switch key {
	case "f1":
		m.infoCol = (m.infoCol + 1) % infoColCount
		return true, nil
	case "f2":
		if m.playerMode == playerbar.ModeCompact {
			m.playerMode = playerbar.ModeExpanded
		} else {
			m.playerMode = playerbar.ModeCompact
		}
		return true, nil
	case "f3":
		m.cycleSort()
		return true, nil
	case "f4":
		m.cycleContext()
		return true, nil
	case "f5":
		m.showQueue()
		return true, nil
	case "f6":
		return true, m.openPlaylistPopup(true)
	case "f7":
		return true, m.openSavePlaylistPopup()
	case "f8":
		m.burnSelected()
		return true, nil
	case "f9":
		m.showFinish = !m.showFinish
		return true, nil
	case "f10":
		m.cycleNewSongs()
		return true, nil
	case "f11":
		return true, m.startRescan()
	case "f12":
		return true, m.openPlaylistPopup(false)
	case "alt+a":
		m.showArtists()
		return true, nil
	case "alt+g":
		m.showGenres()
		return true, nil
	case "alt+t":
		m.showTop()
		return true, nil
	}
	return false, nil
}

// handleSpecialKey covers the §4.7 special-commands bucket: Esc, Ctrl-P,
// Ctrl-U/Ctrl-D, +, *, Tab, Ctrl-L, Enter.
func (m *Model) handleSpecialKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		if m.searchText != "" {
			m.searchText = ""
			m.runSearch()
			return m, nil
		}
		if m.view != ViewResults {
			m.view = ViewResults
		}
		return m, nil

	case "ctrl+p":
		_ = m.pb.TogglePause()
		return m, nil

	case "ctrl+u":
		navigate(m.list, "ctrl+u", m.listHeight())
		return m, nil

	case "ctrl+d":
		navigate(m.list, "ctrl+d", m.listHeight())
		return m, nil

	case "+":
		m.addSelectedToPlaylist(false)
		return m, nil

	case "*":
		m.addSelectedToPlaylist(true)
		return m, nil

	case "tab":
		m.statusMsg = m.selectedDetail()
		return m, nil

	case "ctrl+l":
		return m, tea.ClearScreen

	case "enter":
		return m, m.activateSelection()
	}

	return m, nil
}

func (m *Model) listHeight() int {
	h := m.height - playerbar.Height(m.playerMode) - 3
	if h < 1 {
		h = 1
	}
	return h
}

// runSearch re-parses searchText and re-runs it against the in-memory
// catalog, implementing the §4.2 barcode-playlist shortcut as a carve-out.
func (m *Model) runSearch() {
	if search.IsBarcode(m.searchText) {
		m.loadBarcodePlaylist(m.searchText)
		return
	}

	q := search.Parse(m.searchText)
	m.lastQuery = q
	tracks := search.Run(m.cat, q)
	m.list = displaylist.FromTracks(tracks)
	if m.view != ViewQueue && m.view != ViewPlaylists {
		m.view = ViewResults
	}
}

func (m *Model) loadBarcodePlaylist(digits string) {
	path := filepath.Join(config.PlaylistDir(), digits+".list")
	pl, err := playlist.Load(path, m.resolveByDisplay)
	if err != nil {
		m.statusMsg = "no playlist for barcode " + digits
		return
	}
	m.activePlaylist = pl
	m.showQueue()
}

func (m *Model) resolveByDisplay(display string) (string, string, bool) {
	for _, t := range m.cat.All() {
		if t.Display == display {
			return t.Path, t.Display, true
		}
	}
	return "", "", false
}

// cycleSort implements F3's double-tap direction flip (spec §4.7): a
// repeat of the same key position (no other key typed in between) flips
// direction via search.ToggleState; any other press advances to the next
// sort mode and resets to ascending.
func (m *Model) cycleSort() {
	isRepeat := m.keyCount == m.sortToggleAt+1
	m.sortToggleAt = m.keyCount
	if !isRepeat {
		m.sortMode = nextSortMode(m.sortMode)
	}
	ascending := m.sortToggle.Apply(m.sortMode)
	search.Sort(m.list, m.sortMode, ascending)
}

func nextSortMode(mode search.SortMode) search.SortMode {
	next := mode + 1
	if next > search.SortPath {
		next = search.SortNormal
	}
	return next
}

func (m *Model) addSelectedToPlaylist(includeNowPlaying bool) {
	sel := m.list.Selected()
	if sel != nil && sel.Track != nil {
		m.activePlaylist.Add(sel.Track)
	}
	if includeNowPlaying {
		if cur := m.pb.Current(); cur != nil {
			m.activePlaylist.Add(cur)
		}
	}
}

func (m *Model) selectedDetail() string {
	sel := m.list.Selected()
	if sel == nil || sel.Track == nil {
		return ""
	}
	t := sel.Track
	return fmt.Sprintf("%s  %d kbps  %d:%02d  rating %d", t.Path, t.Info.Bitrate, t.Info.Duration/60, t.Info.Duration%60, t.Info.Rating)
}

func (m *Model) playNextTrack() tea.Cmd {
	next := playbackNextTrack(m)
	if next == nil {
		return nil
	}
	if err := m.pb.Play(next); err != nil {
		m.statusMsg = "play failed: " + err.Error()
	}
	return nil
}

func playbackNextTrack(m *Model) *tuneinfo.Track {
	return playback.NextTrack(m.pb.Current(), m.activePlaylist, m.list, m.cat)
}

func (m *Model) activateSelection() tea.Cmd {
	switch m.view {
	case ViewPlaylists:
		return m.loadSelectedPlaylistFile()
	default:
		sel := m.list.Selected()
		if sel == nil || sel.Track == nil {
			return nil
		}
		if err := m.pb.Play(sel.Track); err != nil {
			m.statusMsg = "play failed: " + err.Error()
		}
		return nil
	}
}

func (m *Model) burnSelected() {
	sel := m.list.Selected()
	if sel == nil || sel.Track == nil {
		return
	}
	burnDir := filepath.Join(config.DataDir(), "burn")
	if err := os.MkdirAll(burnDir, 0o755); err != nil {
		m.statusMsg = "burn failed: " + err.Error()
		return
	}
	dest := filepath.Join(burnDir, filepath.Base(sel.Track.Path))
	_ = os.Remove(dest)
	if err := os.Symlink(sel.Track.Path, dest); err != nil {
		m.statusMsg = "burn failed: " + err.Error()
		return
	}
	m.statusMsg = "linked into " + burnDir
}

func (m *Model) startRescan() tea.Cmd {
	if m.scanActive {
		return nil
	}
	roots := m.cfg.Paths.Index
	if len(roots) == 0 {
		m.statusMsg = "no library roots configured"
		return nil
	}

	m.scanActive = true
	m.scanStarted = time.Now()
	m.scanProgress = scanner.Progress{}
	ch := make(chan scanner.Progress, 1)
	m.scanCh = ch

	store := m.store
	rip := m.rip
	if rip == nil {
		rip = &ripper.List{}
	}
	opts := scanner.Options{CacheDir: config.CacheDir()}

	go func() {
		_ = scanner.Scan(store, roots, rip, opts, ch)
	}()

	return waitForScan(ch)
}
