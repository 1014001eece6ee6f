package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itspluxstahre/glaciera/internal/displaylist"
	"github.com/itspluxstahre/glaciera/internal/memcatalog"
	"github.com/itspluxstahre/glaciera/internal/ui/scanreport"
	"github.com/itspluxstahre/glaciera/internal/ui/textinput"
)

// Update implements tea.Model (spec §4.7, C8).
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	case scanProgressMsg:
		return m.handleScanProgress(msg)
	case textinput.ResultMsg:
		return m.handleTextInputResult(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	if m.popupActive != nil {
		m.popupActive.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// handleTick advances the playback controller's 1Hz background jobs and
// polls for a finished decoder child (§4.6's child-exit handler).
func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	m.pb.Tick(time.Now().Unix(), !m.opts.NoReadAhead)

	if m.pb.ChildExited() {
		next := playbackNextTrack(m)
		if next != nil {
			_ = m.pb.Play(next)
		}
	}

	return m, tickCmd()
}

// handleScanProgress advances the active F11 rescan. When the channel
// closes (ok == false) the scan is finished: the catalog is reloaded from
// the store and a report popup is shown (grounded on the teacher's
// waitForChannel-driven completion handling).
func (m *Model) handleScanProgress(msg scanProgressMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.scanActive = false
		if err := reloadCatalog(m); err != nil {
			m.statusMsg = "reload failed: " + err.Error()
		}
		elapsed := time.Since(m.scanStarted).Seconds()
		report := scanreport.New(m.scanProgress, elapsed)
		m.popupActive = &report
		m.popupKind = popupScanReport
		m.popupActive.SetSize(m.width, m.height)
		return m, nil
	}

	m.scanProgress = msg.progress
	return m, waitForScan(m.scanCh)
}

func reloadCatalog(m *Model) error {
	tracks, err := m.store.All()
	if err != nil {
		return err
	}
	m.cat = memcatalog.Load(tracks)
	m.list = displaylist.FromTracks(trackPointers(m.cat))
	return nil
}

// handleTextInputResult completes the F7 save-playlist popup (the only
// textinput consumer so far).
func (m *Model) handleTextInputResult(msg textinput.ResultMsg) (tea.Model, tea.Cmd) {
	kind := m.popupKind
	m.popupActive = nil
	m.popupKind = popupNone

	if msg.Canceled || kind != popupSavePlaylist {
		return m, nil
	}

	name := msg.Text
	if name == "" {
		return m, nil
	}
	if err := savePlaylist(m, name); err != nil {
		m.statusMsg = "save failed: " + err.Error()
	} else {
		m.statusMsg = "saved playlist " + name
	}
	return m, nil
}
