package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/itspluxstahre/glaciera/internal/displaylist"
	"github.com/itspluxstahre/glaciera/internal/playback"
	"github.com/itspluxstahre/glaciera/internal/search"
	"github.com/itspluxstahre/glaciera/internal/ui/playerbar"
	"github.com/itspluxstahre/glaciera/internal/ui/popup"
	"github.com/itspluxstahre/glaciera/internal/ui/render"
	"github.com/itspluxstahre/glaciera/internal/ui/styles"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.view == ViewSplash {
		return m.renderSplash()
	}

	bar := m.renderPlayerBar()
	header := m.renderHeader()
	listHeight := m.height - lipglossHeight(bar) - lipglossHeight(header) - 1

	body := m.renderList(listHeight)
	status := m.renderStatus()

	base := strings.Join([]string{header, body, status, bar}, "\n")

	if m.popupActive != nil {
		return popup.Compose(base, m.popupActive.View(), m.width, m.height)
	}
	return base
}

func lipglossHeight(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func (m *Model) renderSplash() string {
	title := styles.T().S().Title.Render("Glaciera")
	sub := styles.T().S().Muted.Render("loading catalog…")
	return popup.Center(title+"\n"+sub, m.width, m.height)
}

func (m *Model) renderHeader() string {
	s := styles.T().S()
	prompt := "search: " + m.searchText
	if m.searchText == "" {
		prompt = s.Subtle.Render("search: (type to filter)")
	} else {
		prompt = s.Base.Render(prompt)
	}

	right := fmt.Sprintf("%d tracks  %s", m.list.Len(), viewLabel(m.view))
	return render.Row(prompt, s.Muted.Render(right), m.width)
}

func viewLabel(v View) string {
	switch v {
	case ViewResults:
		return "results"
	case ViewQueue:
		return "playlist"
	case ViewPlaylists:
		return "saved playlists"
	case ViewArtists:
		return "artists"
	case ViewGenres:
		return "genres"
	case ViewTop:
		return "top played"
	case ViewNewSongs:
		return "new songs"
	case ViewContext:
		return "context"
	default:
		return ""
	}
}

func (m *Model) renderList(height int) string {
	if height <= 0 {
		return ""
	}
	s := styles.T().S()
	var finishTimes []int
	if m.showFinish {
		finishTimes = search.FinishTimes(m.list)
	}

	lines := make([]string, 0, height)
	top := m.list.Top
	for row := 0; row < height; row++ {
		i := top + row
		if i >= m.list.Len() {
			lines = append(lines, render.EmptyLine(m.width))
			continue
		}
		lines = append(lines, m.renderRow(i, finishTimes, s))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(i int, finishTimes []int, s *styles.Styles) string {
	slot := m.list.At(i)
	left := slot.DisplayText()

	var extra string
	if slot.Track != nil {
		extra = m.infoColumnText(slot)
	}
	if m.showFinish && i < len(finishTimes) {
		extra = fmt.Sprintf("%s  %s", extra, formatClock(finishTimes[i]))
	}

	line := render.Row(left, extra, m.width)
	if i == m.list.Cursor {
		return s.Cursor.Render(line)
	}
	if m.pb.Current() != nil && slot.Track != nil && slot.Track.Path == m.pb.Current().Path {
		return s.Playing.Render(line)
	}
	return line
}

func (m *Model) infoColumnText(slot *displaylist.Slot) string {
	t := slot.Track
	switch m.infoCol {
	case InfoColBitrate:
		return fmt.Sprintf("%d kbps", t.Info.Bitrate)
	case InfoColGenre:
		return genreLabel(t.Info.Genre)
	case InfoColRating:
		return fmt.Sprintf("rating %d", t.Info.Rating)
	case InfoColSize:
		return fmt.Sprintf("%d KB", t.Info.FileSize/1024)
	default:
		return formatClock(t.Info.Duration)
	}
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (m *Model) renderStatus() string {
	if m.statusMsg == "" {
		return render.EmptyLine(m.width)
	}
	return styles.T().S().Muted.Render(render.Truncate(m.statusMsg, m.width))
}

func (m *Model) renderPlayerBar() string {
	state := playerbar.State{
		Playing:     m.pb.State() == playback.Playing,
		Paused:      m.pb.State() == playback.Paused,
		Position:    secondsToDuration(m.pb.Elapsed()),
		DisplayMode: m.playerMode,
	}
	if t := m.pb.Current(); t != nil {
		state.Title = t.Display
		state.Duration = secondsToDuration(t.Info.Duration)
		state.Genre = genreLabel(t.Info.Genre)
	}
	if st := m.pb.StreamTitle(); st != "" {
		state.StreamTitle = st
	}
	return playerbar.Render(state, m.width)
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
