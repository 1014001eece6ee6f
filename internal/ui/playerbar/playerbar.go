// Package playerbar renders the §4.6 now-playing bar: a compact single
// line for normal browsing and an expanded multi-line view with a larger
// progress display, fed by the playback controller's state plus whatever
// tag metadata the format probe decoded for the current track. Grounded
// on the teacher's player-bar renderer, trimmed of album art/disc/radio
// concepts that have no home in Glaciera's data model (§3.1).
package playerbar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/itspluxstahre/glaciera/internal/ui/render"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Detailed view with metadata
)

// State holds everything needed to render the player bar for one tick.
// Title falls back to the catalog Display name when no tag metadata was
// decoded for the track (§4.1: probes may return "no metadata").
type State struct {
	Playing     bool
	Paused      bool
	Track       int // TrackMetadata.TrackNumber, 0 if unknown
	Title       string
	Artist      string
	Album       string
	Position    time.Duration
	Duration    time.Duration
	DisplayMode DisplayMode
	Genre       string // empty if TuneInfo.Genre == GenreUnknown
	StreamTitle string // icecast StreamTitle, shown instead of a bar for streams (duration 0)
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 5 // 3 content rows + 2 border rows
	}
	return 3 // top border + content + bottom border
}

// Render returns the player bar string for the given width.
// Returns empty string if not playing (stopped state).
func Render(s State, width int) string {
	if !s.Playing && !s.Paused {
		return ""
	}

	if s.DisplayMode == ModeExpanded {
		return RenderExpanded(s, width)
	}

	return renderCompact(s, width)
}

func renderCompact(s State, width int) string {
	innerWidth := max(width-6, 0)

	status := playSymbol
	if s.Paused {
		status = pauseSymbol
	}

	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}

	var infoParts []string
	if s.Artist != "" {
		infoParts = append(infoParts, s.Artist)
	}
	if s.Album != "" {
		infoParts = append(infoParts, s.Album)
	}
	info := strings.Join(infoParts, " · ")

	trackNum := ""
	if s.Track > 0 {
		trackNum = strconv.Itoa(s.Track)
	}

	timeStr := timeDisplay(s)

	separator := "   "
	sepWidth := lipgloss.Width(separator)
	timeWidth := lipgloss.Width(timeStr)
	statusWidth := lipgloss.Width(status + "  ")
	trackNumWidth := lipgloss.Width(trackNum)

	titleWidth := lipgloss.Width(title)
	infoWidth := lipgloss.Width(info)

	minBarWidth := 10

	trackNumSpace := 0
	if trackNum != "" {
		trackNumSpace = trackNumWidth + sepWidth
	}
	availableForContent := innerWidth - statusWidth - timeWidth - sepWidth*2 - minBarWidth - trackNumSpace

	var styledTitle, styledInfo string
	var usedContentWidth int

	switch {
	case titleWidth+sepWidth+infoWidth <= availableForContent:
		styledTitle = titleStyle().Render(title)
		styledInfo = artistStyle().Render(info)
		usedContentWidth = titleWidth + sepWidth + infoWidth
	case titleWidth+sepWidth <= availableForContent && info != "":
		maxInfo := availableForContent - titleWidth - sepWidth
		styledTitle = titleStyle().Render(title)
		styledInfo = artistStyle().Render(render.TruncateEllipsis(info, maxInfo))
		usedContentWidth = titleWidth + sepWidth + maxInfo
	default:
		maxTitle := max(availableForContent, 10)
		styledTitle = titleStyle().Render(render.TruncateEllipsis(title, maxTitle))
		styledInfo = ""
		usedContentWidth = min(titleWidth, maxTitle)
	}

	barWidth := max(innerWidth-usedContentWidth-trackNumSpace-statusWidth-timeWidth-sepWidth*2, 5)

	var content strings.Builder
	content.WriteString(styledTitle)
	if styledInfo != "" {
		content.WriteString(separator)
		content.WriteString(styledInfo)
	}
	if trackNum != "" {
		content.WriteString(separator)
		content.WriteString(metaStyle().Render(trackNum))
	}
	content.WriteString(separator)
	content.WriteString(status)
	content.WriteString("  ")
	if s.StreamTitle != "" {
		content.WriteString(render.TruncateEllipsis(s.StreamTitle, barWidth))
	} else {
		content.WriteString(renderBar(s.Position, s.Duration, barWidth))
	}
	content.WriteString(separator)
	content.WriteString(progressTimeStyle().Render(timeStr))

	return barStyle().Padding(0, 2).Width(width - 2).Render(content.String())
}

func renderBar(position, duration time.Duration, barWidth int) string {
	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)
	filledBar := progressBarFilled().Render(strings.Repeat("━", filled))
	emptyBar := progressBarEmpty().Render(strings.Repeat("─", barWidth-filled))
	return filledBar + emptyBar
}

func timeDisplay(s State) string {
	if s.Duration == 0 && s.StreamTitle != "" {
		return formatDuration(s.Position)
	}
	return fmt.Sprintf("%s / %s", formatDuration(s.Position), formatDuration(s.Duration))
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
