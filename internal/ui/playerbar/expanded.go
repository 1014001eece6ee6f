package playerbar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itspluxstahre/glaciera/internal/ui"
	"github.com/itspluxstahre/glaciera/internal/ui/render"
)

// RenderExpanded renders the expanded player view with detailed metadata.
func RenderExpanded(s State, width int) string {
	innerWidth := max(width-6, 0)
	if innerWidth < ui.MinExpandedWidth {
		return Render(s, width)
	}

	lines := make([]string, 0, 3)

	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}

	metaLine := ""
	if s.Genre != "" {
		metaLine = formatGenre(s.Genre)
	}

	lines = append(lines, renderRow(
		titleStyle().Render(render.TruncateEllipsis(title, innerWidth*55/100)),
		metaStyle().Render(render.TruncateEllipsis(metaLine, innerWidth*45/100)),
		innerWidth,
	))

	infoParts := []string{}
	artist := s.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}
	infoParts = append(infoParts, artist)
	if s.Album != "" {
		infoParts = append(infoParts, s.Album)
	}
	infoLine := strings.Join(infoParts, " · ")

	trackInfo := ""
	if s.Track > 0 {
		trackInfo = fmt.Sprintf("Track %s", strconv.Itoa(s.Track))
	}

	lines = append(lines, renderRow(
		artistStyle().Render(render.TruncateEllipsis(infoLine, innerWidth*2/3)),
		metaStyle().Render(trackInfo),
		innerWidth,
	))

	lines = append(lines, renderStyledProgressBar(s, innerWidth))

	content := strings.Join(lines, "\n")
	return expandedBarStyle().Width(width - 2).Render(content)
}

func renderRow(left, right string, width int) string {
	return render.Row(left, right, width)
}

// formatGenre formats genre for display, replacing ; and , with " / ".
func formatGenre(genre string) string {
	result := strings.ReplaceAll(genre, ";", " / ")
	result = strings.ReplaceAll(result, ",", " / ")
	for strings.Contains(result, "  ") {
		result = strings.ReplaceAll(result, "  ", " ")
	}
	return strings.TrimSpace(result)
}

func renderStyledProgressBar(s State, width int) string {
	status := playSymbol
	if !s.Playing {
		status = pauseSymbol
	}

	if s.Duration == 0 && s.StreamTitle != "" {
		return status + "  " + progressTimeStyle().Render(formatDuration(s.Position)) + "  " +
			metaStyle().Render(render.TruncateEllipsis(s.StreamTitle, width-20))
	}

	posStr := formatDuration(s.Position)
	durStr := formatDuration(s.Duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < 5 {
		return status + "  " + progressTimeStyle().Render(posStr+" / "+durStr)
	}

	bar := renderBar(s.Position, s.Duration, barWidth)
	return status + "  " + progressTimeStyle().Render(posStr) + "  " + bar + "  " + progressTimeStyle().Render(durStr)
}
