package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
)

// ApplyGradient renders text with a horizontal color gradient.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, false, from, to)
}

// ApplyBoldGradient renders bold text with a horizontal color gradient.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, true, from, to)
}

func applyGradient(text string, bold bool, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	// Split into grapheme clusters for proper unicode handling
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	if len(clusters) == 0 {
		return ""
	}

	if len(clusters) == 1 {
		style := lipgloss.NewStyle().Foreground(from)
		if bold {
			style = style.Bold(true)
		}
		return style.Render(text)
	}

	colors := blendColors(len(clusters), from, to)

	var b strings.Builder
	for i, cluster := range clusters {
		style := lipgloss.NewStyle().Foreground(colors[i])
		if bold {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(cluster))
	}

	return b.String()
}

// blendColors linearly interpolates size colors between from and to in
// sRGB space. Plain component-wise interpolation is good enough for a
// splash-screen title gradient and needs no color-science library.
func blendColors(size int, from, to lipgloss.Color) []lipgloss.Color {
	if size < 2 {
		return []lipgloss.Color{from}
	}

	r1, g1, b1 := hexToRGB(string(from))
	r2, g2, b2 := hexToRGB(string(to))

	colors := make([]lipgloss.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		r := lerp(r1, r2, t)
		g := lerp(g1, g2, t)
		b := lerp(b1, b2, t)
		colors[i] = lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
	}
	return colors
}

func lerp(a, b int, t float64) int {
	return a + int(float64(b-a)*t)
}

// hexToRGB parses a "#rrggbb" lipgloss color; any other form (ANSI index,
// malformed string) falls back to a neutral gray.
func hexToRGB(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 128, 128, 128
	}
	rv, errR := strconv.ParseInt(hex[1:3], 16, 32)
	gv, errG := strconv.ParseInt(hex[3:5], 16, 32)
	bv, errB := strconv.ParseInt(hex[5:7], 16, 32)
	if errR != nil || errG != nil || errB != nil {
		return 128, 128, 128
	}
	return int(rv), int(gv), int(bv)
}
