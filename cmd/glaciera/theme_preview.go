package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/itspluxstahre/glaciera/internal/ui/styles"
)

// runThemePreview implements §6.1's "--theme-preview" flag: print every
// color in the active theme as an ANSI true-color swatch and exit. Only
// the one compiled-in theme (styles.T's default) exists to preview; a
// themes/*.toml directory loader has no grounding anywhere in the example
// corpus, so appearance.theme in config.toml is accepted but not yet
// switchable at runtime.
func runThemePreview() int {
	t := styles.T()
	swatches := []struct {
		name  string
		color lipgloss.Color
	}{
		{"primary", t.Primary},
		{"secondary", t.Secondary},
		{"fg-base", t.FgBase},
		{"fg-muted", t.FgMuted},
		{"fg-subtle", t.FgSubtle},
		{"bg-base", t.BgBase},
		{"bg-cursor", t.BgCursor},
		{"border", t.Border},
		{"border-focus", t.BorderFocus},
		{"success", t.Success},
		{"error", t.Error},
		{"warning", t.Warning},
	}

	fmt.Println("default:")
	for _, sw := range swatches {
		block := lipgloss.NewStyle().Background(sw.color).Render("      ")
		fmt.Printf("  %-14s %s  %s\n", sw.name, block, sw.color)
	}
	return 0
}
