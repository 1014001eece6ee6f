// Package scanreport provides a popup component reporting the outcome of
// a directory scan (spec §4.4's progress line, shown once on F11 "Reload
// catalog" completion), grounded on the teacher's scan-report popup shape
// generalized from per-source added/removed/updated counts to Glaciera's
// files-scanned/new-files/bytes-scanned totals.
package scanreport

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/itspluxstahre/glaciera/internal/scanner"
	"github.com/itspluxstahre/glaciera/internal/ui"
	"github.com/itspluxstahre/glaciera/internal/ui/popup"
	"github.com/itspluxstahre/glaciera/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// Model holds the state for the scan report popup.
type Model struct {
	ui.Base
	Progress scanner.Progress
	Elapsed  float64 // seconds, used to derive files/sec and MB/sec
	HasRun   bool
}

// New creates a new scan report model for a completed Progress snapshot.
func New(p scanner.Progress, elapsed float64) Model {
	return Model{Progress: p, Elapsed: elapsed, HasRun: true}
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements popup.Popup. ScanReport doesn't handle any messages -
// it's closed by the manager.
func (m *Model) Update(_ tea.Msg) (popup.Popup, tea.Cmd) {
	return m, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if !m.HasRun {
		return ""
	}

	titleStyle := styles.T().S().Title
	footerStyle := styles.T().S().Subtle

	var result strings.Builder
	result.WriteString(titleStyle.Render("Library Scan Complete"))
	result.WriteString("\n\n")
	result.WriteString(m.buildContent())
	result.WriteString("\n\n")
	result.WriteString(footerStyle.Render("Press Enter or Escape to close"))

	return result.String()
}

func (m Model) buildContent() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Files scanned: %s\n", humanize.Comma(m.Progress.FilesScanned))
	fmt.Fprintf(&sb, "New files:     %s\n", humanize.Comma(m.Progress.NewFiles))
	fmt.Fprintf(&sb, "Data scanned:  %s\n", humanize.Bytes(uint64(m.Progress.BytesScanned)))

	if m.Elapsed > 0 {
		filesPerSec := float64(m.Progress.FilesScanned) / m.Elapsed
		bytesPerSec := float64(m.Progress.BytesScanned) / m.Elapsed
		fmt.Fprintf(&sb, "Rate:          %.1f files/s, %s/s\n", filesPerSec, humanize.Bytes(uint64(bytesPerSec)))
	}

	return strings.TrimRight(sb.String(), "\n")
}
