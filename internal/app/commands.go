package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itspluxstahre/glaciera/internal/scanner"
)

// tickCmd arms the next 1Hz alarm (§4.7, §5).
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForScan reads the next value off the active rescan's progress
// channel, converting it to a scanProgressMsg so Update can re-arm the
// wait. Grounded on the teacher's commands.go waitForChannel helper.
func waitForScan(ch <-chan scanner.Progress) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		return scanProgressMsg{progress: p, ok: ok}
	}
}
