package app

import (
	"time"

	"github.com/itspluxstahre/glaciera/internal/scanner"
)

// TickMsg is the §5/§4.7 1Hz alarm, re-armed every time it fires.
type TickMsg time.Time

// scanProgressMsg wraps one value read off the active rescan's progress
// channel (F11 "Reload catalog").
type scanProgressMsg struct {
	progress scanner.Progress
	ok       bool
}
