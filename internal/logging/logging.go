// Package logging opens the operator-facing diagnostic log file; the
// player binary is its only caller. It never writes to stdout/stderr itself when a TUI owns
// the terminal; the player's info bar (§4.7) is the user-visible channel,
// this file is the operator one.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Logger wraps a standard library logger writing to glaciera.log under
// XDG_DATA_HOME. Calling Close is optional but recommended on clean exit.
type Logger struct {
	*log.Logger
	file *os.File
}

// Open creates (or appends to) $XDG_DATA_HOME/glaciera/glaciera.log.
func Open() (*Logger, error) {
	dir := filepath.Join(xdg.DataHome, "glaciera")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: creating data dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "glaciera.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: opening log file: %w", err)
	}

	return &Logger{
		Logger: log.New(f, "", log.LstdFlags),
		file:   f,
	}, nil
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a Logger that writes nowhere, for contexts (tests, probes
// run outside of either binary) that want the interface without a file.
func Discard() *Logger {
	return &Logger{Logger: log.New(discardWriter{}, "", 0)}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
