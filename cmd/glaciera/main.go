// Command glaciera is the interactive terminal jukebox (spec §4.7, C8):
// it loads the shared catalog into memory, opens the playback controller,
// and hands the terminal to a single bubbletea program for the rest of
// the run.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itspluxstahre/glaciera/internal/app"
	"github.com/itspluxstahre/glaciera/internal/catalog"
	"github.com/itspluxstahre/glaciera/internal/config"
	"github.com/itspluxstahre/glaciera/internal/logging"
	"github.com/itspluxstahre/glaciera/internal/memcatalog"
	"github.com/itspluxstahre/glaciera/internal/ripper"
)

const version = "glaciera 1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("glaciera", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: glaciera [-h] [-v] [-r] [--theme-preview]")
		fs.PrintDefaults()
	}

	showVersion := fs.Bool("v", false, "print version and exit")
	noReadAhead := fs.Bool("r", false, "disable read-ahead")
	themePreview := fs.Bool("theme-preview", false, "print every theme file as ANSI swatches and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Println(version)
		return 0
	}
	if *themePreview {
		return runThemePreview()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera: config: %v\n", err)
	}

	if missing := missingPlayerBinaries(cfg.Players); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "glaciera: required player binaries not found: %s\n", strings.Join(missing, ", "))
		return 1
	}

	logger, err := logging.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera: %v\n", err)
		logger = logging.Discard()
	}
	defer logger.Close()

	store, err := catalog.Open(config.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera: opening catalog: %v\n", err)
		return 1
	}
	defer store.Close()

	tracks, err := store.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera: loading catalog: %v\n", err)
		return 1
	}
	cat := memcatalog.Load(tracks)

	rip, err := ripper.Load(cfg.Paths.Rippers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera: loading ripper list: %v\n", err)
		return 1
	}

	model := app.New(cfg, store, cat, rip, logger, app.Options{NoReadAhead: *noReadAhead})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "glaciera: %v\n", err)
		return 1
	}
	return 0
}

// missingPlayerBinaries implements §7's player start-up preflight: refuse
// to run if a configured decoder executable can't be resolved on PATH.
func missingPlayerBinaries(p config.Players) []string {
	var missing []string
	for _, name := range []string{p.MP3Player, p.OggPlayer, p.FLACPlayer, p.PLSPlayer} {
		if name == "" {
			continue
		}
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}
