// Command glaciera-indexer walks the configured library roots, decodes
// audio container headers through the format probes, and persists the
// normalized track catalog (spec §6.1). It shares the on-disk catalog with
// the glaciera player but never holds the UI terminal itself, so its
// progress reporting goes straight to stdout/stderr rather than through an
// info bar.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/itspluxstahre/glaciera/internal/catalog"
	"github.com/itspluxstahre/glaciera/internal/config"
	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/ripper"
	"github.com/itspluxstahre/glaciera/internal/scanner"
)

const version = "glaciera-indexer 1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("glaciera-indexer", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: glaciera-indexer [-h] [-v] [-w] [-f] [-s] [root ...]")
		fs.PrintDefaults()
	}

	showVersion := fs.Bool("v", false, "print version and exit")
	writeFlat := fs.Bool("w", false, "generate flat text index as a compatibility artifact")
	force := fs.Bool("f", false, "force full rebuild, disabling the change-detection shortcut")
	skipProbe := fs.Bool("s", false, "skip format probing")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Println(version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera-indexer: config: %v\n", err)
		// §7: config malformed still runs with defaults for unset keys.
	}

	roots := fs.Args()
	if len(roots) == 0 {
		roots = cfg.Paths.Index
	}
	if len(roots) == 0 {
		fmt.Fprintln(os.Stderr, "glaciera-indexer: no library roots configured or given")
		return 1
	}

	rip, err := ripper.Load(cfg.Paths.Rippers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera-indexer: loading ripper list: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "glaciera-indexer: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(config.CacheDir(), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "glaciera-indexer: %v\n", err)
		return 1
	}

	store, err := catalog.Open(config.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "glaciera-indexer: opening catalog: %v\n", err)
		return 1
	}
	defer store.Close()

	opts := scanner.Options{
		CacheDir:    config.CacheDir(),
		Force:       *force,
		SkipProbing: *skipProbe,
	}

	started := time.Now()
	progressCh := make(chan scanner.Progress, 1)
	done := make(chan error, 1)

	go func() {
		done <- scanner.Scan(store, roots, rip, opts, progressCh)
	}()

	var last scanner.Progress
	for p := range progressCh {
		last = p
		fmt.Printf("\rscanned %s files (%s new, %s)...",
			humanize.Comma(p.FilesScanned), humanize.Comma(p.NewFiles), humanize.Bytes(uint64(p.BytesScanned)))
	}
	fmt.Println()

	if err := <-done; err != nil {
		if glacierr.Is(err, glacierr.KindStoreIntegrity) {
			fmt.Fprintf(os.Stderr, "glaciera-indexer: catalog write failed: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "glaciera-indexer: scan failed: %v\n", err)
		}
		return 1
	}

	elapsed := time.Since(started).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(last.FilesScanned) / elapsed
	}
	fmt.Printf("done: %s files scanned, %s new, %s in %.1fs (%.1f files/s)\n",
		humanize.Comma(last.FilesScanned), humanize.Comma(last.NewFiles), humanize.Bytes(uint64(last.BytesScanned)), elapsed, rate)

	if *writeFlat {
		flatPath := config.DataDir() + "/flat-index.txt"
		if err := store.ExportFlatIndex(flatPath); err != nil {
			fmt.Fprintf(os.Stderr, "glaciera-indexer: writing flat index: %v\n", err)
			return 1
		}
		fmt.Printf("flat index written to %s\n", flatPath)
	}

	return 0
}
