package playback

import (
	"os"
	"strings"
)

// warmHead reads the first two 4 KB blocks of path into the page cache,
// §4.6's "pre-read the head of track" step run before every Play so the
// decoder's first reads don't stall.
func warmHead(path string) {
	readBlocks(path, 0, 2)
}

// precacheHead reads just the first 4 KB block of path, the lighter
// background job that Tick triggers with ≤10s remaining. Tick passes the
// track that is playing; the following track is not read.
func precacheHead(path string) {
	readBlocks(path, 0, 1)
}

// readAhead reads 16 blocks of 4 KB starting at the byte offset
// corresponding to percentPlayed through a file of size fileSize, per
// §4.6's always-on read-ahead job.
func readAhead(path string, fileSize int64, percentPlayed float64) {
	if fileSize <= 0 {
		return
	}
	offset := int64(float64(fileSize) * percentPlayed / 100)
	readBlocksAt(path, offset, 16)
}

func readBlocks(path string, startBlock, count int) {
	readBlocksAt(path, int64(startBlock*preReadBlock), count)
}

func readBlocksAt(path string, offset int64, count int) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	buf := make([]byte, preReadBlock)
	for i := 0; i < count; i++ {
		if _, err := f.ReadAt(buf, offset+int64(i*preReadBlock)); err != nil {
			return
		}
	}
}

// splitFlags splits a §6.2 player flags string on whitespace. Flags are
// configuration-controlled, not user input, and §6.2 explicitly disallows
// shell variable/command substitution, so a plain whitespace split (no
// shell invocation) is both simpler and safer than handing the string to
// /bin/sh.
func splitFlags(flags string) []string {
	return strings.Fields(flags)
}
