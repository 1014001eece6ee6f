// Package display synthesizes the human-visible track name (spec §4.3): it
// strips the filename pattern shared by every sibling in a directory down
// to the parts that actually vary (track title, track number), cleans up
// ripper suffixes and punctuation, and prefers tag metadata when available.
package display

import "strings"

// Keeper is a byte-indexed bitmap over one directory's music filenames
// (minus extension) marking which byte positions survive column analysis.
// A position past the analyzed range is always kept — there was no sibling
// data to suppress it.
type Keeper struct {
	bits []bool
}

// Test reports whether byte position i should be kept.
func (k Keeper) Test(i int) bool {
	if i < 0 {
		return false
	}
	if i >= len(k.bits) {
		return true
	}
	return k.bits[i]
}

// AnalyzeDirectory implements spec §4.3's column analysis over the base
// names (extension already stripped) of every music file in one directory.
// Directories with 0 or 1 music files keep every position (step 8).
func AnalyzeDirectory(baseNames []string) Keeper {
	n := len(baseNames)
	if n <= 1 {
		return Keeper{} // Test() defaults true beyond an empty bitmap
	}

	maxLen := 0
	for _, b := range baseNames {
		if len(b) > maxLen {
			maxLen = len(b)
		}
	}

	base := baseNames[0]
	sameColumn := make([]int, maxLen)
	trackColumn := make([]int, maxLen)
	sumColumn := make([]int, maxLen)

	for _, name := range baseNames {
		for i := 0; i < len(name); i++ {
			c := name[i]
			if c == ' ' || isASCIIPunct(c) {
				continue
			}
			if i < len(base) && base[i] == c {
				sameColumn[i]++
			}
			if isDigit(c) {
				trackColumn[i]++
				sumColumn[i] += int(c)
			}
		}
	}

	same := make([]bool, maxLen)
	track := make([]bool, maxLen)
	for i := 0; i < maxLen; i++ {
		same[i] = sameColumn[i] == n
		track[i] = trackColumn[i] == n
	}

	// Collapse redundant text that happens to coincide with a track
	// position (step 4): "cd1" vs "01" overlap.
	for i := 0; i < maxLen; i++ {
		if !track[i] {
			continue
		}
		mean := sumColumn[i] / n
		if i < len(base) && mean == int(base[i]) && same[i] {
			same[i] = true
			track[i] = false
		}
	}

	// Leftmost numeric column (step 5): everything to its left is prefix
	// and becomes common, so digits embedded later in the title don't get
	// mistaken for the track-number prefix.
	trackStarts := -1
	for i := 0; i < maxLen; i++ {
		if track[i] {
			trackStarts = i
			break
		}
	}
	if trackStarts > 0 {
		for i := 0; i < trackStarts; i++ {
			track[i] = false
			same[i] = true
		}
	}

	// Salvage "1-song" vs "01-song" (step 6): a single numeric column
	// also claims the column to its left.
	trackCount := 0
	soleIdx := -1
	for i := 0; i < maxLen; i++ {
		if track[i] {
			trackCount++
			soleIdx = i
		}
	}
	if trackCount == 1 && soleIdx > 0 {
		track[soleIdx-1] = true
	}

	// Final keeper mask (step 7): keep unique chars and every numeric
	// track position. When no numeric columns exist this already reduces
	// to "keep every non-common position", since track[i] is false
	// everywhere in that case.
	bits := make([]bool, maxLen)
	for i := 0; i < maxLen; i++ {
		bits[i] = !same[i] || track[i]
	}

	return Keeper{bits: bits}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// SearchText implements common.c's only_searchables: the ASCII-uppercase-
// alphanumerics projection of name (I2) used for the catalog's `search`
// column and the in-memory bucket index.
func SearchText(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAlnum(c) {
			b.WriteByte(upperByte(c))
		}
	}
	return b.String()
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// StripExtension removes the last "." extension from a filename, if any.
func StripExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
