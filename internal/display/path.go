package display

import "strings"

// massageFullPath decides how many path components up to borrow the display
// base name from, matching the original's massage_full_path/fix_01_to_fullname:
// a bare "01", "02-song" style leaf with no hyphen (or a leading two-digit
// track number) borrows from the album directory two levels up; a "CD1"/
// "CD 2" disc-subdirectory leaf borrows from three levels up instead.
func massageFullPath(fullPath string) string {
	leaf := lastComponent(fullPath)
	leafNoExt := StripExtension(leaf)

	if !looksLikeBareTrack(leafNoExt) {
		return StripExtension(fullPath)
	}

	if looksLikeDiscSubdir(secondLastComponent(fullPath)) {
		return StripExtension(fixToFullName(3, fullPath))
	}
	return StripExtension(fixToFullName(2, fullPath))
}

// looksLikeBareTrack reports whether a leaf name carries no hyphen, or
// starts with two digits immediately (e.g. "01 Song", "02.flac" already
// extension-stripped to "02.flac"→"02").
func looksLikeBareTrack(s string) bool {
	if !strings.Contains(s, "-") {
		return true
	}
	return len(s) >= 2 && isDigit(s[0]) && isDigit(s[1])
}

// looksLikeDiscSubdir matches "CD1", "CD 2", "Cd-3", "cd/1" style directory
// names: C/c, D/d, then a space/digit/dash/slash separator before a disc
// number.
func looksLikeDiscSubdir(s string) bool {
	if len(s) < 3 {
		return false
	}
	c, d := s[0], s[1]
	if (c != 'c' && c != 'C') || (d != 'd' && d != 'D') {
		return false
	}
	rest := s[2:]
	if rest == "" {
		return false
	}
	sep := rest[0]
	switch {
	case sep == ' ' || sep == '-' || sep == '/' || isDigit(sep):
		return true
	default:
		return false
	}
}

// fixToFullName returns the path suffix starting after the offset-th slash
// counted from the end of s.
func fixToFullName(offset int, s string) string {
	count := 0
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			count++
			if count == offset {
				return s[i+1:]
			}
		}
	}
	return s
}

func lastComponent(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// secondLastComponent returns the directory name one level above the leaf,
// i.e. the path component between the second-to-last and last slash.
func secondLastComponent(s string) string {
	last := strings.LastIndexByte(s, '/')
	if last < 0 {
		return ""
	}
	prefix := s[:last]
	second := strings.LastIndexByte(prefix, '/')
	return prefix[second+1:]
}
