package search

import (
	"sort"
	"strings"

	"github.com/itspluxstahre/glaciera/internal/displaylist"
)

// SortMode is one of §4.5's display-list sort modes.
type SortMode int

const (
	SortNormal SortMode = iota // primary, by display case-insensitive
	SortLength
	SortSize
	SortDate // day granularity
	SortBitrate
	SortGenre
	SortRating
	SortPath
	SortFinish // cumulative duration order
)

// Sort reorders list in place per mode and direction. Finish mode sorts by
// the same key as Normal (display order is what cumulative finish times
// are computed over); FinishTimes below derives the per-entry cumulative
// durations afterward.
func Sort(list *displaylist.List, mode SortMode, ascending bool) {
	slots := list.Slots()
	less := lessFunc(mode)

	sort.SliceStable(slots, func(i, j int) bool {
		if ascending {
			return less(slots[i], slots[j])
		}
		return less(slots[j], slots[i])
	})
}

func lessFunc(mode SortMode) func(a, b displaylist.Slot) bool {
	switch mode {
	case SortLength:
		return func(a, b displaylist.Slot) bool { return durationOf(a) < durationOf(b) }
	case SortSize:
		return func(a, b displaylist.Slot) bool { return sizeOf(a) < sizeOf(b) }
	case SortDate:
		return func(a, b displaylist.Slot) bool { return dayOf(a) < dayOf(b) }
	case SortBitrate:
		return func(a, b displaylist.Slot) bool { return bitrateOf(a) < bitrateOf(b) }
	case SortGenre:
		return func(a, b displaylist.Slot) bool { return genreOf(a) < genreOf(b) }
	case SortRating:
		return func(a, b displaylist.Slot) bool { return ratingOf(a) < ratingOf(b) }
	case SortPath:
		return func(a, b displaylist.Slot) bool { return pathOf(a) < pathOf(b) }
	case SortNormal, SortFinish:
		fallthrough
	default:
		return func(a, b displaylist.Slot) bool {
			return strings.ToUpper(a.DisplayText()) < strings.ToUpper(b.DisplayText())
		}
	}
}

func durationOf(s displaylist.Slot) int {
	if s.Track == nil {
		return 0
	}
	return s.Track.Info.Duration
}

func sizeOf(s displaylist.Slot) int64 {
	if s.Track == nil {
		return 0
	}
	return s.Track.Info.FileSize
}

// dayOf truncates to day granularity per §4.5 ("date (day granularity)").
func dayOf(s displaylist.Slot) int64 {
	if s.Track == nil {
		return 0
	}
	return s.Track.Info.FileDate / 86400
}

func bitrateOf(s displaylist.Slot) int {
	if s.Track == nil {
		return 0
	}
	return s.Track.Info.Bitrate
}

func genreOf(s displaylist.Slot) byte {
	if s.Track == nil {
		return 0
	}
	return s.Track.Info.Genre
}

func ratingOf(s displaylist.Slot) int {
	if s.Track == nil {
		return 0
	}
	return s.Track.Info.Rating
}

func pathOf(s displaylist.Slot) string {
	if s.Track == nil {
		return ""
	}
	return s.Track.Path
}

// FinishTimes returns, for each row in list (assumed already in the order
// it will play), the cumulative duration in seconds up to and including
// that row -- the data the Finish sort mode renders as an estimated finish
// time per entry.
func FinishTimes(list *displaylist.List) []int {
	slots := list.Slots()
	out := make([]int, len(slots))
	total := 0
	for i, s := range slots {
		total += durationOf(s)
		out[i] = total
	}
	return out
}

// ToggleState tracks §4.5's "same key pressed twice in a row" direction
// toggle for sort keys: pressing the same sort key again flips direction,
// any other key resets to ascending.
type ToggleState struct {
	lastMode  SortMode
	lastSet   bool
	ascending bool
}

// Apply records a keypress for mode and returns the direction to sort in.
func (t *ToggleState) Apply(mode SortMode) bool {
	if t.lastSet && t.lastMode == mode {
		t.ascending = !t.ascending
	} else {
		t.ascending = true
	}
	t.lastMode = mode
	t.lastSet = true
	return t.ascending
}
