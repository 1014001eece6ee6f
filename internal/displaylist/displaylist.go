// Package displaylist holds the §3.1 DisplaySlot/List data model: the
// view the UI currently has on screen, whether it came from a catalog
// search, an artist rollup, or a loaded playlist. A slot either borrows a
// catalog Track or owns a synthetic row (a missing playlist entry, an
// artist/genre/top-list rollup line); synthetic slots are freed on reset
// (I5), matching the teacher's "rebuild the view on every change" shape
// used throughout internal/ui.
package displaylist

import "github.com/itspluxstahre/glaciera/internal/tuneinfo"

// Slot is one visible row. Track is nil for a synthetic slot, in which
// case Display/Count carry the row's own data and Search is always empty
// (I5: "synthetic slots carry search = ∅").
type Slot struct {
	Track   *tuneinfo.Track // borrowed; nil for synthetic rows
	Display string          // synthetic display text; ignored when Track != nil
	Count   int             // rollup occurrence count (artist/genre/top views); 0 otherwise
}

// DisplayText returns the row's visible name regardless of whether it
// borrows a catalog Track or owns synthetic text.
func (s Slot) DisplayText() string {
	if s.Track != nil {
		return s.Track.Display
	}
	return s.Display
}

// List is the current view's ordered row set (§3.1 DisplaySlot list,
// I5: displaycount <= capacity is implicit in a Go slice).
type List struct {
	slots []Slot
	// Cursor is the currently selected row, in [0, Len()) unless the list
	// is empty, matching tunenr in §3.1/I5.
	Cursor int
	// Top is the first visible row when the list is scrolled.
	Top int
}

// New creates an empty list.
func New() *List { return &List{} }

// FromTracks builds a list borrowing every given track, in order.
func FromTracks(tracks []*tuneinfo.Track) *List {
	l := &List{slots: make([]Slot, len(tracks))}
	for i, t := range tracks {
		l.slots[i] = Slot{Track: t}
	}
	return l
}

// Add appends a borrowed-track slot.
func (l *List) Add(t *tuneinfo.Track) {
	l.slots = append(l.slots, Slot{Track: t})
}

// AddSynthetic appends an owned synthetic slot (search = ∅, I5).
func (l *List) AddSynthetic(display string, count int) {
	l.slots = append(l.slots, Slot{Display: display, Count: count})
}

// Reset clears the list and frees any synthetic rows (§3.4: "synthetic
// entries freed before replacement").
func (l *List) Reset() {
	l.slots = l.slots[:0]
	l.Cursor = 0
	l.Top = 0
}

// Len reports the number of visible rows.
func (l *List) Len() int { return len(l.slots) }

// At returns the slot at index i, or nil if out of range.
func (l *List) At(i int) *Slot {
	if i < 0 || i >= len(l.slots) {
		return nil
	}
	return &l.slots[i]
}

// Slots returns the live backing slice. Callers must not retain it across a
// Reset.
func (l *List) Slots() []Slot { return l.slots }

// Selected returns the slot under the cursor, or nil if the list is empty.
func (l *List) Selected() *Slot {
	return l.At(l.Cursor)
}

// Clamp keeps Cursor/Top within [0, Len()) per I5 ("tunenr ∈ [0,
// displaycount) unless the list is empty").
func (l *List) Clamp() {
	if len(l.slots) == 0 {
		l.Cursor, l.Top = 0, 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.slots) {
		l.Cursor = len(l.slots) - 1
	}
	if l.Top < 0 {
		l.Top = 0
	}
	if l.Top > l.Cursor {
		l.Top = l.Cursor
	}
}
