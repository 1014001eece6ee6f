package app

import "github.com/itspluxstahre/glaciera/internal/displaylist"

// navigate applies one of §4.7's navigation keys directly to list's own
// Cursor/Top fields (displaylist.List carries its cursor inline rather than
// through the internal/ui/cursor component, which the single-list §4.7
// screen has no other use for). Returns true if key was a navigation key.
func navigate(list *displaylist.List, key string, height int) bool {
	const margin = 3

	switch key {
	case "up", "k":
		moveBy(list, -1, height, margin)
	case "down", "j":
		moveBy(list, 1, height, margin)
	case "pgup":
		moveBy(list, -maxInt(height-1, 1), height, margin)
	case "pgdown":
		moveBy(list, maxInt(height-1, 1), height, margin)
	case "ctrl+u":
		moveBy(list, -maxInt(height/2, 1), height, margin)
	case "ctrl+d":
		moveBy(list, maxInt(height/2, 1), height, margin)
	case "home":
		list.Cursor = 0
		list.Top = 0
	case "end":
		list.Cursor = list.Len() - 1
		ensureVisible(list, height, margin)
	default:
		return false
	}
	list.Clamp()
	return true
}

func moveBy(list *displaylist.List, delta, height, margin int) {
	if list.Len() == 0 {
		return
	}
	list.Cursor += delta
	if list.Cursor < 0 {
		list.Cursor = 0
	}
	if list.Cursor >= list.Len() {
		list.Cursor = list.Len() - 1
	}
	ensureVisible(list, height, margin)
}

func ensureVisible(list *displaylist.List, height, margin int) {
	if height <= 0 || list.Len() == 0 {
		return
	}
	if list.Cursor < list.Top+margin {
		list.Top = maxInt(list.Cursor-margin, 0)
	}
	if list.Cursor >= list.Top+height-margin {
		list.Top = list.Cursor - height + margin + 1
	}
	maxTop := maxInt(list.Len()-height, 0)
	if list.Top > maxTop {
		list.Top = maxTop
	}
	if list.Top < 0 {
		list.Top = 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
