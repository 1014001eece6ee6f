package playerbar

import "github.com/charmbracelet/lipgloss"

// Player status symbols
const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
)

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
}

func expandedBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 2) // horizontal padding
}

// Text styles for expanded view
func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))
}

func artistStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))
}

func metaStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
}

func progressTimeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))
}

func progressBarFilled() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")) // cyan/blue
}

func progressBarEmpty() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))
}
