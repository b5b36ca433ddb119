package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	HostIcon    = "👑"
	OnlineIcon  = "🟢"
	OfflineIcon = "⚫"
)

// Lipgloss Styles
var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle = lipgloss.NewStyle().MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// Feedback tiles: green for a correct position, yellow for a
	// misplaced letter, gray for a miss.
	hitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("40")).Bold(true).Padding(0, 1)
	presentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")).Bold(true).Padding(0, 1)
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("240")).Bold(true).Padding(0, 1)
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
)

// renderTile renders one letter with its feedback mark.
func renderTile(letter string, mark string) string {
	switch mark {
	case "hit":
		return hitStyle.Render(letter)
	case "present":
		return presentStyle.Render(letter)
	case "miss":
		return missStyle.Render(letter)
	default:
		return emptyStyle.Render(letter)
	}
}
