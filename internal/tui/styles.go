package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#F25D94")
	colorMuted   = lipgloss.Color("#767676")
	colorText    = lipgloss.Color("#E4E4E4")
	colorSurface = lipgloss.Color("#262626")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorSurface).
			PaddingLeft(1)

	itemTitleStyle    = lipgloss.NewStyle().Foreground(colorText)
	itemSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	itemTimeStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	itemMetaStyle     = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	itemDescStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	voteStyle         = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	statusStyle = lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).PaddingLeft(1)
)
