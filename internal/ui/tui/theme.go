package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Toast    lipgloss.Style
	Valid    lipgloss.Style
	Invalid  lipgloss.Style
	Current  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Toast:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Valid:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Invalid: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Current: lipgloss.NewStyle().Bold(true).Underline(true),
	}
}
