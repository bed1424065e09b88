package tui

import (
	"github.com/charmbracelet/lipgloss"

	"journey-tracker/internal/journey"
)

// Palette taken from the light orange scheme of the mobile screen.
const (
	colorLightOrange = "#FFD699"
	colorDarkOrange  = "#FFA343"
	colorCurrent     = "#FFEB3B"
	colorCovered     = "#4CAF50"
	colorText        = "#000000"
)

type styles struct {
	title    lipgloss.Style
	button   lipgloss.Style
	keyHint  lipgloss.Style
	rows     map[journey.Highlight]lipgloss.Style
	detail   lipgloss.Style
	finished lipgloss.Style
	errText  lipgloss.Style
	scroll   lipgloss.Style
}

func defaultStyles() styles {
	row := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorText)).
		Padding(0, 1)

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorDarkOrange)).
			MarginBottom(1),
		button: lipgloss.NewStyle().
			Background(lipgloss.Color(colorDarkOrange)).
			Foreground(lipgloss.Color(colorText)).
			Padding(0, 2).
			MarginRight(1),
		keyHint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		rows: map[journey.Highlight]lipgloss.Style{
			journey.Current: row.Background(lipgloss.Color(colorCurrent)).Bold(true),
			journey.Covered: row.Background(lipgloss.Color(colorCovered)),
			journey.Default: row.Background(lipgloss.Color(colorLightOrange)),
		},
		detail: lipgloss.NewStyle().
			Bold(true),
		finished: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorCovered)).
			Bold(true),
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		scroll: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),
	}
}
