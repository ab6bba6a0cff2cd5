package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/items/internal/ui"
)

// ------- styling helpers (Lip Gloss), built from the active theme -------
type styles struct {
	title, accent, muted, err, spinner lipgloss.Style
	selected, help                     lipgloss.Style
	panel                              lipgloss.Style
}

func newStyles(t ui.Theme) styles {
	return styles{
		title:    fg(lipgloss.NewStyle().Bold(true), t.TitleColor),
		accent:   fg(lipgloss.NewStyle(), t.AccentColor),
		muted:    lipgloss.NewStyle().Faint(true),
		err:      fg(lipgloss.NewStyle().Bold(true), t.ErrorColor),
		spinner:  fg(lipgloss.NewStyle(), t.SpinnerColor),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		help:     lipgloss.NewStyle().Faint(true),
		panel:    panelStyle(t),
	}
}

func panelStyle(t ui.Theme) lipgloss.Style {
	s := lipgloss.NewStyle().Border(t.Border).Padding(0, 1)
	if t.BorderColor != "" {
		s = s.BorderForeground(t.BorderColor)
	}
	return s
}

// fg sets a foreground only when the theme has one.
func fg(s lipgloss.Style, c lipgloss.Color) lipgloss.Style {
	if c == "" {
		return s
	}
	return s.Foreground(c)
}
