package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
)

// Theme bundles palette, symbols and panel borders.
// All UI helpers pull from `current`.
// The *color.Color fields paint CLI output, the lipgloss ones the TUI;
// an empty lipgloss color means "no color".
type Theme struct {
	Name                                 string
	Title, Muted, Accent, Success, Error *color.Color
	Border                               lipgloss.Border
	BorderColor                          lipgloss.Color
	Bullet                               string

	TitleColor, AccentColor, ErrorColor, SpinnerColor lipgloss.Color
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:        "classic",
		Title:       color.New(color.Bold),
		Muted:       color.New(color.FgHiBlack),
		Accent:      color.New(color.FgBlue),
		Success:     color.New(color.FgGreen),
		Error:       color.New(color.FgRed, color.Bold),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
		Bullet:      "•",

		AccentColor:  lipgloss.Color("12"),
		ErrorColor:   lipgloss.Color("9"),
		SpinnerColor: lipgloss.Color("214"),
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:        "neon",
			Title:       color.New(color.FgHiMagenta, color.Bold), // bright magenta
			Muted:       color.New(color.FgHiBlack),
			Accent:      color.New(color.FgHiCyan),
			Success:     color.New(color.FgHiGreen),
			Error:       color.New(color.FgHiRed, color.Bold),
			Border:      lipgloss.DoubleBorder(),
			BorderColor: lipgloss.Color("13"),
			Bullet:      "◆",

			TitleColor:   lipgloss.Color("13"),
			AccentColor:  lipgloss.Color("14"),
			ErrorColor:   lipgloss.Color("196"),
			SpinnerColor: lipgloss.Color("13"),
		}
	case "mono":
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
		current = Theme{
			Name:   "mono",
			Border: lipgloss.ASCIIBorder(),
			Bullet: "-",
		}
	default:
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }
