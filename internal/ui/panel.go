package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel frames lines in a box using the current theme.
func Panel(lines []string) string {
	t := Current()
	box := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return box.Render(strings.Join(lines, "\n"))
}

// Truncate shortens s to at most n runes, ending with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
