package ui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/items/internal/model"
	"github.com/Makepad-fr/items/internal/viewmodel"
)

// Captions shared by the CLI and the TUI.
const (
	Heading      = "Items"
	LoadingText  = "Loading items..."
	EmptyText    = "No items yet. Create one!"
	dateLayout   = "Jan 2, 2006"
	maxNameWidth = 60
	maxDescWidth = 72
)

// Date formats an item's creation time for display, falling back to the
// raw server value.
func Date(it model.Item) string {
	if t, ok := it.Created(); ok {
		return t.Local().Format(dateLayout)
	}
	return it.CreatedAt
}

// Header is the title line with the item count.
func Header(s viewmodel.Snapshot) string {
	return fmt.Sprintf("%s  %s %d",
		C(Current().Title, Heading),
		C(Current().Accent, "Total"), len(s.Items),
	)
}

// Card renders one item as a few lines.
func Card(i int, it model.Item) []string {
	t := Current()
	lines := []string{fmt.Sprintf("%s %s %s",
		C(t.Muted, fmt.Sprintf("%2d.", i+1)),
		C(t.Accent, t.Bullet),
		C(t.Title, Truncate(it.Name, maxNameWidth)),
	)}
	if d := strings.TrimSpace(it.Description); d != "" {
		lines = append(lines, "    "+Truncate(d, maxDescWidth))
	}
	meta := "id " + it.ID
	if d := Date(it); d != "" {
		meta = d + "  " + meta
	}
	lines = append(lines, "    "+C(t.Muted, meta))
	return lines
}

// Render draws the whole collection view. It only depends on s.
func Render(s viewmodel.Snapshot) []string {
	t := Current()
	lines := []string{Header(s), ""}

	if msg := s.Status.Err(); msg != "" {
		lines = append(lines, C(t.Error, msg), "")
	}
	switch {
	case s.Status.Loading():
		lines = append(lines, C(t.Muted, LoadingText))
	case s.ShowEmpty():
		lines = append(lines, C(t.Muted, EmptyText))
	default:
		for i, it := range s.Items {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, Card(i, it)...)
		}
	}
	return lines
}
