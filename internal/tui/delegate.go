package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/items/internal/model"
	"github.com/Makepad-fr/items/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ model.Item }

func (i listItem) FilterValue() string { return i.Name + " " + i.Description }

// Custom delegate: name on the first line, description and date below.
type itemDelegate struct{ st styles }

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	prefix := "  "
	name := d.st.title.Render(ui.Truncate(it.Name, width))
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}

	var meta []string
	if desc := strings.TrimSpace(it.Description); desc != "" {
		meta = append(meta, firstLine(desc))
	}
	if date := ui.Date(it.Item); date != "" {
		meta = append(meta, date)
	}
	second := d.st.muted.Render(ui.Truncate(strings.Join(meta, " · "), width))

	fmt.Fprintf(w, "%s%s\n  %s", prefix, name, second)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func toListItems(items []model.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, listItem{it})
	}
	return out
}
