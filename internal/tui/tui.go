// Package tui is the interactive front end: a list of items with an
// inline form, driven by a viewmodel.ViewModel.
//
// Requests run as Bubble Tea commands. Their results come back as
// messages and are applied to the view-model in arrival order.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/items/internal/model"
	"github.com/Makepad-fr/items/internal/ui"
	"github.com/Makepad-fr/items/internal/viewmodel"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	formHeight    = 9 // lines taken by the add form, border included
	chromeHeight  = 6 // header, error line, help, frame
)

type field int

const (
	fieldName field = iota
	fieldDescription
)

// Results of the commands below.
type (
	itemsLoadedMsg struct {
		seq   uint64
		items []model.Item
		err   error
	}
	itemCreatedMsg struct {
		item model.Item
		err  error
	}
	itemDeletedMsg struct {
		id  string
		err error
	}
)

type modelTUI struct {
	ctx  context.Context
	vm   *viewmodel.ViewModel
	keys keyMap
	st   styles

	list    list.Model
	spinner spinner.Model

	// Inline add
	adding     bool
	submitting bool // create in flight; the form ignores input
	focus      field
	name   textinput.Model
	desc   textarea.Model

	width, height int
}

func newModel(ctx context.Context, vm *viewmodel.ViewModel) modelTUI {
	keys := defaultKeys()
	st := newStyles(ui.Current())

	l := list.New(toListItems(vm.Items()), itemDelegate{st: st}, defaultWidth-4, defaultHeight-chromeHeight)
	l.Title = ui.Heading
	l.SetShowTitle(false) // the header above the list carries it
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = keys.browseHelp
	l.AdditionalFullHelpKeys = keys.browseHelp

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.spinner

	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "Item name"
	name.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Item description"
	desc.ShowLineNumbers = false
	desc.SetHeight(3)
	desc.SetWidth(defaultWidth - 8)

	return modelTUI{
		ctx:     ctx,
		vm:      vm,
		keys:    keys,
		st:      st,
		list:    l,
		spinner: sp,
		name:    name,
		desc:    desc,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, vm *viewmodel.ViewModel) error {
	p := tea.NewProgram(newModel(ctx, vm), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// ---------------------------------------------------
// commands
// ---------------------------------------------------

func (m modelTUI) loadCmd() tea.Cmd {
	seq := m.vm.BeginLoad()
	ctx, remote := m.ctx, m.vm.Remote()
	return func() tea.Msg {
		items, err := remote.List(ctx)
		return itemsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m modelTUI) createCmd(d model.Draft) tea.Cmd {
	ctx, remote := m.ctx, m.vm.Remote()
	return func() tea.Msg {
		it, err := remote.Create(ctx, d)
		return itemCreatedMsg{item: it, err: err}
	}
}

func (m modelTUI) deleteCmd(id string) tea.Cmd {
	m.vm.BeginDelete()
	ctx, remote := m.ctx, m.vm.Remote()
	return func() tea.Msg {
		return itemDeletedMsg{id: id, err: remote.Delete(ctx, id)}
	}
}

// ---------------------------------------------------
// Bubble Tea
// ---------------------------------------------------

// Init loads the collection once.
func (m modelTUI) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case itemsLoadedMsg:
		if !m.vm.FinishLoad(msg.seq, msg.items, msg.err) {
			return m, nil
		}
		cmd := m.syncList()
		return m, cmd

	case itemCreatedMsg:
		m.submitting = false
		m.vm.FinishCreate(msg.item, msg.err)
		if msg.err != nil {
			cmd := m.setFocus(m.focus)
			return m, cmd
		}
		m.closeForm()
		cmd := m.syncList()
		m.list.Select(len(m.list.Items()) - 1)
		return m, cmd

	case itemDeletedMsg:
		m.vm.FinishDelete(msg.id, msg.err)
		cmd := m.syncList()
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// typing a filter: every key belongs to the list
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
			m.list.ResetFilter()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		cmd := m.openForm()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.list.SelectedItem().(listItem)
		if !ok {
			return m, nil
		}
		return m, m.deleteCmd(it.ID)

	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(m.loadCmd(), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.name.Blur()
		m.desc.Blur()
		return m, nil

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		cmd := m.setFocus(1 - m.focus)
		return m, cmd

	case key.Matches(msg, m.keys.Submit),
		msg.Type == tea.KeyEnter && m.focus == fieldName:
		cmd := m.submit()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == fieldName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	m.vm.SetDraft(model.Draft{Name: m.name.Value(), Description: m.desc.Value()})
	return m, cmd
}

func (m *modelTUI) submit() tea.Cmd {
	m.vm.SetDraft(model.Draft{Name: m.name.Value(), Description: m.desc.Value()})
	d, ok := m.vm.BeginCreate()
	if !ok {
		return nil
	}
	m.submitting = true
	m.name.Blur()
	m.desc.Blur()
	return m.createCmd(d)
}

func (m *modelTUI) openForm() tea.Cmd {
	m.adding = true
	d := m.vm.Draft()
	m.name.SetValue(d.Name)
	m.name.CursorEnd()
	m.desc.SetValue(d.Description)
	m.resize()
	return m.setFocus(fieldName)
}

// closeForm hides the form and shows the (now cleared) draft.
func (m *modelTUI) closeForm() {
	m.adding = false
	d := m.vm.Draft()
	m.name.SetValue(d.Name)
	m.desc.SetValue(d.Description)
	m.name.Blur()
	m.desc.Blur()
	m.resize()
}

func (m *modelTUI) setFocus(f field) tea.Cmd {
	m.focus = f
	if f == fieldName {
		m.desc.Blur()
		return m.name.Focus()
	}
	m.name.Blur()
	return m.desc.Focus()
}

func (m *modelTUI) syncList() tea.Cmd {
	return m.list.SetItems(toListItems(m.vm.Items()))
}

func (m *modelTUI) resize() {
	h := m.height - chromeHeight
	if m.adding {
		h -= formHeight
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
	m.name.Width = m.width - 10
	m.desc.SetWidth(m.width - 8)
}

// ---------------------------------------------------
// View
// ---------------------------------------------------

func (m modelTUI) View() string {
	snap := m.vm.Snapshot()

	var b strings.Builder
	b.WriteString(ui.Header(snap))
	if snap.Status.Loading() {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")
	if msg := snap.Status.Err(); msg != "" {
		b.WriteString(m.st.err.Render(msg))
	}
	b.WriteString("\n")

	switch {
	case snap.Status.Loading():
		b.WriteString(m.spinner.View() + " " + m.st.muted.Render(ui.LoadingText))
	case snap.ShowEmpty():
		b.WriteString(m.st.muted.Render(ui.EmptyText))
		if !m.adding {
			b.WriteString("\n\n" + m.st.help.Render("a add • r reload • q quit"))
		}
	default:
		b.WriteString(m.list.View())
	}

	if m.adding {
		b.WriteString("\n" + m.formView())
	}
	return m.st.panel.Render(b.String())
}

func (m modelTUI) formView() string {
	label := func(f field, s string) string {
		if m.focus == f {
			return m.st.accent.Render(s)
		}
		return m.st.muted.Render(s)
	}
	help := "enter/ctrl+s save • tab next field • esc cancel"
	if m.submitting {
		help = m.spinner.View() + " saving..."
	}
	lines := []string{
		m.st.title.Render("Add New Item"),
		label(fieldName, "Name"),
		m.name.View(),
		label(fieldDescription, "Description"),
		m.desc.View(),
		m.st.help.Render(help),
	}
	return m.st.panel.Render(strings.Join(lines, "\n"))
}
