package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/Makepad-fr/items/internal/api"
	"github.com/Makepad-fr/items/internal/api/apitest"
	"github.com/Makepad-fr/items/internal/model"
	"github.com/Makepad-fr/items/internal/ui"
	"github.com/Makepad-fr/items/internal/viewmodel"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// collect runs cmd and returns every message it produces, following batches.
// Only the fast commands (API calls, the first spinner tick) are run here.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// apply feeds the API results among msgs back into m.
func apply(t *testing.T, m modelTUI, msgs []tea.Msg) modelTUI {
	t.Helper()
	for _, msg := range msgs {
		switch msg.(type) {
		case itemsLoadedMsg, itemCreatedMsg, itemDeletedMsg:
			next, _ := m.Update(msg)
			m = next.(modelTUI)
		}
	}
	return m
}

func press(t *testing.T, m modelTUI, k tea.KeyMsg) (modelTUI, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(modelTUI), cmd
}

func typeText(t *testing.T, m modelTUI, s string) modelTUI {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, keyRunes(string(r)))
	}
	return m
}

func started(t *testing.T, seed ...model.Item) (modelTUI, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(seed...)
	t.Cleanup(srv.Close)
	vm := viewmodel.New(api.New(srv.BaseURL(), nil))
	m := newModel(context.Background(), vm)
	m = apply(t, m, collect(m.Init()))
	return m, srv
}

func TestInit_LoadsOnce(t *testing.T) {
	m, srv := started(t, model.Item{ID: "1", Name: "Book"})
	if n := srv.Calls("GET /api/items"); n != 1 {
		t.Fatalf("GET calls = %d, want 1", n)
	}
	if got := m.vm.Items(); len(got) != 1 || got[0].Name != "Book" {
		t.Fatalf("items = %+v", got)
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("list items = %d", len(m.list.Items()))
	}
	if !strings.Contains(m.View(), "Book") {
		t.Fatalf("view missing item:\n%s", m.View())
	}
}

func TestView_LoadingThenEmpty(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	vm := viewmodel.New(api.New(srv.BaseURL(), nil))
	m := newModel(context.Background(), vm)

	cmd := m.Init()
	if !strings.Contains(m.View(), ui.LoadingText) {
		t.Fatalf("view while loading:\n%s", m.View())
	}
	if strings.Contains(m.View(), ui.EmptyText) {
		t.Fatalf("empty text shown while loading:\n%s", m.View())
	}

	m = apply(t, m, collect(cmd))
	if !strings.Contains(m.View(), ui.EmptyText) {
		t.Fatalf("view after empty load:\n%s", m.View())
	}
}

func TestAdd_SubmitAppendsAndResetsForm(t *testing.T) {
	m, srv := started(t, model.Item{ID: "1", Name: "Pen"})

	m, _ = press(t, m, keyRunes("a"))
	if !m.adding {
		t.Fatal("form should be open")
	}
	m = typeText(t, m, "Book")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "Sci-fi")
	if d := m.vm.Draft(); d.Name != "Book" || d.Description != "Sci-fi" {
		t.Fatalf("draft = %+v", d)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("submit should issue a request")
	}
	m = apply(t, m, collect(cmd))

	items := m.vm.Items()
	if len(items) != 2 || items[1].Name != "Book" || items[1].Description != "Sci-fi" || items[1].ID == "" {
		t.Fatalf("items = %+v", items)
	}
	if srv.Calls("POST /api/items") != 1 {
		t.Fatalf("POST calls = %d", srv.Calls("POST /api/items"))
	}
	if m.adding {
		t.Fatal("form should close after success")
	}
	if m.name.Value() != "" || m.desc.Value() != "" || m.vm.Draft() != (model.Draft{}) {
		t.Fatal("form not reset")
	}
	if m.list.Index() != 1 {
		t.Fatalf("selection = %d, want new item", m.list.Index())
	}
}

func TestAdd_EnterOnNameSubmits(t *testing.T) {
	m, _ := started(t)
	m, _ = press(t, m, keyRunes("a"))
	m = typeText(t, m, "Book")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = apply(t, m, collect(cmd))
	if len(m.vm.Items()) != 1 {
		t.Fatalf("items = %+v", m.vm.Items())
	}
}

func TestAdd_BlankNameShowsErrorWithoutRequest(t *testing.T) {
	m, srv := started(t)
	m, _ = press(t, m, keyRunes("a"))
	m = typeText(t, m, "   ")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("no command expected for blank name")
	}
	if srv.Calls("POST /api/items") != 0 {
		t.Fatal("request sent for blank name")
	}
	if !m.adding {
		t.Fatal("form should stay open")
	}
	if !strings.Contains(m.View(), viewmodel.MsgNameRequired) {
		t.Fatalf("view missing validation error:\n%s", m.View())
	}
}

func TestAdd_EscKeepsDraft(t *testing.T) {
	m, _ := started(t)
	m, _ = press(t, m, keyRunes("a"))
	m = typeText(t, m, "Bo")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.adding {
		t.Fatal("esc should close the form")
	}
	m, _ = press(t, m, keyRunes("a"))
	if m.name.Value() != "Bo" {
		t.Fatalf("draft lost, name = %q", m.name.Value())
	}
}

func TestAdd_FailureKeepsFormAndState(t *testing.T) {
	m, srv := started(t, model.Item{ID: "1", Name: "Pen"})
	srv.Fail(http.MethodPost, http.StatusInternalServerError)

	m, _ = press(t, m, keyRunes("a"))
	m = typeText(t, m, "Book")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = apply(t, m, collect(cmd))

	if len(m.vm.Items()) != 1 {
		t.Fatalf("items = %+v", m.vm.Items())
	}
	if !m.adding || m.name.Value() != "Book" {
		t.Fatal("form should keep the draft after a failure")
	}
	if !strings.Contains(m.View(), "Failed to create item") {
		t.Fatalf("view missing error:\n%s", m.View())
	}
}

func TestAdd_InputIgnoredWhileSaving(t *testing.T) {
	m, srv := started(t)
	m, _ = press(t, m, keyRunes("a"))
	m = typeText(t, m, "Book")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.submitting {
		t.Fatal("expected a create in flight")
	}
	m = typeText(t, m, "Pen")
	if m.name.Value() != "Book" || m.vm.Draft().Name != "Book" {
		t.Fatalf("typing while saving changed the draft: name=%q draft=%+v", m.name.Value(), m.vm.Draft())
	}
	m, again := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if again != nil {
		t.Fatal("second enter must not send another create")
	}
	if !strings.Contains(m.View(), "saving...") {
		t.Fatalf("view missing saving hint:\n%s", m.View())
	}

	m = apply(t, m, collect(cmd))
	if m.submitting || m.adding {
		t.Fatalf("submitting=%v adding=%v after result", m.submitting, m.adding)
	}
	if n := srv.Calls("POST /api/items"); n != 1 {
		t.Fatalf("POST calls = %d, want 1", n)
	}
	if items := m.vm.Items(); len(items) != 1 || items[0].Name != "Book" {
		t.Fatalf("items = %+v", items)
	}
}

func TestAdd_FailureReenablesForm(t *testing.T) {
	m, srv := started(t)
	srv.Fail(http.MethodPost, http.StatusInternalServerError)
	m, _ = press(t, m, keyRunes("a"))
	m = typeText(t, m, "Book")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = apply(t, m, collect(cmd))

	if m.submitting {
		t.Fatal("form still locked after failure")
	}
	m = typeText(t, m, "s")
	if m.name.Value() != "Books" {
		t.Fatalf("name = %q", m.name.Value())
	}
}

func TestDelete_Selected(t *testing.T) {
	m, srv := started(t, model.Item{ID: "1", Name: "Book"}, model.Item{ID: "2", Name: "Pen"})

	m, cmd := press(t, m, keyRunes("d"))
	m = apply(t, m, collect(cmd))

	items := m.vm.Items()
	if len(items) != 1 || items[0].ID != "2" {
		t.Fatalf("items = %+v", items)
	}
	if srv.Calls("DELETE /api/items/1") != 1 {
		t.Fatal("delete request not sent")
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("list items = %d", len(m.list.Items()))
	}
}

func TestDelete_FailureKeepsItem(t *testing.T) {
	m, srv := started(t, model.Item{ID: "1", Name: "Book"})
	srv.Fail(http.MethodDelete, http.StatusServiceUnavailable)

	m, cmd := press(t, m, keyRunes("d"))
	m = apply(t, m, collect(cmd))

	if len(m.vm.Items()) != 1 {
		t.Fatal("item removed despite failure")
	}
	if !strings.Contains(m.View(), "Failed to delete item") {
		t.Fatalf("view missing error:\n%s", m.View())
	}
}

func TestDelete_EmptyListNoop(t *testing.T) {
	m, srv := started(t)
	_, cmd := press(t, m, keyRunes("d"))
	if cmd != nil {
		t.Fatal("no command expected on empty list")
	}
	if srv.Calls("DELETE /api/items/") != 0 {
		t.Fatal("unexpected request")
	}
}

func TestReload_StaleResultIgnored(t *testing.T) {
	m, srv := started(t, model.Item{ID: "1", Name: "Book"})

	// two reloads in flight; the older one lands last
	m, first := press(t, m, keyRunes("r"))
	firstMsgs := collect(first)
	if _, err := srv.Client().Post(srv.BaseURL()+"/items", "application/json", strings.NewReader(`{"name":"Pen"}`)); err != nil {
		t.Fatal(err)
	}
	m, second := press(t, m, keyRunes("r"))
	m = apply(t, m, collect(second))
	m = apply(t, m, firstMsgs)

	if got := m.vm.Items(); len(got) != 2 {
		t.Fatalf("stale load overwrote newer state: %+v", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := started(t)
	_, cmd := press(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestTypingQInFormDoesNotQuit(t *testing.T) {
	m, _ := started(t)
	m, _ = press(t, m, keyRunes("a"))
	m, _ = press(t, m, keyRunes("q"))
	if !m.adding {
		t.Fatal("q in the form must not leave it")
	}
	if m.name.Value() != "q" {
		t.Fatalf("name = %q", m.name.Value())
	}
}

func TestLoadFailure_ShowsError(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.Fail(http.MethodGet, http.StatusBadGateway)
	vm := viewmodel.New(api.New(srv.BaseURL(), nil))
	m := newModel(context.Background(), vm)
	m = apply(t, m, collect(m.Init()))

	if !strings.Contains(m.View(), "Failed to fetch items") {
		t.Fatalf("view missing error:\n%s", m.View())
	}
	var ae *api.Error
	_, err := vm.Remote().List(context.Background())
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v", err)
	}
}

func TestView_FollowsTheme(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() {
		ui.SetTheme("classic")
		color.NoColor = prev
	})

	tests := []struct {
		theme  string
		corner string
	}{
		{"classic", "╭"},
		{"neon", "╔"},
		{"mono", "+"},
	}
	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			ui.SetTheme(tt.theme)
			m, _ := started(t, model.Item{ID: "1", Name: "Book"})
			view := m.View()
			if !strings.HasPrefix(view, tt.corner) {
				t.Fatalf("view should open with %q:\n%s", tt.corner, view)
			}
			if tt.theme == "mono" && strings.ContainsAny(view, "╭╮╰╯│─╔═") {
				t.Fatalf("mono view has box-drawing characters:\n%s", view)
			}
		})
	}
}

func TestWindowSize(t *testing.T) {
	m, _ := started(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(modelTUI)
	if m.width != 120 || m.height != 40 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
	if m.list.Width() != 116 {
		t.Fatalf("list width = %d", m.list.Width())
	}
}
