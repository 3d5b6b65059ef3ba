package inspect

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/lang/syntax"
	"github.com/ardnew/scene/log"
)

const scene = `
create Scene {
	width = 200
	height = 100
	frame_rate = 4
	create Rectangle { width = 50% }
	create Group {
		create Circle { radius = 1 + time / 1s }
	}
}`

func newTestModel(t *testing.T) model {
	t.Helper()

	f, err := syntax.Parse(t.Context(), scene)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tree, err := lang.BuildFile(t.Context(), f)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	return newModel(t.Context(), tree, lang.Time{Unit: lang.Second}, log.Logger{})
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()

	next, _ := m.Update(msg)

	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}

	return nm
}

func typeText(t *testing.T, m model, s string) model {
	t.Helper()

	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return m
}

func visible(m model) []string {
	var got []string
	for _, mt := range m.matches {
		got = append(got, m.rows[mt.row].path)
	}

	return got
}

func TestModelListsTree(t *testing.T) {
	m := newTestModel(t)

	want := []string{"Scene", "Scene/Rectangle", "Scene/Group", "Scene/Group/Circle"}
	got := visible(m)

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("rows = %v, want %v", got, want)
	}

	if m.step != 0.25 {
		t.Errorf("step = %v, want 0.25", m.step)
	}
}

func TestModelFilter(t *testing.T) {
	m := typeText(t, newTestModel(t), "circ")

	got := visible(m)
	if len(got) != 1 || got[0] != "Scene/Group/Circle" {
		t.Fatalf("filtered rows = %v", got)
	}

	if r, ok := m.selected(); !ok || r.path != "Scene/Group/Circle" {
		t.Errorf("selected() = %v, %v", r, ok)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.quitting || m.input.Value() != "" || len(m.matches) != 4 {
		t.Errorf("Esc did not clear the filter: quitting=%v value=%q rows=%d",
			m.quitting, m.input.Value(), len(m.matches))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.quitting {
		t.Error("Esc on an empty filter did not quit")
	}

	if v := m.View(); v != "" {
		t.Errorf("View() after quit = %q", v)
	}
}

func TestModelNavigation(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after Up at top", m.cursor)
	}

	for range 10 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}

	if m.cursor != 3 {
		t.Errorf("cursor = %d, want 3", m.cursor)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})

	if m.at != 0.5 {
		t.Errorf("time = %v, want 0.5", m.at)
	}

	view := m.View()
	for _, want := range []string{"t=0.5s", "Scene/Group/Circle", "radius = (1 + (Scene#", ".time / 1s))", "→ 1.5"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	for range 5 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	}

	if m.at != 0 {
		t.Errorf("time = %v, want 0", m.at)
	}
}

func TestModelPropertyErrors(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = typeText(t, m, "rect")

	view := m.View()
	if !strings.Contains(view, "width = 50%") || !strings.Contains(view, "→ 100") {
		t.Errorf("View() missing resolved width:\n%s", view)
	}
}
