package inspect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	originStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("scene"))
	b.WriteString(hintStyle.Render(fmt.Sprintf("  t=%s  %d/%d elements",
		m.time(), len(m.matches), len(m.rows))))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	b.WriteString(m.viewList())
	b.WriteString(ruleStyle.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(m.viewProperties())
	b.WriteString(hintStyle.Render("↑/↓ select  pgup/pgdn time  esc clear/quit"))
	b.WriteString("\n")

	return b.String()
}

// listHeight is the number of list rows shown, about half the screen.
func (m model) listHeight() int {
	return max(m.height/2-2, 3)
}

// viewList renders the window of visible rows around the cursor.
func (m model) viewList() string {
	var b strings.Builder

	if len(m.matches) == 0 {
		b.WriteString(hintStyle.Render("  no matching elements"))
		b.WriteString("\n")

		return b.String()
	}

	n := m.listHeight()
	start := max(min(m.cursor-n/2, len(m.matches)-n), 0)
	end := min(start+n, len(m.matches))

	for i := start; i < end; i++ {
		b.WriteString(m.viewRow(m.matches[i], i == m.cursor))
		b.WriteString("\n")
	}

	return b.String()
}

// viewRow renders an unfiltered row as an indented label and a filtered
// row as its path with the matched characters highlighted.
func (m model) viewRow(mt match, selected bool) string {
	r := m.rows[mt.row]

	marker := "  "
	if selected {
		marker = promptStyle.Render("> ")
	}

	if mt.indexes == nil {
		text := strings.Repeat("  ", r.depth) + r.label
		if selected {
			text = selectedStyle.Render(text)
		}

		return marker + text
	}

	matched := make(map[int]bool, len(mt.indexes))
	for _, i := range mt.indexes {
		matched[i] = true
	}

	var b strings.Builder

	b.WriteString(marker)

	for i, ch := range r.path {
		s := string(ch)

		switch {
		case matched[i]:
			b.WriteString(highlightStyle.Render(s))
		case selected:
			b.WriteString(selectedStyle.Render(s))
		default:
			b.WriteString(s)
		}
	}

	return b.String()
}

// viewProperties renders the bindings of the selected element with their
// values at the current time.
func (m model) viewProperties() string {
	r, ok := m.selected()
	if !ok {
		return "\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(r.path))
	b.WriteString("\n")

	results, err := m.properties(r.h)
	if err != nil {
		b.WriteString(errorStyle.Render("  " + err.Error()))
		b.WriteString("\n")

		return b.String()
	}

	i := 0
	for name, bind := range m.tree.Bindings(r.h) {
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(m.tree.Describe(bind.Value))

		if res := results[i]; res.Err != nil {
			b.WriteString(errorStyle.Render("  ✗ " + res.Err.Error()))
		} else {
			b.WriteString(valueStyle.Render("  → " + res.Value.String()))
		}

		if bind.Origin != "" {
			b.WriteString(originStyle.Render("  [" + bind.Origin + "]"))
		}

		b.WriteString("\n")
		i++
	}

	return b.String()
}
