package inspect

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/log"
	"github.com/ardnew/scene/render/svg"
)

// defaultStep is the time step used when the scene has no valid timeline.
const defaultStep = 0.1

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// row is one element of the list.
type row struct {
	h     lang.Handle
	path  string
	label string
	depth int
}

// match is a row that passes the filter, with the matched byte offsets of
// its path.
type match struct {
	row     int
	indexes []int
}

// paths adapts the rows to [fuzzy.Source].
type paths []row

func (p paths) String(i int) string { return p[i].path }
func (p paths) Len() int            { return len(p) }

// model is the Bubble Tea model for the inspector.
type model struct {
	ctxFunc  func() context.Context
	tree     *lang.Tree
	renderer *svg.Renderer
	logger   log.Logger
	input    textinput.Model
	rows     []row
	matches  []match
	cursor   int
	at       float64 // scene time in seconds
	step     float64 // seconds per frame
	width    int
	height   int
	quitting bool
}

// Run starts the inspector on tree at scene time at and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, tree *lang.Tree, at lang.Time, logger log.Logger) error {
	m := newModel(ctx, tree, at, logger)

	logger.TraceContext(ctx, "inspect start",
		slog.Int("elements", len(m.rows)),
		slog.Float64("step", m.step))

	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()

	return err
}

func newModel(ctx context.Context, tree *lang.Tree, at lang.Time, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("/ ")
	ti.Placeholder = "filter elements"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = defaultWidth

	r := svg.New(tree, svg.WithLogger(logger))

	step := defaultStep
	if tl, err := r.Timeline(ctx); err == nil {
		step = 1 / tl.FrameRate
	}

	m := model{
		ctxFunc:  func() context.Context { return ctx },
		tree:     tree,
		renderer: r,
		logger:   logger,
		input:    ti,
		at:       at.Duration().Seconds(),
		step:     step,
		width:    defaultWidth,
		height:   defaultHeight,
	}

	for h := range tree.Elements() {
		m.rows = append(m.rows, row{
			h:     h,
			path:  tree.Path(h),
			label: tree.Label(h),
			depth: tree.Depth(h),
		})
	}

	m.filter()

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "inspect keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEsc:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.filter()

		return m, nil

	case tea.KeyUp, tea.KeyCtrlP:
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}

		return m, nil

	case tea.KeyPgUp:
		m.at = max(m.at-m.step, 0)

		return m, nil

	case tea.KeyPgDown:
		m.at += m.step

		return m, nil
	}

	prev := m.input.Value()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != prev {
		m.filter()
	}

	return m, cmd
}

// filter recomputes the visible rows from the input and resets the
// selection. An empty filter shows the whole tree in order.
func (m *model) filter() {
	m.cursor = 0
	m.matches = make([]match, 0, len(m.rows))

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		for i := range m.rows {
			m.matches = append(m.matches, match{row: i})
		}

		return
	}

	for _, fm := range fuzzy.FindFrom(query, paths(m.rows)) {
		m.matches = append(m.matches, match{row: fm.Index, indexes: fm.MatchedIndexes})
	}
}

// selected returns the selected element, if any row is visible.
func (m model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return row{}, false
	}

	return m.rows[m.matches[m.cursor].row], true
}

// time returns the current scene time.
func (m model) time() lang.Time {
	return lang.Time{X: m.at, Unit: lang.Second}
}

// properties evaluates every property of h at the current scene time.
func (m model) properties(h lang.Handle) ([]lang.Result, error) {
	ctx := m.ctxFunc()

	env, err := m.renderer.Env(ctx, h, m.time())
	if err != nil {
		return nil, err
	}

	return m.tree.EvaluateAll(ctx, h, env), nil
}
