// Package tui is the interactive terminal leaderboard. It drives a
// view.Session from key presses and renders the current table with lipgloss.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/contextbench/leaderboard/internal/domain/model"
	"github.com/contextbench/leaderboard/internal/domain/view"
)

type options struct {
	layout string
	system view.System
	metric string
}

// Option configures the initial view.
type Option func(*options)

// WithLayout selects the initial layout by name.
func WithLayout(name string) Option { return func(o *options) { o.layout = name } }

// WithSystem selects the initial name display mode.
func WithSystem(s view.System) Option { return func(o *options) { o.system = s } }

// WithMetric selects the initial primary metric.
func WithMetric(metric string) Option { return func(o *options) { o.metric = metric } }

// Model is the bubbletea model of the leaderboard.
type Model struct {
	session   *view.Session
	table     view.Table
	err       error
	cursor    int
	filter    textinput.Model
	filtering bool
	help      help.Model
	keys      keyMap
	width     int
	height    int
}

// New creates a model over records.
func New(records []model.BenchmarkRecord, agentPrefix string, opts ...Option) (*Model, error) {
	o := options{layout: view.Leaderboard, system: view.Backbone}
	for _, opt := range opts {
		opt(&o)
	}

	l, err := view.LayoutByName(o.layout)
	if err != nil {
		return nil, err
	}
	s := view.NewSession(l, records, agentPrefix)
	if _, err := view.ParseSystem(string(o.system)); err != nil {
		return nil, err
	}
	if o.system == view.Agent {
		s.ToggleSystem()
	}
	if o.metric != "" {
		if err := s.SelectMetric(o.metric); err != nil {
			return nil, err
		}
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search models..."
	ti.CharLimit = 64

	m := &Model{
		session: s,
		filter:  ti,
		help:    help.New(),
		keys:    defaultKeys(),
	}
	m.refresh()
	return m, nil
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.table.Rows)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.NextView):
			m.switchLayout(1)
		case key.Matches(msg, m.keys.PrevView):
			m.switchLayout(-1)
		case key.Matches(msg, m.keys.Metric):
			m.cycleMetric()
		case key.Matches(msg, m.keys.Sort):
			m.cycleSort()
		case key.Matches(msg, m.keys.Reverse):
			_ = m.session.ToggleSort(m.session.State().Sort)
		case key.Matches(msg, m.keys.System):
			m.session.ToggleSystem()
		case key.Matches(msg, m.keys.Expand):
			if m.cursor < len(m.table.Rows) {
				m.session.ToggleExpanded(m.table.Rows[m.cursor].Model)
			}
		case key.Matches(msg, m.keys.Filter):
			if !m.session.Layout().Filterable {
				return m, nil
			}
			m.filtering = true
			m.filter.SetValue(m.session.State().Filter)
			return m, m.filter.Focus()
		case key.Matches(msg, m.keys.Clear):
			m.filter.SetValue("")
			m.session.SetFilter("")
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		default:
			return m, nil
		}
		m.refresh()
	}
	return m, nil
}

// updateFilter feeds keys to the search box and re-filters on every edit.
// Enter keeps the filter, esc discards it.
func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.session.SetFilter("")
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.session.SetFilter(m.filter.Value())
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m *Model) refresh() {
	m.table, m.err = m.session.Render()
	if m.cursor >= len(m.table.Rows) {
		m.cursor = max(len(m.table.Rows)-1, 0)
	}
}

func (m *Model) switchLayout(step int) {
	layouts := view.Layouts()
	current := slices.IndexFunc(layouts, func(l view.Layout) bool {
		return l.Name == m.session.Layout().Name
	})
	next := (current + step + len(layouts)) % len(layouts)
	m.session.SwitchLayout(layouts[next])
	m.cursor = 0
	if !layouts[next].Filterable {
		m.filter.SetValue("")
	}
}

func (m *Model) cycleMetric() {
	if !m.session.Layout().MetricSelect {
		return
	}
	i := slices.Index(view.PrimaryMetrics, m.session.State().Metric)
	_ = m.session.SelectMetric(view.PrimaryMetrics[(i+1)%len(view.PrimaryMetrics)])
}

// cycleSort moves the sort to the next column, descending.
func (m *Model) cycleSort() {
	l := m.session.Layout()
	ids := make([]string, 0, len(l.Columns)+1)
	ids = append(ids, view.ModelColumn)
	for _, c := range l.Columns {
		ids = append(ids, c.ID)
	}
	i := slices.Index(ids, m.session.State().Sort)
	_ = m.session.ToggleSort(ids[(i+1)%len(ids)])
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	sections := []string{m.renderTabs(), m.renderStatus()}
	if m.filtering {
		sections = append(sections, m.filter.View())
	}
	if g := renderGroups(m.table); g != "" {
		sections = append(sections, g)
	}
	cursor := m.cursor
	if m.table.Empty {
		cursor = -1
	}
	sections = append(sections, RenderTable(m.table, cursor))
	if p := renderPanels(m.table); p != "" {
		sections = append(sections, p)
	}
	if len(m.table.Legend) > 0 {
		sections = append(sections, dimStyle.Render(strings.Join(m.table.Legend, " · ")))
	}
	if m.table.Note != "" {
		sections = append(sections, dimStyle.Width(max(m.width, 60)).Render(m.table.Note))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, 3)
	for _, l := range view.Layouts() {
		style := tabStyle
		if l.Name == m.table.View {
			style = activeTab
		}
		tabs = append(tabs, style.Render(l.Title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderStatus() string {
	parts := make([]string, 0, 4)
	if m.table.Metric != "" {
		if c, err := view.Lookup(m.table.Metric); err == nil {
			parts = append(parts, "Metric: "+c.Label)
		}
	}
	parts = append(parts,
		fmt.Sprintf("Sort: %s %s", m.table.Sort, m.table.Direction),
		"System: "+string(m.table.System),
	)
	if m.table.Filter != "" {
		parts = append(parts, fmt.Sprintf("Filter: %q (%d of %d)", m.table.Filter, len(m.table.Rows), m.table.Total))
	}
	return dimStyle.Render(strings.Join(parts, "  ·  "))
}
