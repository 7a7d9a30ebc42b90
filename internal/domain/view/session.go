package view

import "github.com/contextbench/leaderboard/internal/domain/model"

// Session binds a layout, its state and the dataset for an interactive
// front end. It is not safe for concurrent use.
type Session struct {
	layout  Layout
	state   State
	records []model.BenchmarkRecord
	prefix  string
}

// NewSession starts a session on layout l with its default state.
func NewSession(l Layout, records []model.BenchmarkRecord, agentPrefix string) *Session {
	return &Session{
		layout:  l,
		state:   NewState(l),
		records: records,
		prefix:  agentPrefix,
	}
}

// Layout returns the active layout.
func (s *Session) Layout() Layout { return s.layout }

// State returns a copy of the current state.
func (s *Session) State() State { return s.state.Clone() }

// SwitchLayout changes layout. Sort resets to the new layout's default while
// system and expansions carry over.
func (s *Session) SwitchLayout(l Layout) {
	next := NewState(l)
	next.System = s.state.System
	next.Expanded = s.state.Expanded
	if l.Filterable {
		next.Filter = s.state.Filter
	}
	if l.MetricSelect && s.state.Metric != "" {
		next.Metric = s.state.Metric
		next.Sort = s.state.Metric
	}
	s.layout = l
	s.state = next
}

// ToggleSort re-sorts by column.
func (s *Session) ToggleSort(column string) error {
	if !s.layout.Sortable(column) {
		return ErrUnknownColumn
	}
	s.state.ToggleSort(column)
	return nil
}

// SelectMetric changes the primary metric.
func (s *Session) SelectMetric(metric string) error {
	if !s.layout.MetricSelect {
		return nil
	}
	return s.state.SelectMetric(metric)
}

// ToggleSystem flips between backbone and agent display.
func (s *Session) ToggleSystem() {
	if s.state.System == Agent {
		s.state.System = Backbone
		return
	}
	s.state.System = Agent
}

// SetFilter replaces the model filter when the layout allows filtering.
func (s *Session) SetFilter(q string) {
	if s.layout.Filterable {
		s.state.SetFilter(q)
	}
}

// ToggleExpanded flips one row when the layout allows expansion.
func (s *Session) ToggleExpanded(modelName string) {
	if s.layout.Expandable {
		s.state.ToggleExpanded(modelName)
	}
}

// Render derives the current table.
func (s *Session) Render() (Table, error) {
	return s.layout.Render(s.records, s.state, s.prefix)
}
