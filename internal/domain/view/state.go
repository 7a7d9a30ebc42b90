package view

import (
	"fmt"
	"strings"
)

// System selects how model names are displayed.
type System string

// Supported system types.
const (
	Backbone System = "backbone"
	Agent    System = "agent"
)

// DefaultAgentPrefix is the scaffold label prepended in agent mode.
const DefaultAgentPrefix = "cmini-swe-agent + "

// ParseSystem validates a system type string.
func ParseSystem(s string) (System, error) {
	switch System(s) {
	case Backbone, Agent:
		return System(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
}

// PrimaryMetrics are the sort keys offered by the metric selector.
var PrimaryMetrics = []string{ColPassAt1, ColLineF1, ColEfficiency}

// ParseMetric validates a primary metric id.
func ParseMetric(m string) (string, error) {
	for _, pm := range PrimaryMetrics {
		if pm == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, m)
}

// DisplayName applies the agent prefix. It never alters the underlying name.
func DisplayName(system System, prefix, name string) string {
	if system == Agent {
		return prefix + name
	}
	return name
}

// State is the per-session view state. It is owned by exactly one caller.
type State struct {
	Sort     string
	Desc     bool
	Filter   string
	System   System
	Metric   string
	Expanded map[string]bool
}

// NewState returns the initial state of a layout: default sort descending,
// no filter, nothing expanded.
func NewState(l Layout) State {
	s := State{
		Sort:   l.DefaultSort,
		Desc:   true,
		System: Backbone,
	}
	if l.MetricSelect {
		s.Metric = l.DefaultSort
	}
	return s
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	if s.Expanded != nil {
		c.Expanded = make(map[string]bool, len(s.Expanded))
		for k, v := range s.Expanded {
			c.Expanded[k] = v
		}
	}
	return c
}

// ToggleSort re-sorts by column. The active column flips direction; any
// other column starts descending.
func (s *State) ToggleSort(column string) {
	if s.Sort == column {
		s.Desc = !s.Desc
		return
	}
	s.Sort = column
	s.Desc = true
}

// SelectMetric changes the primary metric and resets the sort to it, descending.
func (s *State) SelectMetric(metric string) error {
	m, err := ParseMetric(metric)
	if err != nil {
		return err
	}
	s.Metric = m
	s.Sort = m
	s.Desc = true
	return nil
}

// SetSystem changes the name display mode.
func (s *State) SetSystem(system string) error {
	sys, err := ParseSystem(system)
	if err != nil {
		return err
	}
	s.System = sys
	return nil
}

// SetFilter replaces the model filter.
func (s *State) SetFilter(q string) {
	s.Filter = q
}

// ToggleExpanded flips the expansion of one model's row.
func (s *State) ToggleExpanded(modelName string) {
	if s.Expanded == nil {
		s.Expanded = make(map[string]bool)
	}
	if s.Expanded[modelName] {
		delete(s.Expanded, modelName)
		return
	}
	s.Expanded[modelName] = true
}

// IsExpanded reports whether a model's row is expanded.
func (s State) IsExpanded(modelName string) bool {
	return s.Expanded[modelName]
}

// Matches applies the case-insensitive substring filter to a raw model name.
func (s State) Matches(modelName string) bool {
	if s.Filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(modelName), strings.ToLower(s.Filter))
}

// Direction returns "desc" or "asc".
func (s State) Direction() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}
