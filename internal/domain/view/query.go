package view

import (
	"fmt"
	"net/url"
	"sort"
)

// Query parameter names of the view state.
const (
	QuerySort   = "sort"
	QueryDir    = "dir"
	QueryFilter = "q"
	QuerySystem = "system"
	QueryMetric = "metric"
	QueryExpand = "expand"
)

// StateFromQuery decodes view state for layout l. Missing parameters keep
// the layout defaults; the metric applies before an explicit sort.
func StateFromQuery(q url.Values, l Layout) (State, error) {
	s := NewState(l)

	if v := q.Get(QuerySystem); v != "" {
		if err := s.SetSystem(v); err != nil {
			return State{}, err
		}
	}
	if v := q.Get(QueryMetric); v != "" && l.MetricSelect {
		if err := s.SelectMetric(v); err != nil {
			return State{}, err
		}
	}
	if v := q.Get(QuerySort); v != "" {
		if !l.Sortable(v) {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownColumn, v)
		}
		s.Sort = v
		s.Desc = true
	}
	switch q.Get(QueryDir) {
	case "":
	case "desc":
		s.Desc = true
	case "asc":
		s.Desc = false
	default:
		return State{}, fmt.Errorf("%w: %q", ErrBadDirection, q.Get(QueryDir))
	}
	if l.Filterable {
		s.SetFilter(q.Get(QueryFilter))
	}
	if l.Expandable {
		for _, m := range q[QueryExpand] {
			if m != "" && !s.IsExpanded(m) {
				s.ToggleExpanded(m)
			}
		}
	}
	return s, nil
}

// Query encodes the state so StateFromQuery restores it.
func (s State) Query() url.Values {
	q := url.Values{}
	q.Set(QuerySort, s.Sort)
	q.Set(QueryDir, s.Direction())
	if s.Metric != "" {
		q.Set(QueryMetric, s.Metric)
	}
	if s.System != "" && s.System != Backbone {
		q.Set(QuerySystem, string(s.System))
	}
	if s.Filter != "" {
		q.Set(QueryFilter, s.Filter)
	}
	expanded := make([]string, 0, len(s.Expanded))
	for m, ok := range s.Expanded {
		if ok {
			expanded = append(expanded, m)
		}
	}
	sort.Strings(expanded)
	for _, m := range expanded {
		q.Add(QueryExpand, m)
	}
	return q
}
