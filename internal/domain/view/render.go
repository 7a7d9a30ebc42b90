package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/model"
)

// NoResults is the placeholder shown when the filter matches nothing.
const NoResults = "No matching models found."

// PodiumSize is the number of ranks that receive podium styling.
const PodiumSize = 3

// Header describes one rendered column header.
type Header struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Group   string `json:"group,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Better  string `json:"better"`
	Sorted  string `json:"sorted,omitempty"` // "asc", "desc" or empty
}

// GroupSpan is a run of adjacent headers sharing one group label.
type GroupSpan struct {
	Label string `json:"label"`
	Span  int    `json:"span"`
}

// Cell is one rendered metric value with its emphasis flags.
type Cell struct {
	Column   string  `json:"column"`
	Text     string  `json:"text"`
	Value    float64 `json:"value"`
	Extremal bool    `json:"extremal"`
	Selected bool    `json:"selected"`
	Bar      float64 `json:"bar,omitempty"` // percent of the column maximum
}

// PanelItem is one labelled value of an expanded row.
type PanelItem struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Panel is the expanded detail of a leaderboard row.
type Panel struct {
	Patterns []PanelItem `json:"patterns"`
	Dynamics []PanelItem `json:"dynamics"`
}

// Row is one ranked record.
type Row struct {
	Rank        int    `json:"rank"`
	Model       string `json:"model"`
	DisplayName string `json:"display_name"`
	Podium      bool   `json:"podium"`
	Expanded    bool   `json:"expanded"`
	Cells       []Cell `json:"cells"`
	Panel       *Panel `json:"panel,omitempty"`
}

// Table is the fully derived, render-ready view.
type Table struct {
	View        string      `json:"view"`
	Title       string      `json:"title"`
	Headers     []Header    `json:"headers"`
	Groups      []GroupSpan `json:"groups,omitempty"`
	Rows        []Row       `json:"rows"`
	Empty       bool        `json:"empty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Sort        string      `json:"sort"`
	Direction   string      `json:"direction"`
	Filter      string      `json:"filter,omitempty"`
	System      System      `json:"system"`
	Metric      string      `json:"metric,omitempty"`
	Total       int         `json:"total"`
	Legend      []string    `json:"legend,omitempty"`
	Note        string      `json:"note,omitempty"`
	Filterable  bool        `json:"filterable"`
	Expandable  bool        `json:"expandable"`
}

// Validate checks the state against the layout.
func (l Layout) Validate(s State) error {
	if !l.Sortable(s.Sort) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, s.Sort)
	}
	if _, err := ParseSystem(string(s.System)); err != nil {
		return err
	}
	if s.Metric != "" {
		if _, err := ParseMetric(s.Metric); err != nil {
			return err
		}
	}
	return nil
}

// Render derives the table for records under state. records is never modified.
func (l Layout) Render(records []model.BenchmarkRecord, s State, agentPrefix string) (Table, error) {
	if err := l.Validate(s); err != nil {
		return Table{}, err
	}

	t := Table{
		View:       l.Name,
		Title:      l.Title,
		Sort:       s.Sort,
		Direction:  s.Direction(),
		System:     s.System,
		Metric:     s.Metric,
		Total:      len(records),
		Legend:     l.Legend,
		Note:       l.Note,
		Filterable: l.Filterable,
		Expandable: l.Expandable,
		Rows:       []Row{},
	}
	if l.Filterable {
		t.Filter = s.Filter
	}
	t.Headers, t.Groups = l.headers(s)

	// Extrema always cover the full dataset, never the filtered subset.
	extrema := make(map[string]float64)
	maxima := make(map[string]float64)
	if len(records) > 0 {
		for _, c := range l.Columns {
			if c.Highlight {
				v, err := derived.ColumnExtremum(records, c.Value, c.Better)
				if err != nil {
					return Table{}, err
				}
				extrema[c.ID] = v
			}
			if c.Bar {
				v, err := derived.ColumnExtremum(records, c.Value, derived.HigherIsBetter)
				if err != nil {
					return Table{}, err
				}
				maxima[c.ID] = v
			}
		}
	}

	rows := l.filter(records, s)
	l.sort(rows, s)

	for i, r := range rows {
		row := Row{
			Rank:        i + 1,
			Model:       r.Model,
			DisplayName: DisplayName(s.System, agentPrefix, r.Model),
			Podium:      i < PodiumSize,
			Cells:       make([]Cell, 0, len(l.Columns)),
		}
		for _, c := range l.Columns {
			v := c.Value(r)
			cell := Cell{
				Column:   c.ID,
				Text:     c.Format(v),
				Value:    v,
				Selected: c.ID == s.Sort,
			}
			if ext, ok := extrema[c.ID]; ok {
				cell.Extremal = derived.IsExtremal(r, c.Value, ext)
			}
			if m, ok := maxima[c.ID]; ok && m > 0 {
				cell.Bar = v / m * 100
			}
			row.Cells = append(row.Cells, cell)
		}
		if l.Expandable && s.IsExpanded(r.Model) {
			row.Expanded = true
			row.Panel = panel(r)
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		t.Empty = true
		t.Placeholder = NoResults
	}
	return t, nil
}

// Ranked returns the filtered records in display order.
func (l Layout) Ranked(records []model.BenchmarkRecord, s State) ([]model.BenchmarkRecord, error) {
	if err := l.Validate(s); err != nil {
		return nil, err
	}
	rows := l.filter(records, s)
	l.sort(rows, s)
	return rows, nil
}

func (l Layout) filter(records []model.BenchmarkRecord, s State) []model.BenchmarkRecord {
	out := make([]model.BenchmarkRecord, 0, len(records))
	for _, r := range records {
		if l.Filterable && !s.Matches(r.Model) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sort orders rows in place. Equal keys keep dataset order in both directions.
func (l Layout) sort(rows []model.BenchmarkRecord, s State) {
	var compare func(a, b model.BenchmarkRecord) int
	if s.Sort == ModelColumn {
		compare = func(a, b model.BenchmarkRecord) int { return strings.Compare(a.Model, b.Model) }
	} else {
		c, _ := l.Column(s.Sort)
		compare = func(a, b model.BenchmarkRecord) int { return cmp.Compare(c.Value(a), c.Value(b)) }
	}
	slices.SortStableFunc(rows, func(a, b model.BenchmarkRecord) int {
		if s.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

func (l Layout) headers(s State) ([]Header, []GroupSpan) {
	headers := make([]Header, 0, len(l.Columns))
	var groups []GroupSpan
	for _, c := range l.Columns {
		h := Header{
			ID:      c.ID,
			Label:   c.Label,
			Group:   c.Group,
			Tooltip: c.Tooltip,
			Better:  c.Better.String(),
		}
		if c.ID == s.Sort {
			h.Sorted = s.Direction()
		}
		headers = append(headers, h)

		if c.Group == "" {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].Label == c.Group {
			groups[n-1].Span++
		} else {
			groups = append(groups, GroupSpan{Label: c.Group, Span: 1})
		}
	}
	return headers, groups
}

func panel(r model.BenchmarkRecord) *Panel {
	return &Panel{
		Patterns: []PanelItem{
			{Label: "Avg. Steps Per Instance", Text: Raw(r.Patterns.AvgStepsPerInstance)},
			{Label: "Avg. Lines Per Step", Text: Raw(r.Patterns.AvgLinesPerStep)},
			{Label: "Avg. Cost Per Instance", Text: RawCost(r.Patterns.AvgCostPerInstance)},
		},
		Dynamics: []PanelItem{
			{Label: "Efficiency", Text: Fixed3(r.Dynamics.Efficiency)},
			{Label: "Redundancy", Text: Fixed3(r.Dynamics.Redundancy)},
			{Label: "Usage Drop", Text: Fixed3(r.Dynamics.UsageDrop)},
		},
	}
}
