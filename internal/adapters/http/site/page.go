package site

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
)

// Link is an anchor on the page.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// Card is one summary card.
type Card struct {
	Label string
	Value string
}

// Hidden is a hidden input of the filter form.
type Hidden struct {
	Name  string
	Value string
}

// Page is everything the page template renders.
type Page struct {
	Title    string
	Copy     Copy
	Cards    []Card
	Findings []types.Finding
	Tabs     []Link
	Metrics  []Link
	System   Link
	Table    view.Table
	SortHref map[string]string // header id -> toggle link
	RowHref  map[string]string // model -> expand/collapse link
	Hidden   []Hidden
	Footer   []Link
}

var tabLabels = map[string]string{
	view.Leaderboard: "Performance",
	view.Retrieval:   "Retrieval Analysis",
	view.Detail:      "Detailed Results",
}

var metricLabels = map[string]string{
	view.ColPassAt1:    "Pass@1",
	view.ColLineF1:     "Line F1",
	view.ColEfficiency: "Efficiency",
}

// Footer links.
var footer = []Link{
	{Label: "Documentation", Href: "https://github.com/anonymousUser2026/ContextBench"},
	{Label: "Data", Href: "https://huggingface.co/datasets/Contextbench/ContextBench"},
	{Label: "Contact", Href: "mailto:contact@contextbench.org"},
}

// Page builds the page model for query q.
func (s *Site) Page(ctx context.Context, q url.Values) (Page, error) {
	l, st, err := s.deps.State(q.Get(QueryTab), q)
	if err != nil {
		return Page{}, err
	}
	table, err := s.deps.RenderState(ctx, l, st)
	if err != nil {
		return Page{}, err
	}

	p := Page{
		Title:    "ContextBench | Leaderboard",
		Copy:     s.copy,
		Table:    table,
		SortHref: make(map[string]string, len(l.Columns)+1),
		RowHref:  make(map[string]string, len(table.Rows)),
		Footer:   footer,
	}

	if p.Cards, err = s.cards(ctx); err != nil {
		return Page{}, err
	}
	p.Findings, err = s.deps.Findings(ctx)
	if err != nil && !errors.Is(err, derived.ErrEmptyDataset) {
		return Page{}, err
	}

	for _, tl := range view.Layouts() {
		tq := url.Values{}
		tq.Set(QueryTab, tl.Name)
		tq.Set(view.QuerySystem, string(st.System))
		p.Tabs = append(p.Tabs, Link{Label: tabLabels[tl.Name], Href: "?" + tq.Encode(), Active: tl.Name == l.Name})
	}

	if l.MetricSelect {
		for _, m := range view.PrimaryMetrics {
			next := st.Clone()
			if err := next.SelectMetric(m); err != nil {
				return Page{}, err
			}
			p.Metrics = append(p.Metrics, Link{Label: metricLabels[m], Href: href(l, next), Active: m == st.Metric})
		}
	}

	next := st.Clone()
	label := "Agent"
	next.System = view.Agent
	if st.System == view.Agent {
		next.System = view.Backbone
		label = "Backbone"
	}
	p.System = Link{Label: "Show " + label, Href: href(l, next)}

	sortable := append([]string{view.ModelColumn}, columnIDs(l)...)
	for _, id := range sortable {
		next := st.Clone()
		next.ToggleSort(id)
		p.SortHref[id] = href(l, next)
	}

	if l.Expandable {
		for _, row := range table.Rows {
			next := st.Clone()
			next.ToggleExpanded(row.Model)
			p.RowHref[row.Model] = href(l, next)
		}
	}

	if l.Filterable {
		hq := query(l, st)
		hq.Del(view.QueryFilter)
		for name, values := range hq {
			for _, v := range values {
				p.Hidden = append(p.Hidden, Hidden{Name: name, Value: v})
			}
		}
		sortHidden(p.Hidden)
	}

	return p, nil
}

func (s *Site) cards(ctx context.Context) ([]Card, error) {
	sum, err := s.deps.Summary(ctx)
	if errors.Is(err, derived.ErrEmptyDataset) {
		return []Card{
			{Label: "Total Models", Value: "0"},
			{Label: "Best Pass@1", Value: notAvailable},
			{Label: "Avg. Efficiency", Value: notAvailable},
			{Label: "Avg. Line F1", Value: notAvailable},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return []Card{
		{Label: "Total Models", Value: fmt.Sprint(sum.TotalModels)},
		{Label: "Best Pass@1", Value: view.Percent1(sum.BestPassAt1)},
		{Label: "Avg. Efficiency", Value: view.Fixed3(sum.AvgEfficiency)},
		{Label: "Avg. Line F1", Value: view.Fixed3(sum.AvgLineF1)},
	}, nil
}

// query encodes st with the tab and an explicit system, so links survive a
// non-default configured system.
func query(l view.Layout, st view.State) url.Values {
	q := st.Query()
	q.Set(QueryTab, l.Name)
	q.Set(view.QuerySystem, string(st.System))
	return q
}

func href(l view.Layout, st view.State) string {
	return "?" + query(l, st).Encode()
}

func columnIDs(l view.Layout) []string {
	ids := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		ids[i] = c.ID
	}
	return ids
}

func sortHidden(h []Hidden) {
	slices.SortFunc(h, func(a, b Hidden) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Value, b.Value))
	})
}
