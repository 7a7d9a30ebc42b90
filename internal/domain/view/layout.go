package view

import "fmt"

// Layout names.
const (
	Leaderboard = "leaderboard"
	Detail      = "detail"
	Retrieval   = "retrieval"
)

// Layout parameterizes the generic table: which columns, which default sort
// and which interactions are enabled.
type Layout struct {
	Name         string
	Title        string
	Columns      []Column
	DefaultSort  string
	Filterable   bool
	Expandable   bool
	MetricSelect bool // the primary metric selector drives the sort
	Legend       []string
	Note         string
}

// Column returns the layout column with the given id.
func (l Layout) Column(id string) (Column, bool) {
	for _, c := range l.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Sortable reports whether id names a column rows can be sorted by.
func (l Layout) Sortable(id string) bool {
	if id == ModelColumn {
		return true
	}
	_, ok := l.Column(id)
	return ok
}

// Detail view column groups.
const (
	GroupFile     = "File Level"
	GroupBlock    = "Block Level"
	GroupLine     = "Line Level"
	GroupEndToEnd = "End-to-End"
	GroupDynamics = "Dynamics & Cost"
)

// LeaderboardLayout is the primary table: filterable, expandable, driven by
// the primary metric selector.
var LeaderboardLayout = Layout{
	Name:  Leaderboard,
	Title: "Performance",
	Columns: []Column{
		col(ColPassAt1, highlight, bar),
		col(ColLineF1, highlight, bar),
		col(ColBlockF1, highlight, bar),
		col(ColFileF1, highlight, bar),
		col(ColEfficiency, highlight),
	},
	DefaultSort:  ColPassAt1,
	Filterable:   true,
	Expandable:   true,
	MetricSelect: true,
}

// DetailLayout is the dense grouped table without expansion or filtering.
var DetailLayout = Layout{
	Name:  Detail,
	Title: "Detailed Results",
	Columns: []Column{
		col(ColFileRecall, group(GroupFile), label("Rec.")),
		col(ColFilePrecision, group(GroupFile), label("Pre.")),
		col(ColFileF1, group(GroupFile), label("F1")),
		col(ColBlockRecall, group(GroupBlock), label("Rec.")),
		col(ColBlockPrec, group(GroupBlock), label("Pre.")),
		col(ColBlockF1, group(GroupBlock), label("F1")),
		col(ColLineRecall, group(GroupLine), label("Rec.")),
		col(ColLinePrecision, group(GroupLine), label("Pre.")),
		col(ColLineF1, group(GroupLine), label("F1")),
		col(ColPassAt1, group(GroupEndToEnd)),
		col(ColSteps, group(GroupDynamics), label("Steps")),
		col(ColLinesPerStep, group(GroupDynamics), label("Lines")),
		col(ColEfficiency, group(GroupDynamics), label("Eff.")),
		col(ColRedundancy, group(GroupDynamics), label("Red.")),
		col(ColCost, group(GroupDynamics), label("Cost")),
	},
	DefaultSort: ColPassAt1,
	Legend: []string{
		"File Level Metrics",
		"Block Level Metrics",
		"Line Level Metrics",
		"Success Metrics",
		"Agent Dynamics",
	},
}

// RetrievalLayout compares retrieval cost and dynamics.
var RetrievalLayout = Layout{
	Name:  Retrieval,
	Title: "Retrieval Efficiency & Dynamics",
	Columns: []Column{
		col(ColSteps, highlight, label("Avg. Steps ↓")),
		col(ColLinesPerStep),
		col(ColEfficiency, highlight, label("Efficiency ↑")),
		col(ColRedundancy, highlight, label("Redundancy ↓")),
		col(ColCost, highlight, label("Avg. Cost ↓"), format(Dollars2)),
	},
	DefaultSort: ColEfficiency,
	Note: "Efficiency measures useful context per step. Redundancy indicates retrieval overlap. " +
		"Higher efficiency and lower redundancy optimize performance-to-cost ratios.",
}

// Layouts returns the known layouts in tab order.
func Layouts() []Layout {
	return []Layout{LeaderboardLayout, RetrievalLayout, DetailLayout}
}

// LayoutByName resolves a layout; the empty name selects the leaderboard.
func LayoutByName(name string) (Layout, error) {
	if name == "" {
		return LeaderboardLayout, nil
	}
	for _, l := range Layouts() {
		if l.Name == name {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
}
