// Package view is the generic sortable, filterable and expandable table over
// the benchmark dataset. A Layout lists typed columns; Render turns a Layout,
// the records and a State into a render-ready Table.
package view

import (
	"fmt"
	"strconv"

	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/model"
)

// ModelColumn is the pseudo-column that sorts rows by model name.
const ModelColumn = "model"

// Column ids of the catalog.
const (
	ColPassAt1       = "pass_at_1"
	ColFileRecall    = "file_recall"
	ColFilePrecision = "file_precision"
	ColFileF1        = "file_f1"
	ColBlockRecall   = "block_recall"
	ColBlockPrec     = "block_precision"
	ColBlockF1       = "block_f1"
	ColLineRecall    = "line_recall"
	ColLinePrecision = "line_precision"
	ColLineF1        = "line_f1"
	ColSteps         = "steps"
	ColLinesPerStep  = "lines_per_step"
	ColEfficiency    = "efficiency"
	ColRedundancy    = "redundancy"
	ColUsageDrop     = "usage_drop"
	ColCost          = "cost"
)

// Formatter turns a raw column value into display text.
type Formatter func(float64) string

// Display formats used by the tables.
var (
	Fixed3   Formatter = func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
	Percent1 Formatter = func(v float64) string { return strconv.FormatFloat(v*100, 'f', 1, 64) + "%" }
	Dollars2 Formatter = func(v float64) string { return "$" + strconv.FormatFloat(v, 'f', 2, 64) }
	Raw      Formatter = func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	RawCost  Formatter = func(v float64) string { return "$" + Raw(v) }
)

// Column describes one numeric leaf column bound to BenchmarkRecord.
type Column struct {
	ID        string
	Label     string
	Group     string
	Tooltip   string
	Value     derived.Accessor
	Format    Formatter
	Better    derived.Better
	Highlight bool // mark cells equal to the column extremum
	Bar       bool // draw a bar sized relative to the column maximum
}

func granularity(r model.BenchmarkRecord, level string) model.Granularity {
	switch level {
	case "file":
		return r.Performance.File
	case "block":
		return r.Performance.Block
	default:
		return r.Performance.Line
	}
}

func recall(level string) derived.Accessor {
	return func(r model.BenchmarkRecord) float64 { return granularity(r, level).Recall }
}

func precision(level string) derived.Accessor {
	return func(r model.BenchmarkRecord) float64 { return granularity(r, level).Precision }
}

func f1(level string) derived.Accessor {
	return func(r model.BenchmarkRecord) float64 { return granularity(r, level).F1 }
}

var catalog = []Column{
	{ID: ColPassAt1, Label: "Pass@1", Value: derived.PassAt1, Format: Percent1,
		Tooltip: "Percentage of issues successfully resolved (Pass@1 rate). Higher is better."},
	{ID: ColFileRecall, Label: "File Recall", Value: recall("file"), Format: Fixed3},
	{ID: ColFilePrecision, Label: "File Precision", Value: precision("file"), Format: Fixed3},
	{ID: ColFileF1, Label: "File F1", Value: f1("file"), Format: Fixed3,
		Tooltip: "F1 score at the file level, indicating correct identification of files containing the bug."},
	{ID: ColBlockRecall, Label: "Block Recall", Value: recall("block"), Format: Fixed3},
	{ID: ColBlockPrec, Label: "Block Precision", Value: precision("block"), Format: Fixed3},
	{ID: ColBlockF1, Label: "Block F1", Value: f1("block"), Format: Fixed3,
		Tooltip: "F1 score at the block level, assessing the ability to retrieve relevant code blocks."},
	{ID: ColLineRecall, Label: "Line Recall", Value: recall("line"), Format: Fixed3},
	{ID: ColLinePrecision, Label: "Line Precision", Value: precision("line"), Format: Fixed3},
	{ID: ColLineF1, Label: "Line F1", Value: derived.LineF1, Format: Fixed3,
		Tooltip: "F1 score at the line level, measuring precise context retrieval accuracy. Primary metric for fine-grained retrieval."},
	{ID: ColSteps, Label: "Avg. Steps", Better: derived.LowerIsBetter, Format: Raw,
		Value: func(r model.BenchmarkRecord) float64 { return r.Patterns.AvgStepsPerInstance }},
	{ID: ColLinesPerStep, Label: "Lines / Step", Format: Raw,
		Value: func(r model.BenchmarkRecord) float64 { return r.Patterns.AvgLinesPerStep }},
	{ID: ColEfficiency, Label: "Efficiency", Value: derived.Efficiency, Format: Fixed3,
		Tooltip: "Useful context per retrieval step. Higher is better."},
	{ID: ColRedundancy, Label: "Redundancy", Better: derived.LowerIsBetter, Format: Fixed3,
		Tooltip: "Overlap between retrieval steps. Lower is better.",
		Value:   func(r model.BenchmarkRecord) float64 { return r.Dynamics.Redundancy }},
	{ID: ColUsageDrop, Label: "Usage Drop", Better: derived.LowerIsBetter, Format: Fixed3,
		Tooltip: "Share of retrieved context discarded before the final patch.",
		Value:   func(r model.BenchmarkRecord) float64 { return r.Dynamics.UsageDrop }},
	{ID: ColCost, Label: "Avg. Cost", Better: derived.LowerIsBetter, Format: Dollars2,
		Value: func(r model.BenchmarkRecord) float64 { return r.Patterns.AvgCostPerInstance }},
}

// Catalog returns every known column in canonical order.
func Catalog() []Column {
	out := make([]Column, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog column with the given id.
func Lookup(id string) (Column, error) {
	for _, c := range catalog {
		if c.ID == id {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
}

// col copies a catalog column and applies per-layout overrides.
func col(id string, opts ...func(*Column)) Column {
	c, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func label(l string) func(*Column) { return func(c *Column) { c.Label = l } }

func group(g string) func(*Column) { return func(c *Column) { c.Group = g } }

func format(f Formatter) func(*Column) { return func(c *Column) { c.Format = f } }

func highlight(c *Column) { c.Highlight = true }

func bar(c *Column) { c.Bar = true }
