package checksite

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
)

// verifyRanked checks that ranks run 1..n without gaps, model names are
// distinct and rows follow the table's sort direction.
func verifyRanked(t view.Table) error {
	seen := make(map[string]bool, len(t.Rows))
	for i, r := range t.Rows {
		if r.Rank != i+1 {
			return fmt.Errorf("%w: %s row %d has rank %d", ErrInvariant, t.View, i, r.Rank)
		}
		if seen[r.Model] {
			return fmt.Errorf("%w: %s lists %q twice", ErrInvariant, t.View, r.Model)
		}
		seen[r.Model] = true
		if i == 0 {
			continue
		}
		c := compareRows(t.Sort, t.Rows[i-1], r)
		if (t.Direction == "desc" && c < 0) || (t.Direction == "asc" && c > 0) {
			return fmt.Errorf("%w: %s rows %d and %d out of %s order by %s",
				ErrInvariant, t.View, i, i+1, t.Direction, t.Sort)
		}
	}
	return nil
}

// verifyExtremes checks that every highlighted cell of a column carries the
// same value.
func verifyExtremes(t view.Table) error {
	extremes := make(map[string]float64)
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			if !c.Extremal {
				continue
			}
			if v, ok := extremes[c.Column]; ok && v != c.Value {
				return fmt.Errorf("%w: %s column %s highlights %v and %v",
					ErrInvariant, t.View, c.Column, v, c.Value)
			}
			extremes[c.Column] = c.Value
		}
	}
	return nil
}

// verifyFilter checks that filtered is exactly the rows of full whose model
// contains q, case-insensitively.
func verifyFilter(full, filtered view.Table, q string) error {
	want := 0
	for _, r := range full.Rows {
		if strings.Contains(strings.ToLower(r.Model), strings.ToLower(q)) {
			want++
		}
	}
	if len(filtered.Rows) != want {
		return fmt.Errorf("%w: filter %q returned %d rows, want %d", ErrInvariant, q, len(filtered.Rows), want)
	}
	for _, r := range filtered.Rows {
		if !strings.Contains(strings.ToLower(r.Model), strings.ToLower(q)) {
			return fmt.Errorf("%w: filter %q kept %q", ErrInvariant, q, r.Model)
		}
	}
	return verifyRanked(filtered)
}

// verifyRank checks a rank lookup against the unfiltered table sorted by the
// same metric.
func verifyRank(e types.Entry, t view.Table) error {
	if e.Of != t.Total {
		return fmt.Errorf("%w: rank of %q counts %d models, table has %d", ErrInvariant, e.Model, e.Of, t.Total)
	}
	if e.Rank < 1 || e.Rank > len(t.Rows) {
		return fmt.Errorf("%w: rank %d of %q outside 1..%d", ErrInvariant, e.Rank, e.Model, len(t.Rows))
	}
	if got := t.Rows[e.Rank-1].Model; got != e.Model {
		return fmt.Errorf("%w: rank %d is %q in the table, %q by lookup", ErrInvariant, e.Rank, got, e.Model)
	}
	return nil
}

func compareRows(sort string, a, b view.Row) int {
	if sort == view.ModelColumn {
		return strings.Compare(a.Model, b.Model)
	}
	return cmp.Compare(cellValue(a, sort), cellValue(b, sort))
}

func cellValue(r view.Row, column string) float64 {
	for _, c := range r.Cells {
		if c.Column == column {
			return c.Value
		}
	}
	return 0
}
