// Package derived computes presentation metrics from the immutable dataset:
// column extrema for highlighting, ranks, means and distribution summaries.
//
// Every function is pure. Callers own the record slice and nothing here
// retains or mutates it.
package derived

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/contextbench/leaderboard/internal/domain/model"
)

// Accessor extracts one numeric column from a record.
type Accessor func(model.BenchmarkRecord) float64

// Better tells which end of a column is the best value.
type Better int

const (
	// HigherIsBetter marks columns whose maximum is highlighted.
	HigherIsBetter Better = iota
	// LowerIsBetter marks columns whose minimum is highlighted.
	LowerIsBetter
)

// String returns the wire name of the direction.
func (b Better) String() string {
	if b == LowerIsBetter {
		return "lower"
	}
	return "higher"
}

// Values projects records through acc, preserving dataset order.
func Values(records []model.BenchmarkRecord, acc Accessor) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = acc(r)
	}
	return out
}

// ColumnExtremum returns the best value of a column: the maximum for
// HigherIsBetter, the minimum for LowerIsBetter.
func ColumnExtremum(records []model.BenchmarkRecord, acc Accessor, better Better) (float64, error) {
	if len(records) == 0 {
		return 0, ErrEmptyDataset
	}
	data := stats.Float64Data(Values(records, acc))
	if better == LowerIsBetter {
		return data.Min()
	}
	return data.Max()
}

// IsExtremal reports whether the record holds the cached extremum.
// Exact equality: near-ties are intentionally not highlighted together.
func IsExtremal(r model.BenchmarkRecord, acc Accessor, extremum float64) bool {
	return acc(r) == extremum
}

// RankOf returns the 1-based position of the named model within an already
// ordered sequence.
func RankOf(name string, sorted []model.BenchmarkRecord) (int, error) {
	for i, r := range sorted {
		if r.Model == name {
			return i + 1, nil
		}
	}
	return 0, ErrNotRanked
}

// Mean returns the arithmetic mean of a column.
func Mean(records []model.BenchmarkRecord, acc Accessor) (float64, error) {
	if len(records) == 0 {
		return 0, ErrEmptyDataset
	}
	return stats.Mean(Values(records, acc))
}

// ColumnStats summarizes the distribution of one column.
type ColumnStats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// Describe computes ColumnStats for a column.
func Describe(records []model.BenchmarkRecord, acc Accessor) (ColumnStats, error) {
	if len(records) == 0 {
		return ColumnStats{}, ErrEmptyDataset
	}
	data := stats.Float64Data(Values(records, acc))

	var (
		cs  ColumnStats
		err error
	)
	if cs.Min, err = data.Min(); err != nil {
		return ColumnStats{}, err
	}
	if cs.Max, err = data.Max(); err != nil {
		return ColumnStats{}, err
	}
	if cs.Mean, err = data.Mean(); err != nil {
		return ColumnStats{}, err
	}
	if cs.Median, err = data.Median(); err != nil {
		return ColumnStats{}, err
	}
	if cs.StdDev, err = data.StandardDeviation(); err != nil {
		return ColumnStats{}, err
	}
	return cs, nil
}

// Correlation returns the Pearson correlation between two columns.
// It needs at least two records and non-constant columns.
func Correlation(records []model.BenchmarkRecord, x, y Accessor) (float64, error) {
	if len(records) == 0 {
		return 0, ErrEmptyDataset
	}
	if len(records) < 2 {
		return 0, ErrUndefined
	}
	c := stat.Correlation(Values(records, x), Values(records, y), nil)
	if math.IsNaN(c) {
		return 0, ErrUndefined
	}
	return c, nil
}
