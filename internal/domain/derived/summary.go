package derived

import "github.com/contextbench/leaderboard/internal/domain/model"

// Accessors for the columns the summary cards read.
var (
	PassAt1    Accessor = func(r model.BenchmarkRecord) float64 { return r.Performance.PassAt1 }
	LineF1     Accessor = func(r model.BenchmarkRecord) float64 { return r.Performance.Line.F1 }
	Efficiency Accessor = func(r model.BenchmarkRecord) float64 { return r.Dynamics.Efficiency }
)

// Summary holds the four scalar cards shown above the tables.
type Summary struct {
	TotalModels   int     `json:"total_models"`
	BestPassAt1   float64 `json:"best_pass_at_1"`
	AvgEfficiency float64 `json:"avg_efficiency"`
	AvgLineF1     float64 `json:"avg_line_f1"`
}

// Summarize computes the summary cards over the full, unfiltered dataset.
func Summarize(records []model.BenchmarkRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrEmptyDataset
	}
	best, err := ColumnExtremum(records, PassAt1, HigherIsBetter)
	if err != nil {
		return Summary{}, err
	}
	eff, err := Mean(records, Efficiency)
	if err != nil {
		return Summary{}, err
	}
	f1, err := Mean(records, LineF1)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalModels:   len(records),
		BestPassAt1:   best,
		AvgEfficiency: eff,
		AvgLineF1:     f1,
	}, nil
}
