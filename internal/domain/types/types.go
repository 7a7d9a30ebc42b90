// Package types contains common types used across the application
package types

// Entry represents a model's position on the leaderboard under one metric.
type Entry struct {
	Rank        int     `json:"rank"`
	Model       string  `json:"model"`
	DisplayName string  `json:"display_name"`
	Metric      string  `json:"metric"`
	Score       float64 `json:"score"`
	Of          int     `json:"of"`
}

// ColumnStat is the distribution summary of one metric column.
type ColumnStat struct {
	Column string  `json:"column"`
	Label  string  `json:"label"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Finding is a computed headline statement shown next to the abstract.
type Finding struct {
	Title       string  `json:"title"`
	Detail      string  `json:"detail"`
	Correlation float64 `json:"correlation,omitempty"`
}
