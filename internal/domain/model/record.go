// Package model contains domain models passed between layers.
package model

// BenchmarkRecord holds the evaluation results of one model.
// Fields mirror the JSON Schema of the bundled results artifact.
type BenchmarkRecord struct {
	Model       string      `json:"model"`
	Performance Performance `json:"performance"`
	Patterns    Patterns    `json:"patterns"`
	Dynamics    Dynamics    `json:"dynamics"`
}

// Performance carries retrieval accuracy at three granularities plus the
// end-to-end resolution rate.
type Performance struct {
	File    Granularity `json:"file"`
	Block   Granularity `json:"block"`
	Line    Granularity `json:"line"`
	PassAt1 float64     `json:"pass_at_1"` // fraction in [0,1]
}

// Granularity is a recall/precision/F1 triple against the gold context.
type Granularity struct {
	Recall    float64 `json:"recall"`
	Precision float64 `json:"precision"`
	F1        float64 `json:"f1"`
}

// Patterns describes how an agent explored the repository.
type Patterns struct {
	AvgStepsPerInstance float64 `json:"avg_steps_per_instance"`
	AvgLinesPerStep     float64 `json:"avg_lines_per_step"`
	AvgCostPerInstance  float64 `json:"avg_cost_per_instance"` // USD
}

// Dynamics are the derived retrieval dynamics metrics.
// Efficiency is higher-is-better, Redundancy lower-is-better.
type Dynamics struct {
	Efficiency float64 `json:"efficiency"`
	Redundancy float64 `json:"redundancy"`
	UsageDrop  float64 `json:"usage_drop"`
}
