// Package repository loads the benchmark results artifact and serves it as
// an immutable, validated dataset.
package repository

import (
	"context"
	"time"

	"github.com/contextbench/leaderboard/internal/domain/model"
)

// Info describes the dataset currently served.
type Info struct {
	Version  string    `json:"version"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
}

// Store provides read access to the benchmark dataset.
type Store interface {
	// Records returns the dataset in artifact order. The caller owns the slice.
	Records(ctx context.Context) []model.BenchmarkRecord

	// Get returns the record of one model.
	// Returns ErrNotFound if the model is unknown.
	Get(ctx context.Context, name string) (model.BenchmarkRecord, error)

	// Count returns the number of records.
	Count(ctx context.Context) int

	// Info returns the version and provenance of the dataset.
	Info(ctx context.Context) Info
}
