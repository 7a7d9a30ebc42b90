package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/model"
	"github.com/contextbench/leaderboard/internal/domain/view"
)

// Document is the JSON export: the dataset plus every default table.
type Document struct {
	Dataset repository.Info         `json:"dataset"`
	Summary *derived.Summary        `json:"summary"`
	Tables  map[string]view.Table   `json:"tables"`
	Records []model.BenchmarkRecord `json:"records"`
}

// Build assembles the JSON export document.
func (e *Exporter) Build(ctx context.Context) (Document, error) {
	info, err := e.src.Info(ctx)
	if err != nil {
		return Document{}, err
	}
	records, err := e.src.Records(ctx)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Dataset: info,
		Tables:  make(map[string]view.Table, len(view.Layouts())),
		Records: records,
	}

	sum, err := e.src.Summary(ctx)
	switch {
	case err == nil:
		doc.Summary = &sum
	case errors.Is(err, derived.ErrEmptyDataset):
	default:
		return Document{}, err
	}

	for _, l := range view.Layouts() {
		t, err := e.src.Render(ctx, l.Name, nil)
		if err != nil {
			return Document{}, err
		}
		doc.Tables[l.Name] = t
	}
	return doc, nil
}

// WriteJSON writes the JSON export document.
func (e *Exporter) WriteJSON(ctx context.Context, w io.Writer) error {
	doc, err := e.Build(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
