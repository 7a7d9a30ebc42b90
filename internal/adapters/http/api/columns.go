package api

import (
	"context"
	"errors"
	"net/http"

	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/types"
)

// ColumnsDependencies defines the interface for column statistics.
type ColumnsDependencies interface {
	InfoProvider
	ColumnStats(ctx context.Context) ([]types.ColumnStat, error)
	Findings(ctx context.Context) ([]types.Finding, error)
}

type columnsResponse struct {
	Columns  []types.ColumnStat `json:"columns"`
	Findings []types.Finding    `json:"findings"`
}

// ColumnsHandler serves per-column statistics and the computed findings.
type ColumnsHandler struct {
	deps ColumnsDependencies
}

// NewColumnsHandler creates a new columns handler.
func NewColumnsHandler(deps ColumnsDependencies) *ColumnsHandler {
	return &ColumnsHandler{deps: deps}
}

// HandleColumns handles GET /api/columns requests.
func (h *ColumnsHandler) HandleColumns(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_columns"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if notModified(w, r, h.deps) {
		return
	}
	resp := columnsResponse{Columns: []types.ColumnStat{}, Findings: []types.Finding{}}

	stats, err := h.deps.ColumnStats(r.Context())
	switch {
	case errors.Is(err, derived.ErrEmptyDataset):
		writeJSON(w, http.StatusOK, resp)
		return
	case err != nil:
		fail(w, r, Wrap(op, err))
		return
	}
	resp.Columns = stats

	findings, err := h.deps.Findings(r.Context())
	if err != nil && !errors.Is(err, derived.ErrEmptyDataset) {
		fail(w, r, Wrap(op, err))
		return
	}
	if findings != nil {
		resp.Findings = findings
	}
	writeJSON(w, http.StatusOK, resp)
}
