package api

import (
	"context"
	"errors"
	"net/http"

	derived "github.com/contextbench/leaderboard/internal/domain/derived"
)

// SummaryDependencies defines the interface for summary operations.
type SummaryDependencies interface {
	InfoProvider
	Summary(ctx context.Context) (derived.Summary, error)
}

// summaryResponse reports the cards, or available=false for an empty dataset.
type summaryResponse struct {
	Available bool             `json:"available"`
	Summary   *derived.Summary `json:"summary,omitempty"`
}

// SummaryHandler handles summary card requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleSummary handles GET /api/summary requests.
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if notModified(w, r, h.deps) {
		return
	}
	sum, err := h.deps.Summary(r.Context())
	switch {
	case errors.Is(err, derived.ErrEmptyDataset):
		writeJSON(w, http.StatusOK, summaryResponse{})
	case err != nil:
		fail(w, r, Wrap(op, err))
	default:
		writeJSON(w, http.StatusOK, summaryResponse{Available: true, Summary: &sum})
	}
}
