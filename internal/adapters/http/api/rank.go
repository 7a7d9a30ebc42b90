package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/contextbench/leaderboard/internal/domain/view"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	InfoProvider
	Rank(ctx context.Context, modelName, metric string) (Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /api/rank/{model}?metric= requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Model names may contain slashes, so everything after the prefix is the name.
	name, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/api/rank/"))
	if err != nil || strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if notModified(w, r, h.deps) {
		return
	}
	entry, err := h.deps.Rank(r.Context(), name, r.URL.Query().Get(view.QueryMetric))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
