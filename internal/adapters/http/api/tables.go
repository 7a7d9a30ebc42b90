package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/contextbench/leaderboard/internal/domain/view"
)

// TableDependencies defines the interface for table operations.
type TableDependencies interface {
	InfoProvider
	Render(ctx context.Context, name string, q url.Values) (view.Table, error)
}

// TableHandler serves the rendered view tables.
type TableHandler struct {
	deps TableDependencies
}

// NewTableHandler creates a new table handler.
func NewTableHandler(deps TableDependencies) *TableHandler {
	return &TableHandler{deps: deps}
}

// Handle returns the handler of GET /api/{name} for layout name. The view
// state is read from the query: sort, dir, q, system, metric and expand.
func (h *TableHandler) Handle(name string) http.HandlerFunc {
	op := "api.get_" + name
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		if notModified(w, r, h.deps) {
			return
		}
		table, err := h.deps.Render(r.Context(), name, r.URL.Query())
		if err != nil {
			fail(w, r, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}
