package api

import "net/http"

// DatasetHandler reports the version and provenance of the served dataset.
type DatasetHandler struct {
	deps InfoProvider
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(deps InfoProvider) *DatasetHandler {
	return &DatasetHandler{deps: deps}
}

// HandleDataset handles GET /api/dataset requests.
func (h *DatasetHandler) HandleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	info, err := h.deps.Info(r.Context())
	if err != nil {
		fail(w, r, Wrap("api.get_dataset", err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
