package api

import (
	"bytes"
	"net/http"
	"strconv"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the XLSX workbook.
type ExportHandler struct {
	deps     InfoProvider
	workbook WorkbookWriter
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps InfoProvider, workbook WorkbookWriter) *ExportHandler {
	return &ExportHandler{deps: deps, workbook: workbook}
}

// HandleExport handles GET /api/export.xlsx requests.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if h.workbook == nil {
		http.NotFound(w, r)
		return
	}
	if notModified(w, r, h.deps) {
		return
	}
	var buf bytes.Buffer
	if err := h.workbook.WriteXLSX(r.Context(), &buf); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="contextbench-leaderboard.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
