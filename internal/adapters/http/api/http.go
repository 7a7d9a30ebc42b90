// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Render derives the table of a named layout for the view query.
	Render(ctx context.Context, name string, q url.Values) (view.Table, error)

	// Read operations over the full dataset.
	Summary(ctx context.Context) (derived.Summary, error)
	Rank(ctx context.Context, modelName, metric string) (Entry, error)
	ColumnStats(ctx context.Context) ([]types.ColumnStat, error)
	Findings(ctx context.Context) ([]types.Finding, error)
	Info(ctx context.Context) (repository.Info, error)
}

// WorkbookWriter writes the XLSX export.
type WorkbookWriter interface {
	WriteXLSX(ctx context.Context, w io.Writer) error
}

// Entry mirrors the read shape returned by rank queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	tableHandler   *TableHandler
	summaryHandler *SummaryHandler
	rankHandler    *RankHandler
	columnsHandler *ColumnsHandler
	datasetHandler *DatasetHandler
	exportHandler  *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, workbook WorkbookWriter) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		tableHandler:   NewTableHandler(deps),
		summaryHandler: NewSummaryHandler(deps),
		rankHandler:    NewRankHandler(deps),
		columnsHandler: NewColumnsHandler(deps),
		datasetHandler: NewDatasetHandler(deps),
		exportHandler:  NewExportHandler(deps, workbook),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	for _, l := range view.Layouts() {
		mux.HandleFunc("/api/"+l.Name, MetricsMiddleware(s.tableHandler.Handle(l.Name), l.Name))
	}
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleSummary, "summary"))
	mux.HandleFunc("/api/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/api/columns", MetricsMiddleware(s.columnsHandler.HandleColumns, "columns"))
	mux.HandleFunc("/api/dataset", MetricsMiddleware(s.datasetHandler.HandleDataset, "dataset"))
	mux.HandleFunc("/api/export.xlsx", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

// notModified sets the dataset version as ETag and answers a matching
// If-None-Match with 304. Every resource is a pure function of the URL and
// the dataset version.
func notModified(w http.ResponseWriter, r *http.Request, info InfoProvider) bool {
	i, err := info.Info(r.Context())
	if err != nil || i.Version == "" {
		return false
	}
	etag := `"` + i.Version + `"`
	w.Header().Set("ETag", etag)
	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

// InfoProvider exposes the served dataset version.
type InfoProvider interface {
	Info(ctx context.Context) (repository.Info, error)
}
