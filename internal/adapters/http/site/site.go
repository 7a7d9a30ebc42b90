// Package site renders the leaderboard web page.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"

	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	"github.com/contextbench/leaderboard/pkg/metrics"
)

// Error constants
var (
	ErrGenerate = errors.New("site generation failed")
	ErrServe    = errors.New("site serve failed")
)

// QueryTab selects the table shown on the page.
const QueryTab = "tab"

const notAvailable = "n/a"

// Dependencies the page is rendered from.
type Dependencies interface {
	State(name string, q url.Values) (view.Layout, view.State, error)
	RenderState(ctx context.Context, l view.Layout, st view.State) (view.Table, error)
	Summary(ctx context.Context) (derived.Summary, error)
	Findings(ctx context.Context) ([]types.Finding, error)
}

// Site renders the page for a view query.
type Site struct {
	deps      Dependencies
	templates *template.Template
	copy      Copy
}

// New parses the embedded templates and renders the page copy.
func New(deps Dependencies) (*Site, error) {
	funcMap := template.FuncMap{
		"pct":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"colspan": func(t view.Table) int { return len(t.Headers) + 2 },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: parse templates: %w", ErrGenerate, err)
	}
	c, err := loadCopy()
	if err != nil {
		return nil, err
	}
	return &Site{deps: deps, templates: templates, copy: c}, nil
}

// Register attaches the page and its static assets to mux.
func (s *Site) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(StaticFS())))
	mux.HandleFunc("/", s.HandleRoot)
}

// HandleRoot handles GET / requests.
func (s *Site) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	err := s.Write(r.Context(), &buf, r.URL.Query())
	switch {
	case err == nil:
	case isBadQuery(err):
		metrics.RecordErrorByEndpoint("root", r.Method, "bad_request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		logger.Get().Error(r.Context(), "render page", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Write renders the page for query q to w.
func (s *Site) Write(ctx context.Context, w io.Writer, q url.Values) error {
	p, err := s.Page(ctx, q)
	if err != nil {
		return err
	}
	if err := s.templates.ExecuteTemplate(w, "page.html", p); err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	return nil
}

func isBadQuery(err error) bool {
	return errors.Is(err, view.ErrUnknownColumn) ||
		errors.Is(err, view.ErrUnknownMetric) ||
		errors.Is(err, view.ErrUnknownSystem) ||
		errors.Is(err, view.ErrUnknownView) ||
		errors.Is(err, view.ErrBadDirection)
}
