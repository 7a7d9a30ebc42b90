// Package export writes static artifacts of the leaderboard: an HTML
// snapshot of the page, a JSON document and an XLSX workbook.
package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/model"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	"github.com/contextbench/leaderboard/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Artifact file names written by WriteDir.
const (
	HTMLFile = "index.html"
	JSONFile = "results.json"
	XLSXFile = "leaderboard.xlsx"
)

// Source provides the data every artifact is built from.
type Source interface {
	Render(ctx context.Context, name string, q url.Values) (view.Table, error)
	Summary(ctx context.Context) (derived.Summary, error)
	Records(ctx context.Context) ([]model.BenchmarkRecord, error)
	Info(ctx context.Context) (repository.Info, error)
}

// PageWriter renders the HTML page for a view query.
type PageWriter interface {
	Write(ctx context.Context, w io.Writer, q url.Values) error
}

// Exporter writes artifacts from a Source.
type Exporter struct {
	src  Source
	page PageWriter
	log  logger.Logger
}

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithPage enables the HTML snapshot.
func WithPage(page PageWriter) Option {
	return func(e *Exporter) {
		e.page = page
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// New constructs an Exporter.
func New(src Source, opts ...Option) *Exporter {
	e := &Exporter{src: src}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Named("export")
	}
	return e
}

type artifact struct {
	format string
	file   string
	write  func(ctx context.Context, w io.Writer) error
}

// WriteDir writes every artifact into dir concurrently and returns the
// written paths. dir is created if missing.
func (e *Exporter) WriteDir(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrExport, dir, err)
	}

	artifacts := []artifact{
		{format: "json", file: JSONFile, write: e.WriteJSON},
		{format: "xlsx", file: XLSXFile, write: e.WriteXLSX},
	}
	if e.page != nil {
		artifacts = append(artifacts, artifact{format: "html", file: HTMLFile, write: e.WriteHTML})
	}

	paths := make([]string, len(artifacts))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range artifacts {
		path := filepath.Join(dir, a.file)
		paths[i] = path
		g.Go(func() error {
			start := time.Now()
			err := writeFile(gctx, path, a.write)
			metrics.RecordExport(a.format, err == nil, float64(time.Since(start).Microseconds())/1000)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrExport, a.file, err)
			}
			e.log.Info(gctx, "artifact written", logger.String("format", a.format), logger.String("path", path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// WriteHTML writes the default page.
func (e *Exporter) WriteHTML(ctx context.Context, w io.Writer) error {
	if e.page == nil {
		return ErrNoPage
	}
	return e.page.Write(ctx, w, url.Values{})
}

// writeFile writes to a temporary file and renames it into place, so readers
// never observe a partial artifact.
func writeFile(ctx context.Context, path string, write func(context.Context, io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	bw := bufio.NewWriter(tmp)
	if err := write(ctx, bw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
