package checksite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	"github.com/contextbench/leaderboard/pkg/metrics"
)

// filterPrefixLen is how much of the top model's name the filter probe uses.
const filterPrefixLen = 3

type checker struct {
	cfg *Config
	c   *client
	log logger.Logger

	mu      sync.Mutex
	results []Result
}

// record stores the outcome of one check. A nil err is a pass.
func (k *checker) record(ctx context.Context, check string, err error) {
	res := Result{Check: check, OK: err == nil}
	if err != nil {
		res.Detail = err.Error()
		k.log.Error(ctx, "check failed", logger.String("check", check), logger.Error(err))
	} else if k.cfg.Verbose {
		k.log.Info(ctx, "check passed", logger.String("check", check))
	}
	kind, _, _ := strings.Cut(check, "/")
	metrics.RecordSiteCheck(kind, res.OK)

	k.mu.Lock()
	k.results = append(k.results, res)
	k.mu.Unlock()
}

// Run executes every check against the server at cfg.BaseURL. It returns an
// error wrapping ErrCheckFailed when any check failed.
func Run(ctx context.Context, cfg *Config) (Report, error) {
	report := Report{StartTime: time.Now()}
	k := &checker{cfg: cfg, c: newClient(cfg), log: logger.Named("checksite")}

	k.log.Info(ctx, "starting site check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	// Step 1: server health
	if err := k.checkHealth(ctx); err != nil {
		k.record(ctx, "health", err)
		return k.finish(ctx, report)
	}
	k.record(ctx, "health", nil)

	// Step 2: dataset identity
	var info repository.Info
	if err := k.c.getJSON(ctx, "/api/dataset", nil, &info); err != nil {
		k.record(ctx, "dataset", err)
		return k.finish(ctx, report)
	}
	k.record(ctx, "dataset", nil)
	report.Version = info.Version

	// Step 3: every table under its default state and every primary metric
	byMetric, err := k.checkTables(ctx, info)
	if err != nil {
		return k.finish(ctx, report)
	}

	// Step 4: rank lookups agree with the tables
	k.checkRanks(ctx, byMetric)

	// Step 5: filter, bad query, conditional requests and the HTML page
	k.checkFilter(ctx, byMetric[view.ColPassAt1])
	k.checkBadQuery(ctx)
	k.checkNotModified(ctx, info.Version)
	k.checkPage(ctx)

	return k.finish(ctx, report)
}

func (k *checker) finish(ctx context.Context, report Report) (Report, error) {
	report.Results = k.results
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	failed := report.Failed()
	k.log.Info(ctx, "final statistics",
		logger.String("version", report.Version),
		logger.Int("checks", len(report.Results)),
		logger.Int("failed", len(failed)),
		logger.Duration("duration", report.Duration),
	)
	if len(failed) > 0 {
		return report, fmt.Errorf("%w: %d of %d checks", ErrCheckFailed, len(failed), len(report.Results))
	}
	return report, nil
}

// checkHealth verifies the server is running.
func (k *checker) checkHealth(ctx context.Context) error {
	status, _, err := k.c.get(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", status)
	}
	return nil
}

// checkTables fetches the tables concurrently and verifies each one. It
// returns the leaderboard per primary metric for the rank probes.
func (k *checker) checkTables(ctx context.Context, info repository.Info) (map[string]view.Table, error) {
	type probe struct {
		check string
		path  string
		query url.Values
	}
	probes := []probe{
		{check: "table/" + view.Retrieval, path: "/api/" + view.Retrieval},
		{check: "table/" + view.Detail, path: "/api/" + view.Detail},
	}
	for _, m := range view.PrimaryMetrics {
		probes = append(probes, probe{
			check: "table/" + view.Leaderboard + "/" + m,
			path:  "/api/" + view.Leaderboard,
			query: url.Values{view.QueryMetric: {m}},
		})
	}

	var mu sync.Mutex
	byMetric := make(map[string]view.Table, len(view.PrimaryMetrics))

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range probes {
		g.Go(func() error {
			var t view.Table
			if err := k.c.getJSON(gctx, p.path, p.query, &t); err != nil {
				k.record(gctx, p.check, err)
				return err
			}
			err := verifyRanked(t)
			if err == nil {
				err = verifyExtremes(t)
			}
			if err == nil && (t.Total != info.Records || len(t.Rows) != info.Records) {
				err = fmt.Errorf("%w: %s has %d rows of %d, dataset has %d",
					ErrInvariant, t.View, len(t.Rows), t.Total, info.Records)
			}
			k.record(gctx, p.check, err)
			if m := p.query.Get(view.QueryMetric); m != "" {
				mu.Lock()
				byMetric[m] = t
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return byMetric, nil
}

// checkRanks looks up every model under every primary metric with at most
// cfg.Workers requests in flight.
func (k *checker) checkRanks(ctx context.Context, byMetric map[string]view.Table) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(k.cfg.Workers, 1))
	for metric, t := range byMetric {
		for _, row := range t.Rows {
			g.Go(func() error {
				var e types.Entry
				err := k.c.getJSON(gctx, "/api/rank/"+url.PathEscape(row.Model), url.Values{view.QueryMetric: {metric}}, &e)
				if err == nil {
					err = verifyRank(e, t)
				}
				k.record(gctx, "rank/"+metric+"/"+row.Model, err)
				return nil
			})
		}
	}
	_ = g.Wait()
}

// checkFilter filters by a prefix of the top model and compares with the
// unfiltered table.
func (k *checker) checkFilter(ctx context.Context, full view.Table) {
	if len(full.Rows) == 0 {
		return
	}
	name := []rune(full.Rows[0].Model)
	q := strings.ToLower(string(name[:min(len(name), filterPrefixLen)]))

	var filtered view.Table
	err := k.c.getJSON(ctx, "/api/"+view.Leaderboard, url.Values{view.QueryFilter: {q}}, &filtered)
	if err == nil {
		err = verifyFilter(full, filtered, q)
	}
	k.record(ctx, "filter", err)
}

// checkBadQuery expects an unknown sort column to be rejected.
func (k *checker) checkBadQuery(ctx context.Context) {
	status, _, err := k.c.get(ctx, "/api/"+view.Leaderboard, url.Values{view.QuerySort: {"no_such_column"}})
	if err == nil && status != http.StatusBadRequest {
		err = fmt.Errorf("unknown sort column answered %d, want %d", status, http.StatusBadRequest)
	}
	k.record(ctx, "bad-query", err)
}

// checkNotModified expects the dataset version to work as an ETag.
func (k *checker) checkNotModified(ctx context.Context, version string) {
	status, _, err := k.c.get(ctx, "/api/summary", nil, "If-None-Match", `"`+version+`"`)
	if err == nil && status != http.StatusNotModified {
		err = fmt.Errorf("matching ETag answered %d, want %d", status, http.StatusNotModified)
	}
	k.record(ctx, "etag", err)
}

// checkPage expects the HTML site to render a table.
func (k *checker) checkPage(ctx context.Context) {
	status, body, err := k.c.get(ctx, "/", nil)
	if err == nil && (status != http.StatusOK || !strings.Contains(string(body), "<table")) {
		err = fmt.Errorf("site answered %d without a table", status)
	}
	k.record(ctx, "page", err)
}
