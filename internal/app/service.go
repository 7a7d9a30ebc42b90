// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the interactive front ends.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	derived "github.com/contextbench/leaderboard/internal/domain/derived"
	"github.com/contextbench/leaderboard/internal/domain/model"
	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	"github.com/contextbench/leaderboard/pkg/metrics"
)

// ErrNotStarted is returned by operations that need a loaded dataset.
var ErrNotStarted = errors.New("service not started")

// Service serves the benchmark dataset through the view layouts.
type Service struct {
	mu sync.RWMutex

	// Core components
	store *repository.MemoryStore

	// Configuration
	datasetPath   string
	agentPrefix   string
	defaultSystem view.System
	defaultMetric string

	// State
	started   bool
	startedAt time.Time
	reloads   int
	cancel    context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath reads the results artifact from path instead of the
// embedded copy.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithSnapshot serves snap instead of loading the dataset on Start.
func WithSnapshot(snap *repository.Snapshot) Option {
	return func(s *Service) {
		if snap != nil {
			s.store = repository.NewMemoryStore(snap)
		}
	}
}

// WithAgentPrefix sets the label prepended to model names in agent mode.
func WithAgentPrefix(prefix string) Option {
	return func(s *Service) {
		s.agentPrefix = prefix
	}
}

// WithDefaultSystem sets the system used when a query does not name one.
func WithDefaultSystem(system view.System) Option {
	return func(s *Service) {
		if system != "" {
			s.defaultSystem = system
		}
	}
}

// WithDefaultMetric sets the primary metric used when a query does not name one.
func WithDefaultMetric(metric string) Option {
	return func(s *Service) {
		if metric != "" {
			s.defaultMetric = metric
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		agentPrefix:   view.DefaultAgentPrefix,
		defaultSystem: view.Backbone,
		defaultMetric: view.ColPassAt1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset, unless a snapshot was supplied, and starts the
// system metrics collector.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	if s.store == nil {
		snap, err := repository.Load(ctx, s.datasetPath)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		s.store = repository.NewMemoryStore(snap)
	}

	collectorCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go metrics.RunSystemCollector(collectorCtx)

	s.started = true
	s.startedAt = time.Now()
	info := s.store.Info(ctx)
	s.logger.Info(ctx, "leaderboard service started",
		logger.String("source", info.Source),
		logger.String("version", info.Version),
		logger.Int("records", info.Records),
	)

	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping leaderboard service...")

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Reload re-reads the dataset and publishes it. A dataset that fails
// validation is logged and the previous one keeps being served.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	snap, err := repository.Load(ctx, s.datasetPath)
	if err != nil {
		s.logger.Error(ctx, "dataset reload failed, keeping current dataset", logger.Error(err))
		return fmt.Errorf("reload dataset: %w", err)
	}
	s.store.Publish(snap)
	s.reloads++
	s.logger.Info(ctx, "dataset reloaded",
		logger.String("version", snap.Version()),
		logger.Int("records", snap.Len()),
	)
	return nil
}

func (s *Service) current() (*repository.MemoryStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Records returns the dataset in artifact order.
func (s *Service) Records(ctx context.Context) ([]model.BenchmarkRecord, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	return store.Records(ctx), nil
}

// Info describes the served dataset.
func (s *Service) Info(ctx context.Context) (repository.Info, error) {
	store, err := s.current()
	if err != nil {
		return repository.Info{}, err
	}
	return store.Info(ctx), nil
}

// Record returns one model's raw results.
// Returns repository.ErrNotFound if the model is unknown.
func (s *Service) Record(ctx context.Context, modelName string) (model.BenchmarkRecord, error) {
	store, err := s.current()
	if err != nil {
		return model.BenchmarkRecord{}, err
	}
	return store.Get(ctx, modelName)
}

// AgentPrefix returns the label prepended to model names in agent mode.
func (s *Service) AgentPrefix() string {
	return s.agentPrefix
}

// State decodes the view state of the named layout from query parameters,
// falling back to the configured system and metric.
func (s *Service) State(name string, q url.Values) (view.Layout, view.State, error) {
	l, err := view.LayoutByName(name)
	if err != nil {
		return view.Layout{}, view.State{}, err
	}
	withDefaults := url.Values{}
	for k, v := range q {
		withDefaults[k] = v
	}
	if withDefaults.Get(view.QuerySystem) == "" {
		withDefaults.Set(view.QuerySystem, string(s.defaultSystem))
	}
	if withDefaults.Get(view.QueryMetric) == "" && withDefaults.Get(view.QuerySort) == "" && l.MetricSelect {
		withDefaults.Set(view.QueryMetric, s.defaultMetric)
	}
	st, err := view.StateFromQuery(withDefaults, l)
	if err != nil {
		metrics.RecordViewError(l.Name, errorKind(err))
		return view.Layout{}, view.State{}, err
	}
	return l, st, nil
}

// Render derives the table of the named layout for the query.
func (s *Service) Render(ctx context.Context, name string, q url.Values) (view.Table, error) {
	l, st, err := s.State(name, q)
	if err != nil {
		return view.Table{}, err
	}
	return s.RenderState(ctx, l, st)
}

// RenderState derives the table of layout l in state st.
func (s *Service) RenderState(ctx context.Context, l view.Layout, st view.State) (view.Table, error) {
	store, err := s.current()
	if err != nil {
		return view.Table{}, err
	}

	start := time.Now()
	t, err := l.Render(store.Records(ctx), st, s.agentPrefix)
	if err != nil {
		metrics.RecordViewError(l.Name, errorKind(err))
		return view.Table{}, err
	}
	metrics.RecordViewRender(l.Name, t.Empty, float64(time.Since(start).Microseconds())/1000)
	return t, nil
}

// Leaderboard renders the primary leaderboard table.
func (s *Service) Leaderboard(ctx context.Context, q url.Values) (view.Table, error) {
	return s.Render(ctx, view.Leaderboard, q)
}

// Detail renders the grouped detail table.
func (s *Service) Detail(ctx context.Context, q url.Values) (view.Table, error) {
	return s.Render(ctx, view.Detail, q)
}

// Retrieval renders the retrieval efficiency table.
func (s *Service) Retrieval(ctx context.Context, q url.Values) (view.Table, error) {
	return s.Render(ctx, view.Retrieval, q)
}

// Summary returns the summary cards over the full dataset.
// Returns derived.ErrEmptyDataset when nothing is loaded.
func (s *Service) Summary(ctx context.Context) (derived.Summary, error) {
	store, err := s.current()
	if err != nil {
		return derived.Summary{}, err
	}
	return derived.Summarize(store.Records(ctx))
}

// Rank returns the position of one model under a primary metric over the
// unfiltered dataset. An empty metric selects the configured default.
func (s *Service) Rank(ctx context.Context, modelName, metric string) (types.Entry, error) {
	store, err := s.current()
	if err != nil {
		return types.Entry{}, err
	}
	if metric == "" {
		metric = s.defaultMetric
	}

	st := view.NewState(view.LeaderboardLayout)
	if err := st.SelectMetric(metric); err != nil {
		return types.Entry{}, err
	}
	rec, err := store.Get(ctx, modelName)
	if err != nil {
		return types.Entry{}, err
	}

	records := store.Records(ctx)
	ranked, err := view.LeaderboardLayout.Ranked(records, st)
	if err != nil {
		return types.Entry{}, err
	}
	rank, err := derived.RankOf(modelName, ranked)
	if err != nil {
		return types.Entry{}, err
	}
	c, _ := view.LeaderboardLayout.Column(metric)

	return types.Entry{
		Rank:        rank,
		Model:       rec.Model,
		DisplayName: view.DisplayName(s.defaultSystem, s.agentPrefix, rec.Model),
		Metric:      metric,
		Score:       c.Value(rec),
		Of:          len(records),
	}, nil
}

// ColumnStats describes the distribution of every catalog column.
func (s *Service) ColumnStats(ctx context.Context) ([]types.ColumnStat, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	records := store.Records(ctx)

	catalog := view.Catalog()
	out := make([]types.ColumnStat, 0, len(catalog))
	for _, c := range catalog {
		d, err := derived.Describe(records, c.Value)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", c.ID, err)
		}
		out = append(out, types.ColumnStat{
			Column: c.ID,
			Label:  c.Label,
			Min:    d.Min,
			Max:    d.Max,
			Mean:   d.Mean,
			Median: d.Median,
			StdDev: d.StdDev,
		})
	}
	return out, nil
}

type correlationFinding struct {
	title string
	x, y  string
	text  string
}

var correlationFindings = []correlationFinding{
	{
		title: "Recall over precision",
		x:     view.ColLineRecall,
		y:     view.ColPassAt1,
		text:  "Line-level recall and Pass@1 correlate at r = %.2f across models.",
	},
	{
		title: "Precision matters less",
		x:     view.ColLinePrecision,
		y:     view.ColPassAt1,
		text:  "Line-level precision and Pass@1 correlate at r = %.2f across models.",
	},
	{
		title: "Efficient exploration",
		x:     view.ColEfficiency,
		y:     view.ColPassAt1,
		text:  "Retrieval efficiency and Pass@1 correlate at r = %.2f across models.",
	},
}

// Findings computes the headline statements shown next to the abstract.
// Correlations that are undefined for the dataset are omitted.
func (s *Service) Findings(ctx context.Context) ([]types.Finding, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	records := store.Records(ctx)
	if len(records) == 0 {
		return nil, derived.ErrEmptyDataset
	}

	ranked, err := view.LeaderboardLayout.Ranked(records, view.NewState(view.LeaderboardLayout))
	if err != nil {
		return nil, err
	}
	best := ranked[0]
	findings := []types.Finding{{
		Title: "Top resolver",
		Detail: fmt.Sprintf("%s resolves %s of tasks, the highest Pass@1 of %d models.",
			best.Model, view.Percent1(best.Performance.PassAt1), len(records)),
	}}

	for _, f := range correlationFindings {
		x, err := view.Lookup(f.x)
		if err != nil {
			return nil, err
		}
		y, err := view.Lookup(f.y)
		if err != nil {
			return nil, err
		}
		r, err := derived.Correlation(records, x.Value, y.Value)
		if errors.Is(err, derived.ErrUndefined) {
			continue
		}
		if err != nil {
			return nil, err
		}
		findings = append(findings, types.Finding{
			Title:       f.title,
			Detail:      fmt.Sprintf(f.text, r),
			Correlation: r,
		})
	}
	return findings, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"defaultSystem": string(s.defaultSystem),
		"defaultMetric": s.defaultMetric,
		"reloads":       s.reloads,
	}

	if s.started {
		info := s.store.Info(context.Background())
		stats["records"] = info.Records
		stats["version"] = info.Version
		stats["source"] = info.Source
		stats["loadedAt"] = info.LoadedAt.Format(time.RFC3339)
		stats["uptime"] = time.Since(s.startedAt).Round(time.Second).String()

		metrics.UpdateDatasetRecords(info.Records)
	}

	return stats
}

// errorKind labels view errors for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, view.ErrUnknownColumn):
		return "unknown_column"
	case errors.Is(err, view.ErrUnknownMetric):
		return "unknown_metric"
	case errors.Is(err, view.ErrUnknownSystem):
		return "unknown_system"
	case errors.Is(err, view.ErrUnknownView):
		return "unknown_view"
	case errors.Is(err, view.ErrBadDirection):
		return "bad_direction"
	}
	return "internal"
}
