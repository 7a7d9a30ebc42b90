package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/contextbench/leaderboard/internal/domain/model"
	"github.com/contextbench/leaderboard/pkg/metrics"
)

// Snapshot is one immutable, validated version of the dataset.
type Snapshot struct {
	records []model.BenchmarkRecord
	byModel map[string]int
	version string
	source  string
}

// NewSnapshot indexes records by model name. Names must be unique.
func NewSnapshot(source, version string, records []model.BenchmarkRecord) (*Snapshot, error) {
	byModel := make(map[string]int, len(records))
	for i, r := range records {
		if _, dup := byModel[r.Model]; dup {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidDataset, ErrDuplicateModel, r.Model)
		}
		byModel[r.Model] = i
	}
	own := make([]model.BenchmarkRecord, len(records))
	copy(own, records)
	return &Snapshot{records: own, byModel: byModel, version: version, source: source}, nil
}

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Version returns the content version of the snapshot.
func (s *Snapshot) Version() string { return s.version }

type published struct {
	snap     *Snapshot
	loadedAt time.Time
}

// MemoryStore serves the latest published snapshot. Readers never block and
// always see one complete snapshot.
type MemoryStore struct {
	current atomic.Pointer[published]
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store serving snap.
func NewMemoryStore(snap *Snapshot, opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.Publish(snap)
	return s
}

// Publish atomically replaces the served snapshot.
func (s *MemoryStore) Publish(snap *Snapshot) {
	if snap == nil {
		snap = &Snapshot{byModel: map[string]int{}}
	}
	s.current.Store(&published{snap: snap, loadedAt: s.now()})
	metrics.UpdateDatasetRecords(snap.Len())
}

func (s *MemoryStore) snapshot() *published {
	return s.current.Load()
}

// Records implements Store.Records.
func (s *MemoryStore) Records(_ context.Context) []model.BenchmarkRecord {
	p := s.snapshot()
	out := make([]model.BenchmarkRecord, len(p.snap.records))
	copy(out, p.snap.records)
	return out
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, name string) (model.BenchmarkRecord, error) {
	p := s.snapshot()
	i, ok := p.snap.byModel[name]
	if !ok {
		return model.BenchmarkRecord{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p.snap.records[i], nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	return s.snapshot().snap.Len()
}

// Info implements Store.Info.
func (s *MemoryStore) Info(_ context.Context) Info {
	p := s.snapshot()
	return Info{
		Version:  p.snap.version,
		Source:   p.snap.source,
		LoadedAt: p.loadedAt,
		Records:  p.snap.Len(),
	}
}
