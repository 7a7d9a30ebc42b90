package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/contextbench/leaderboard/internal/domain/model"
	"github.com/contextbench/leaderboard/pkg/metrics"
)

// EmbeddedSource names the dataset bundled into the binary.
const EmbeddedSource = "embedded:results.json"

//go:embed data/results.json
var embeddedResults []byte

//go:embed data/schema.json
var schemaJSON []byte

// Schema returns the JSON Schema every dataset is validated against.
func Schema() []byte { return schemaJSON }

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Load reads the dataset at path, or the embedded dataset when path is empty.
func Load(ctx context.Context, path string) (*Snapshot, error) {
	if path == "" {
		return Decode(ctx, EmbeddedSource, embeddedResults)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordDatasetLoad(path, false, 0)
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return Decode(ctx, path, data)
}

// Decode validates data against the schema, decodes it and indexes it into a
// snapshot. The snapshot version is a name-based UUID of the raw bytes, so
// identical artifacts always share a version.
func Decode(_ context.Context, source string, data []byte) (snap *Snapshot, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDatasetLoad(source, err == nil, float64(time.Since(start).Microseconds())/1000)
	}()

	if err := Validate(source, data); err != nil {
		return nil, err
	}

	var records []model.BenchmarkRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &ValidationError{Source: source, Problems: []string{err.Error()}}
	}

	version := uuid.NewSHA1(uuid.NameSpaceURL, data).String()
	return NewSnapshot(source, version, records)
}

// Validate checks data against the dataset schema without decoding it.
func Validate(source string, data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile dataset schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{Source: source, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	metrics.RecordValidationFailures(len(problems))
	return &ValidationError{Source: source, Problems: problems}
}
