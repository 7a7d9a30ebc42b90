package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contextbench/leaderboard/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

const validDataset = `[
  {
    "model": "GPT-X",
    "performance": {
      "file": {"recall": 0.7, "precision": 0.5, "f1": 0.58},
      "block": {"recall": 0.5, "precision": 0.4, "f1": 0.44},
      "line": {"recall": 0.4, "precision": 0.3, "f1": 0.34},
      "pass_at_1": 0.42
    },
    "patterns": {"avg_steps_per_instance": 20, "avg_lines_per_step": 35.5, "avg_cost_per_instance": 0.5},
    "dynamics": {"efficiency": 0.4, "redundancy": 0.2, "usage_drop": 0.25}
  },
  {
    "model": "Claude-Y",
    "performance": {
      "file": {"recall": 0.8, "precision": 0.5, "f1": 0.62},
      "block": {"recall": 0.6, "precision": 0.4, "f1": 0.48},
      "line": {"recall": 0.5, "precision": 0.3, "f1": 0.38},
      "pass_at_1": 0.51
    },
    "patterns": {"avg_steps_per_instance": 24, "avg_lines_per_step": 40, "avg_cost_per_instance": 0.8},
    "dynamics": {"efficiency": 0.41, "redundancy": 0.18, "usage_drop": 0.22}
  }
]`

func TestDecode(t *testing.T) {
	ctx := context.Background()

	Convey("Given a valid dataset", t, func() {
		snap, err := repository.Decode(ctx, "test", []byte(validDataset))
		So(err, ShouldBeNil)
		So(snap.Len(), ShouldEqual, 2)

		Convey("The version is stable for identical bytes", func() {
			again, err := repository.Decode(ctx, "other", []byte(validDataset))
			So(err, ShouldBeNil)
			So(again.Version(), ShouldEqual, snap.Version())
			So(snap.Version(), ShouldHaveLength, 36)
		})
	})

	Convey("Given malformed datasets", t, func() {
		cases := map[string]string{
			"not json":          `{"model":`,
			"not an array":      `{"model": "x"}`,
			"empty":             `[]`,
			"missing dynamics":  strings.Replace(validDataset, `"dynamics": {"efficiency": 0.4, "redundancy": 0.2, "usage_drop": 0.25}`, `"extra": 1`, 1),
			"pass out of range": strings.Replace(validDataset, `"pass_at_1": 0.42`, `"pass_at_1": 42`, 1),
			"wrong type":        strings.Replace(validDataset, `"avg_steps_per_instance": 20`, `"avg_steps_per_instance": "20"`, 1),
			"empty model":       strings.Replace(validDataset, `"model": "GPT-X"`, `"model": ""`, 1),
		}
		for name, data := range cases {
			Convey("Then "+name+" is rejected as invalid", func() {
				_, err := repository.Decode(ctx, "bad.json", []byte(data))
				So(err, ShouldNotBeNil)
				So(errors.Is(err, repository.ErrInvalidDataset), ShouldBeTrue)
			})
		}

		Convey("Then every schema violation is reported", func() {
			data := strings.Replace(validDataset, `"pass_at_1": 0.42`, `"pass_at_1": -1`, 1)
			data = strings.Replace(data, `"f1": 0.62`, `"f1": 1.5`, 1)
			err := repository.Validate("bad.json", []byte(data))

			var verr *repository.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(len(verr.Problems), ShouldEqual, 2)
			So(verr.Error(), ShouldContainSubstring, "bad.json")
		})

		Convey("Then duplicate model names are rejected", func() {
			data := strings.Replace(validDataset, `"model": "Claude-Y"`, `"model": "GPT-X"`, 1)
			_, err := repository.Decode(ctx, "dup.json", []byte(data))
			So(errors.Is(err, repository.ErrInvalidDataset), ShouldBeTrue)
			So(errors.Is(err, repository.ErrDuplicateModel), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no path", t, func() {
		snap, err := repository.Load(ctx, "")

		Convey("The embedded dataset loads and validates", func() {
			So(err, ShouldBeNil)
			So(snap.Len(), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a file path", t, func() {
		path := filepath.Join(t.TempDir(), "results.json")
		So(os.WriteFile(path, []byte(validDataset), 0o600), ShouldBeNil)

		snap, err := repository.Load(ctx, path)
		So(err, ShouldBeNil)
		So(snap.Len(), ShouldEqual, 2)

		store := repository.NewMemoryStore(snap)
		So(store.Info(ctx).Source, ShouldEqual, path)
	})

	Convey("Given a missing file", t, func() {
		_, err := repository.Load(ctx, "/no/such/results.json")
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})

	Convey("The schema is exposed for tooling", t, func() {
		So(string(repository.Schema()), ShouldContainSubstring, "pass_at_1")
	})
}
