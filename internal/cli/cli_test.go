package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contextbench/leaderboard/internal/adapters/export"
	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	service "github.com/contextbench/leaderboard/internal/app"
	"github.com/contextbench/leaderboard/internal/cli"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func record(name string, pass, lineF1, eff float64) string {
	return fmt.Sprintf(`{
  "model": %q,
  "performance": {
    "file": {"recall": 0.7, "precision": 0.5, "f1": 0.58},
    "block": {"recall": 0.5, "precision": 0.4, "f1": 0.44},
    "line": {"recall": 0.4, "precision": 0.3, "f1": %g},
    "pass_at_1": %g
  },
  "patterns": {"avg_steps_per_instance": 20, "avg_lines_per_step": 30, "avg_cost_per_instance": 0.5},
  "dynamics": {"efficiency": %g, "redundancy": 0.2, "usage_drop": 0.1}
}`, name, lineF1, pass, eff)
}

func dataset(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "results.json")
	data := "[" + record("GPT-X", 0.42, 0.31, 0.52) + "," + record("Claude-Y", 0.51, 0.28, 0.47) + "]"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := cli.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTableCommand(t *testing.T) {
	Convey("Given a dataset file", t, func() {
		path := dataset(t)

		Convey("The default table ranks by pass rate", func() {
			out, err := run("table", "--dataset", path)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, view.LeaderboardLayout.Title)
			So(strings.Index(out, "Claude-Y"), ShouldBeLessThan, strings.Index(out, "GPT-X"))
		})

		Convey("Flags become the view state", func() {
			out, err := run("table", "--dataset", path, "--metric", "line_f1", "--system", "agent", "--json")
			So(err, ShouldBeNil)
			var table view.Table
			So(json.Unmarshal([]byte(out), &table), ShouldBeNil)
			So(table.Sort, ShouldEqual, view.ColLineF1)
			So(table.Rows[0].Model, ShouldEqual, "GPT-X")
			So(table.Rows[0].DisplayName, ShouldEqual, view.DefaultAgentPrefix+"GPT-X")
		})

		Convey("Expanded rows print their panel", func() {
			out, err := run("table", "--dataset", path, "--expand", "GPT-X")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Avg. Steps Per Instance")
		})

		Convey("The filter can match nothing", func() {
			out, err := run("table", "--dataset", path, "--filter", "zzz")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, view.NoResults)
		})

		Convey("Invalid flags are rejected", func() {
			_, err := run("table", "--dataset", path, "--metric", "cost")
			So(errors.Is(err, view.ErrUnknownMetric), ShouldBeTrue)
			_, err = run("table", "--dataset", path, "--view", "nope")
			So(errors.Is(err, view.ErrUnknownView), ShouldBeTrue)
		})
	})
}

func TestValidateCommand(t *testing.T) {
	Convey("Given the validate command", t, func() {
		Convey("The bundled dataset is valid", func() {
			out, err := run("validate")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, repository.EmbeddedSource)
			So(out, ShouldContainSubstring, "records")
		})

		Convey("A valid file reports its record count", func() {
			out, err := run("validate", dataset(t))
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "2 records")
		})

		Convey("An invalid file lists its problems", func() {
			path := filepath.Join(t.TempDir(), "bad.json")
			So(os.WriteFile(path, []byte(`[{"model": 3}]`), 0o600), ShouldBeNil)
			out, err := run("validate", path)
			So(errors.Is(err, cli.ErrValidation), ShouldBeTrue)
			So(out, ShouldContainSubstring, "problem(s)")
		})

		Convey("A missing file fails", func() {
			_, err := run("validate", filepath.Join(t.TempDir(), "missing.json"))
			So(errors.Is(err, cli.ErrValidation), ShouldBeTrue)
		})
	})
}

func TestShowCommand(t *testing.T) {
	Convey("Given a dataset file", t, func() {
		path := dataset(t)

		Convey("A known model is dumped with its ranks", func() {
			out, err := run("show", "--dataset", path, "--no-color", "GPT-X")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "GPT-X")
			So(out, ShouldContainSubstring, view.ColEfficiency)
		})

		Convey("An unknown model is not found", func() {
			_, err := run("show", "--dataset", path, "Nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestExportCommand(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := filepath.Join(t.TempDir(), "dist")
		out, err := run("export", "--dataset", dataset(t), "--out", dir)
		So(err, ShouldBeNil)

		for _, name := range []string{export.HTMLFile, export.JSONFile, export.XLSXFile} {
			So(out, ShouldContainSubstring, name)
			_, err := os.Stat(filepath.Join(dir, name))
			So(err, ShouldBeNil)
		}
	})
}

func TestNewHandler(t *testing.T) {
	Convey("Given the serve handler over a started service", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		h, err := cli.NewHandler(context.Background(), svc)
		So(err, ShouldBeNil)

		get := func(target string, header ...string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			for i := 0; i+1 < len(header); i += 2 {
				req.Header.Set(header[i], header[i+1])
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		Convey("Site, API and docs are mounted", func() {
			So(get("/").Code, ShouldEqual, http.StatusOK)
			So(get("/api/leaderboard").Code, ShouldEqual, http.StatusOK)
			So(get("/openapi.yaml").Code, ShouldEqual, http.StatusOK)
			So(get("/healthz").Code, ShouldEqual, http.StatusOK)
			So(get("/nope").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Responses are compressed on request", func() {
			w := get("/", "Accept-Encoding", "gzip")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Encoding"), ShouldEqual, "gzip")
		})
	})
}

func TestUnknownCommand(t *testing.T) {
	Convey("An unknown subcommand fails", t, func() {
		_, err := run("frobnicate")
		So(err, ShouldNotBeNil)
	})
}
