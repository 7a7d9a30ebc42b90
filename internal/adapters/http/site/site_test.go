package site_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/contextbench/leaderboard/internal/adapters/http/site"
	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	service "github.com/contextbench/leaderboard/internal/app"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const dataset = `[
  {"model": "GPT-X",
   "performance": {"file": {"recall": 0.7, "precision": 0.5, "f1": 0.58},
                   "block": {"recall": 0.5, "precision": 0.4, "f1": 0.44},
                   "line": {"recall": 0.4, "precision": 0.3, "f1": 0.34}, "pass_at_1": 0.42},
   "patterns": {"avg_steps_per_instance": 20, "avg_lines_per_step": 35.5, "avg_cost_per_instance": 0.5},
   "dynamics": {"efficiency": 0.4, "redundancy": 0.2, "usage_drop": 0.25}},
  {"model": "Claude-Y",
   "performance": {"file": {"recall": 0.8, "precision": 0.5, "f1": 0.62},
                   "block": {"recall": 0.6, "precision": 0.4, "f1": 0.48},
                   "line": {"recall": 0.5, "precision": 0.3, "f1": 0.38}, "pass_at_1": 0.51},
   "patterns": {"avg_steps_per_instance": 24, "avg_lines_per_step": 40, "avg_cost_per_instance": 0.8},
   "dynamics": {"efficiency": 0.41, "redundancy": 0.18, "usage_drop": 0.22}}
]`

func newSite(snap *repository.Snapshot) (*site.Site, *service.Service) {
	svc := service.New(service.WithSnapshot(snap))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	s, err := site.New(svc)
	if err != nil {
		panic(err)
	}
	return s, svc
}

func fixture() *repository.Snapshot {
	snap, err := repository.Decode(context.Background(), "fixture", []byte(dataset))
	if err != nil {
		panic(err)
	}
	return snap
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site", t, func() {
		s, svc := newSite(fixture())
		defer svc.Stop()
		mux := http.NewServeMux()
		s.Register(context.Background(), mux)

		Convey("When requesting the root page", func() {
			w := get(mux, "/")

			Convey("Then it renders the leaderboard in HTML", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				So(body, ShouldContainSubstring, "<h1")
				So(body, ShouldContainSubstring, "Benchmark Results")
				So(body, ShouldContainSubstring, "Comparative evaluation across multiple metrics.")
				So(body, ShouldContainSubstring, "51.0%")
				So(body, ShouldContainSubstring, "&copy; 2026 ContextBench Research Group")
				So(strings.Index(body, "Claude-Y"), ShouldBeLessThan, strings.Index(body, "GPT-X"))
			})

			Convey("And it renders the summary cards and abstract", func() {
				body := w.Body.String()
				So(body, ShouldContainSubstring, "Best Pass@1")
				So(body, ShouldContainSubstring, "1,136 issue-resolution tasks")
				So(body, ShouldContainSubstring, "@misc{contextbench2026")
			})
		})

		Convey("When requesting the retrieval tab", func() {
			w := get(mux, "/?tab=retrieval")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Retrieval Efficiency &amp; Dynamics")
			So(w.Body.String(), ShouldContainSubstring, "$0.50")
		})

		Convey("When requesting the detail tab", func() {
			w := get(mux, "/?tab=detail")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `colspan="3">File Level`)
			So(w.Body.String(), ShouldContainSubstring, "Agent Dynamics")
		})

		Convey("When filtering to nothing", func() {
			w := get(mux, "/?q=llama")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, view.NoResults)
			So(w.Body.String(), ShouldContainSubstring, `value="llama"`)
		})

		Convey("When expanding a row", func() {
			w := get(mux, "/?expand=GPT-X")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Avg. Steps Per Instance")
			So(w.Body.String(), ShouldContainSubstring, "Retrieval Dynamics")
		})

		Convey("When the query is invalid", func() {
			So(get(mux, "/?sort=bogus").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/?tab=charts").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting an unknown path", func() {
			So(get(mux, "/some-asset").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When requesting the stylesheet", func() {
			w := get(mux, "/static/site.css")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, ".extremal")
		})
	})

	Convey("Given a nil mux", t, func() {
		s, svc := newSite(fixture())
		defer svc.Stop()
		So(func() { s.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestSitePage(t *testing.T) {
	Convey("Given the page model", t, func() {
		s, svc := newSite(fixture())
		defer svc.Stop()
		ctx := context.Background()

		Convey("Links restore the state they describe", func() {
			p, err := s.Page(ctx, url.Values{})
			So(err, ShouldBeNil)

			link, err := url.Parse(p.SortHref[view.ColPassAt1])
			So(err, ShouldBeNil)
			So(link.Query().Get(view.QueryDir), ShouldEqual, "asc")
			So(link.Query().Get(site.QueryTab), ShouldEqual, view.Leaderboard)

			other, err := url.Parse(p.SortHref[view.ColLineF1])
			So(err, ShouldBeNil)
			So(other.Query().Get(view.QuerySort), ShouldEqual, view.ColLineF1)
			So(other.Query().Get(view.QueryDir), ShouldEqual, "desc")

			expand, err := url.Parse(p.RowHref["GPT-X"])
			So(err, ShouldBeNil)
			So(expand.Query()[view.QueryExpand], ShouldResemble, []string{"GPT-X"})
		})

		Convey("Collapsing links drop the expanded model", func() {
			p, err := s.Page(ctx, url.Values{view.QueryExpand: {"GPT-X"}})
			So(err, ShouldBeNil)
			collapse, err := url.Parse(p.RowHref["GPT-X"])
			So(err, ShouldBeNil)
			So(collapse.Query()[view.QueryExpand], ShouldBeEmpty)
		})

		Convey("The system toggle flips the display mode", func() {
			p, err := s.Page(ctx, url.Values{view.QuerySystem: {"agent"}})
			So(err, ShouldBeNil)
			So(p.System.Label, ShouldEqual, "Show Backbone")
			So(p.Table.Rows[0].DisplayName, ShouldStartWith, view.DefaultAgentPrefix)
			toggle, _ := url.Parse(p.System.Href)
			So(toggle.Query().Get(view.QuerySystem), ShouldEqual, "backbone")
		})

		Convey("Tabs and metric selector mark the active entry", func() {
			p, err := s.Page(ctx, url.Values{view.QueryMetric: {view.ColEfficiency}})
			So(err, ShouldBeNil)
			So(p.Tabs, ShouldHaveLength, 3)
			So(p.Tabs[0].Active, ShouldBeTrue)
			So(p.Metrics, ShouldHaveLength, 3)
			So(p.Metrics[2].Active, ShouldBeTrue)
		})

		Convey("The filter form carries every other parameter", func() {
			p, err := s.Page(ctx, url.Values{view.QueryFilter: {"gpt"}})
			So(err, ShouldBeNil)
			for _, h := range p.Hidden {
				So(h.Name, ShouldNotEqual, view.QueryFilter)
			}
			So(len(p.Hidden), ShouldBeGreaterThanOrEqualTo, 4)
		})

		Convey("Write fails on a bad query", func() {
			var buf bytes.Buffer
			err := s.Write(ctx, &buf, url.Values{view.QueryDir: {"up"}})
			So(errors.Is(err, view.ErrBadDirection), ShouldBeTrue)
		})
	})

	Convey("Given an empty dataset", t, func() {
		empty, err := repository.NewSnapshot("empty", "v0", nil)
		So(err, ShouldBeNil)
		s, svc := newSite(empty)
		defer svc.Stop()

		Convey("The cards read n/a and the table is empty", func() {
			p, err := s.Page(context.Background(), url.Values{})
			So(err, ShouldBeNil)
			So(p.Cards[1].Value, ShouldEqual, "n/a")
			So(p.Table.Empty, ShouldBeTrue)
			So(p.Findings, ShouldBeEmpty)
		})
	})
}

func TestSiteErrors(t *testing.T) {
	Convey("Given site error constants", t, func() {
		So(site.ErrGenerate.Error(), ShouldEqual, "site generation failed")
		So(site.ErrServe.Error(), ShouldEqual, "site serve failed")
	})
}
