package checksite

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	service "github.com/contextbench/leaderboard/internal/app"
	"github.com/contextbench/leaderboard/internal/cli"
	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func row(rank int, name string, value float64) view.Row {
	return view.Row{
		Rank:  rank,
		Model: name,
		Cells: []view.Cell{{Column: view.ColPassAt1, Value: value}},
	}
}

func table(rows ...view.Row) view.Table {
	return view.Table{
		View:      view.Leaderboard,
		Sort:      view.ColPassAt1,
		Direction: "desc",
		Rows:      rows,
		Total:     len(rows),
	}
}

func TestVerifyRanked(t *testing.T) {
	Convey("Given ranked tables", t, func() {
		Convey("A gapless descending table passes", func() {
			So(verifyRanked(table(row(1, "a", 0.5), row(2, "b", 0.5), row(3, "c", 0.1))), ShouldBeNil)
		})

		Convey("A rank gap fails", func() {
			err := verifyRanked(table(row(1, "a", 0.5), row(3, "b", 0.4)))
			So(errors.Is(err, ErrInvariant), ShouldBeTrue)
		})

		Convey("Rows out of order fail", func() {
			err := verifyRanked(table(row(1, "a", 0.3), row(2, "b", 0.4)))
			So(errors.Is(err, ErrInvariant), ShouldBeTrue)
		})

		Convey("Ascending order is honored", func() {
			tb := table(row(1, "a", 0.3), row(2, "b", 0.4))
			tb.Direction = "asc"
			So(verifyRanked(tb), ShouldBeNil)
		})

		Convey("Duplicate models fail", func() {
			err := verifyRanked(table(row(1, "a", 0.5), row(2, "a", 0.4)))
			So(errors.Is(err, ErrInvariant), ShouldBeTrue)
		})

		Convey("Model sort compares names", func() {
			tb := table(row(1, "b", 0), row(2, "a", 0))
			tb.Sort = view.ModelColumn
			So(verifyRanked(tb), ShouldBeNil)
			tb.Direction = "asc"
			So(errors.Is(verifyRanked(tb), ErrInvariant), ShouldBeTrue)
		})
	})
}

func TestVerifyExtremesAndFilter(t *testing.T) {
	Convey("Given highlighted cells", t, func() {
		a, b := row(1, "a", 0.5), row(2, "b", 0.4)
		a.Cells[0].Extremal = true

		So(verifyExtremes(table(a, b)), ShouldBeNil)
		b.Cells[0].Extremal = true
		So(errors.Is(verifyExtremes(table(a, b)), ErrInvariant), ShouldBeTrue)
	})

	Convey("Given a full and a filtered table", t, func() {
		full := table(row(1, "Claude-Y", 0.5), row(2, "GPT-X", 0.4), row(3, "claude-z", 0.3))

		So(verifyFilter(full, table(row(1, "Claude-Y", 0.5), row(2, "claude-z", 0.3)), "CLA"), ShouldBeNil)
		So(errors.Is(verifyFilter(full, table(row(1, "Claude-Y", 0.5)), "cla"), ErrInvariant), ShouldBeTrue)
		So(errors.Is(verifyFilter(full, table(row(1, "GPT-X", 0.4)), "gpt-x"), ErrInvariant), ShouldBeFalse)
	})

	Convey("Given a rank lookup", t, func() {
		full := table(row(1, "Claude-Y", 0.5), row(2, "GPT-X", 0.4))

		So(verifyRank(types.Entry{Rank: 2, Model: "GPT-X", Of: 2}, full), ShouldBeNil)
		So(errors.Is(verifyRank(types.Entry{Rank: 1, Model: "GPT-X", Of: 2}, full), ErrInvariant), ShouldBeTrue)
		So(errors.Is(verifyRank(types.Entry{Rank: 3, Model: "GPT-X", Of: 2}, full), ErrInvariant), ShouldBeTrue)
		So(errors.Is(verifyRank(types.Entry{Rank: 2, Model: "GPT-X", Of: 5}, full), ErrInvariant), ShouldBeTrue)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running server over the bundled dataset", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h, err := cli.NewHandler(context.Background(), svc)
		So(err, ShouldBeNil)
		srv := httptest.NewServer(h)
		defer srv.Close()

		cfg := &Config{BaseURL: srv.URL, Workers: 4, Timeout: 5 * time.Second}

		Convey("Every check passes", func() {
			report, err := Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(report.Failed(), ShouldBeEmpty)
			So(len(report.Results), ShouldBeGreaterThan, 8)

			info, _ := svc.Info(context.Background())
			So(report.Version, ShouldEqual, info.Version)

			var buf bytes.Buffer
			WriteReport(&buf, report)
			So(buf.String(), ShouldContainSubstring, "0 failed")
		})
	})

	Convey("Given a server that is down", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		report, err := Run(context.Background(), &Config{BaseURL: srv.URL, Workers: 1, Timeout: time.Second})
		So(errors.Is(err, ErrCheckFailed), ShouldBeTrue)
		So(report.Results, ShouldHaveLength, 1)
		So(report.Results[0].Check, ShouldEqual, "health")
	})

	Convey("Given a server that ranks badly", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {})
		mux.HandleFunc("/api/dataset", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"version":"v1","records":2}`))
		})
		mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"view":"leaderboard","sort":"model","direction":"asc","total":2,
				"rows":[{"rank":1,"model":"b"},{"rank":2,"model":"a"}]}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		report, err := Run(context.Background(), &Config{BaseURL: srv.URL, Workers: 1, Timeout: time.Second})
		So(errors.Is(err, ErrCheckFailed), ShouldBeTrue)

		var buf bytes.Buffer
		WriteReport(&buf, report)
		So(strings.Contains(buf.String(), "FAIL table/"), ShouldBeTrue)
	})
}

func TestSetupLogging(t *testing.T) {
	Convey("Logging can be sent to a writer", t, func() {
		var buf bytes.Buffer
		So(SetupLogging(&buf, "", true), ShouldBeNil)
		logger.Get().Debug(context.Background(), "probe")
		So(buf.String(), ShouldContainSubstring, "probe")
		So(logger.Init(), ShouldBeNil)
	})
}
