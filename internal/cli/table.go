package cli

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/internal/tui"
	"github.com/spf13/cobra"
)

type tableFlags struct {
	view   string
	metric string
	sort   string
	dir    string
	filter string
	system string
	expand []string
	json   bool
}

// query encodes the flags the way the site and API receive them.
func (f tableFlags) query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(view.QueryMetric, f.metric)
	set(view.QuerySort, f.sort)
	set(view.QueryDir, f.dir)
	set(view.QueryFilter, f.filter)
	set(view.QuerySystem, f.system)
	for _, m := range f.expand {
		q.Add(view.QueryExpand, m)
	}
	return q
}

func newTableCommand(rt *runtime) *cobra.Command {
	var f tableFlags
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print one leaderboard table",
		Example: "  contextbench table --metric line_f1\n" +
			"  contextbench table --view detail --sort cost --dir asc\n" +
			"  contextbench table --filter claude --system agent --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := rt.service(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			t, err := svc.Render(ctx, f.view, f.query())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if f.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(t)
			}
			fmt.Fprintln(out, t.Title)
			fmt.Fprintln(out, tui.RenderTable(t, -1))
			for _, r := range t.Rows {
				if r.Panel == nil {
					continue
				}
				fmt.Fprintf(out, "%s\n", r.DisplayName)
				for _, it := range append(r.Panel.Patterns, r.Panel.Dynamics...) {
					fmt.Fprintf(out, "  %-24s %s\n", it.Label, it.Text)
				}
			}
			if t.Note != "" {
				fmt.Fprintln(out, t.Note)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.view, "view", view.Leaderboard, "layout: leaderboard, retrieval or detail")
	flags.StringVar(&f.metric, "metric", "", "primary metric: pass_at_1, line_f1 or efficiency")
	flags.StringVar(&f.sort, "sort", "", "sort column id or model")
	flags.StringVar(&f.dir, "dir", "", "sort direction: asc or desc")
	flags.StringVar(&f.filter, "filter", "", "case-insensitive model name filter")
	flags.StringVar(&f.system, "system", "", "name display: backbone or agent")
	flags.StringSliceVar(&f.expand, "expand", nil, "models whose rows are expanded")
	flags.BoolVar(&f.json, "json", false, "print the table as JSON")
	return cmd
}
