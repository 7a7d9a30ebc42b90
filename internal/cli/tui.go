package cli

import (
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/internal/tui"
	"github.com/spf13/cobra"
)

const tuiCommand = "tui"

func newTUICommand(rt *runtime) *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:   tuiCommand,
		Short: "Browse the leaderboard interactively",
		Long: "Browse the leaderboard interactively.\n\n" +
			"Logs go to log_file, or to " + DefaultTUILogFile + " when unset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := rt.service(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			records, err := svc.Records(ctx)
			if err != nil {
				return err
			}
			m, err := tui.New(records, svc.AgentPrefix(),
				tui.WithLayout(layout),
				tui.WithSystem(view.System(rt.cfg.DefaultSystem)),
				tui.WithMetric(rt.cfg.DefaultMetric),
			)
			if err != nil {
				return err
			}
			return tui.Run(ctx, m)
		},
	}
	cmd.Flags().StringVar(&layout, "view", view.Leaderboard, "initial layout: leaderboard, retrieval or detail")
	return cmd
}
