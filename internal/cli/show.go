package cli

import (
	"fmt"

	"github.com/contextbench/leaderboard/internal/domain/types"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

func newShowCommand(rt *runtime) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show MODEL",
		Short: "Dump one model's results and its rank under every primary metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := rt.service(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			rec, err := svc.Record(ctx, args[0])
			if err != nil {
				return err
			}
			ranks := make([]types.Entry, 0, len(view.PrimaryMetrics))
			for _, m := range view.PrimaryMetrics {
				e, err := svc.Rank(ctx, rec.Model, m)
				if err != nil {
					return fmt.Errorf("rank %s by %s: %w", rec.Model, m, err)
				}
				ranks = append(ranks, e)
			}

			pp.ColoringEnabled = !plain
			out := cmd.OutOrStdout()
			if _, err := pp.Fprintln(out, rec); err != nil {
				return err
			}
			_, err = pp.Fprintln(out, ranks)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "no-color", false, "disable colored output")
	return cmd
}
