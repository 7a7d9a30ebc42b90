package cli

import (
	"fmt"

	"github.com/contextbench/leaderboard/internal/adapters/export"
	"github.com/contextbench/leaderboard/internal/adapters/http/site"
	"github.com/contextbench/leaderboard/pkg/logger"
	"github.com/spf13/cobra"
)

func newExportCommand(rt *runtime) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the static site, JSON and XLSX artifacts to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if out == "" {
				out = rt.cfg.ExportDir
			}

			svc, err := rt.service(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			page, err := site.New(svc)
			if err != nil {
				return err
			}
			paths, err := export.New(svc, export.WithPage(page), export.WithLogger(logger.Named("export"))).WriteDir(ctx, out)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (overrides config export_dir)")
	return cmd
}
