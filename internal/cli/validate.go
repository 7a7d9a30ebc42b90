package cli

import (
	"errors"
	"fmt"

	repository "github.com/contextbench/leaderboard/internal/adapters/repository"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrValidation is returned when the checked dataset is invalid.
var ErrValidation = errors.New("dataset validation failed")

func newValidateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check a results file against the dataset schema",
		Long: "Check a results file against the dataset schema and decode it.\n\n" +
			"Without FILE the configured dataset_path is checked, or the bundled dataset.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rt.cfg.DatasetPath
			if len(args) == 1 {
				path = args[0]
			}

			source := repository.EmbeddedSource
			if path != "" {
				source = path
			}
			snap, err := repository.Load(cmd.Context(), path)

			out := cmd.OutOrStdout()
			ok := color.New(color.FgGreen, color.Bold)
			bad := color.New(color.FgRed, color.Bold)

			var verr *repository.ValidationError
			switch {
			case errors.As(err, &verr):
				bad.Fprintf(out, "✗ %s: %d problem(s)\n", source, len(verr.Problems))
				for _, p := range verr.Problems {
					fmt.Fprintf(out, "  - %s\n", p)
				}
				return fmt.Errorf("%w: %s", ErrValidation, source)
			case err != nil:
				bad.Fprintf(out, "✗ %s: %v\n", source, err)
				return fmt.Errorf("%w: %w", ErrValidation, err)
			}
			ok.Fprintf(out, "✓ %s: %d records, version %s\n", source, snap.Len(), snap.Version())
			return nil
		},
	}
}
