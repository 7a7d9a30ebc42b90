package checksite

import (
	"fmt"
	"io"

	"github.com/contextbench/leaderboard/pkg/logger"
)

// SetupLogging initializes the global logger for a check run. Logs go to
// logFile when set, otherwise to w.
func SetupLogging(w io.Writer, logFile string, verbose bool) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	opts := []logger.Option{logger.WithWriter(w), logger.WithLevel(level)}
	if logFile != "" {
		opts = append(opts, logger.WithFile(logFile))
	}
	if err := logger.Init(opts...); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// WriteReport prints one line per check followed by a summary.
func WriteReport(w io.Writer, r Report) {
	for _, res := range r.Results {
		mark := "ok  "
		if !res.OK {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "%s %s", mark, res.Check)
		if res.Detail != "" {
			fmt.Fprintf(w, ": %s", res.Detail)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d checks, %d failed, dataset %s, %s\n",
		len(r.Results), len(r.Failed()), r.Version, r.Duration.Round(1e6))
}
