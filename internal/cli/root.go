// Package cli holds the cobra command tree of the leaderboard binary.
package cli

import (
	"context"
	"fmt"

	service "github.com/contextbench/leaderboard/internal/app"
	"github.com/contextbench/leaderboard/internal/config"
	"github.com/contextbench/leaderboard/internal/domain/view"
	"github.com/contextbench/leaderboard/pkg/logger"
	"github.com/spf13/cobra"
)

// DefaultTUILogFile receives logs while the TUI owns the terminal.
const DefaultTUILogFile = "contextbench-tui.log"

// runtime is the state shared by all commands of one invocation.
type runtime struct {
	cfgFile  string
	dataset  string
	logLevel string
	cfg      *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "contextbench",
		Short:         "contextbench serves and renders the ContextBench leaderboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&rt.cfgFile, "config", "c", "", "YAML config file (defaults to $"+config.EnvConfig+")")
	flags.StringVar(&rt.dataset, "dataset", "", "results JSON file (defaults to the bundled dataset)")
	flags.StringVar(&rt.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newServeCommand(rt),
		newExportCommand(rt),
		newTableCommand(rt),
		newTUICommand(rt),
		newValidateCommand(rt),
		newShowCommand(rt),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// setup loads the configuration, applies flag overrides and initializes
// logging. Flags win over file and env.
func (rt *runtime) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context(), rt.cfgFile)
	if err != nil {
		return err
	}
	if rt.dataset != "" {
		cfg.DatasetPath = rt.dataset
	}
	if rt.logLevel != "" {
		cfg.LogLevel = rt.logLevel
	}
	rt.cfg = cfg

	opts := []logger.Option{
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(cfg.LogFormat),
		logger.WithWriter(cmd.ErrOrStderr()),
	}
	switch {
	case cfg.LogFile != "":
		opts = append(opts, logger.WithFile(cfg.LogFile))
	case cmd.Name() == tuiCommand:
		opts = append(opts, logger.WithFile(DefaultTUILogFile))
	}
	if err := logger.Init(opts...); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	return nil
}

// service creates and starts a service from the loaded configuration.
func (rt *runtime) service(ctx context.Context) (*service.Service, error) {
	svc := service.New(
		service.WithDatasetPath(rt.cfg.DatasetPath),
		service.WithAgentPrefix(rt.cfg.AgentPrefix),
		service.WithDefaultSystem(view.System(rt.cfg.DefaultSystem)),
		service.WithDefaultMetric(rt.cfg.DefaultMetric),
		service.WithLogger(logger.Get()),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
