package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/contextbench/leaderboard/internal/adapters/export"
	"github.com/contextbench/leaderboard/internal/adapters/http/api"
	"github.com/contextbench/leaderboard/internal/adapters/http/site"
	"github.com/contextbench/leaderboard/internal/adapters/http/swagger"
	service "github.com/contextbench/leaderboard/internal/app"
	"github.com/contextbench/leaderboard/pkg/logger"
)

// HTTP server timeouts not covered by configuration.
const (
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	compressLevel     = 5
)

func newServeCommand(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard site, JSON API and metrics",
		Long: "Serve the leaderboard site, JSON API and metrics.\n\n" +
			"SIGHUP reloads the dataset; SIGINT and SIGTERM shut down gracefully.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				rt.cfg.Addr = addr
			}
			return rt.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config addr)")
	return cmd
}

func (rt *runtime) serve(parent context.Context) error {
	// Our own system collector replaces the default Go and process metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.Get()

	svc, err := rt.service(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop()

	handler, err := NewHandler(ctx, svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              rt.cfg.Addr,
		Handler:           handler,
		ReadTimeout:       rt.cfg.ReadTimeout(),
		WriteTimeout:      rt.cfg.WriteTimeout(),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", rt.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), rt.cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(gctx, "server shutdown failed", logger.Error(err))
			return err
		}
		log.Info(gctx, "server stopped")
		return nil
	})
	g.Go(func() error {
		reloadOnHangup(gctx, svc)
		return nil
	})
	return g.Wait()
}

// reloadOnHangup reloads the dataset on every SIGHUP until ctx is done.
// A failed reload keeps the current dataset.
func reloadOnHangup(ctx context.Context, svc *service.Service) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := svc.Reload(ctx); err != nil {
				logger.Get().Error(ctx, "dataset reload failed", logger.Error(err))
			}
		}
	}
}

// NewHandler wires the site, the JSON API and the API docs behind the chi
// middleware stack.
func NewHandler(ctx context.Context, svc *service.Service) (http.Handler, error) {
	page, err := site.New(svc)
	if err != nil {
		return nil, err
	}
	exporter := export.New(svc, export.WithPage(page), export.WithLogger(logger.Named("export")))

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, exporter).Register(ctx, mux)
	page.Register(ctx, mux)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(compressLevel))
	r.Handle("/*", mux)
	return r, nil
}
