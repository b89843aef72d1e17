package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpserver "github.com/rn-academy/progress-hub/internal/interface/http"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API for the mobile app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			cfg := a.cfg

			srvCfg := httpserver.DefaultConfig()
			srvCfg.Host = cfg.HTTP.Host
			srvCfg.Port = cfg.HTTP.Port
			srvCfg.ReadTimeout = cfg.HTTP.ReadTimeout
			srvCfg.WriteTimeout = cfg.HTTP.WriteTimeout
			srvCfg.IdleTimeout = cfg.HTTP.IdleTimeout
			srvCfg.EnableCORS = cfg.HTTP.EnableCORS
			srvCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
			srvCfg.APIKeyHeader = cfg.HTTP.APIKeyHeader
			srvCfg.APIKeyHashes = cfg.HTTP.APIKeyHashes
			if cmd.Flags().Changed("host") {
				srvCfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				srvCfg.Port = port
			}

			deps := httpserver.Dependencies{
				Progress: a.progress,
				Planner:  a.planner,
				Queries:  a.queries,
				Health:   a.health,
				Logger:   a.log,
			}
			if cfg.Observability.MetricsEnabled {
				deps.Metrics = a.metrics.Handler()
			}
			if len(srvCfg.APIKeyHashes) == 0 {
				a.log.Warn("API key auth disabled, set HTTP_API_KEY_HASHES to enable it")
			}

			return runServer(cmd.Context(), httpserver.NewServer(srvCfg, deps), cfg.App.ShutdownTimeout, a.log)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default HTTP_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default HTTP_PORT)")

	// serve logs notifications instead of printing them
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		c.serving = true
		return c.setup(cmd.Context())
	}
	return cmd
}

// runServer serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down within timeout.
func runServer(ctx context.Context, srv *httpserver.Server, timeout time.Duration, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested", logger.Duration("timeout", timeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
