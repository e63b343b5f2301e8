package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cortexai/igs/internal/metrics"
	"github.com/cortexai/igs/internal/server"
	"github.com/cortexai/igs/internal/service"
	"github.com/cortexai/igs/internal/tools"
	"github.com/cortexai/igs/internal/version"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP query API",
	Long: `Starts the HTTP API. POST {"query": "..."} to <api_prefix>/query.
The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	setupLogging(cfg.LogLevel, false)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("version", version.String()).
		Str("environment", cfg.Environment).
		Str("search_provider", cfg.SearchProvider).
		Str("generative_provider", cfg.GenerativeProvider).
		Msg("starting igs")

	var (
		wrap []func(tools.Provider) tools.Provider
		opts []server.Option
	)
	if cfg.EnableMetrics {
		rec, handler, shutdown, err := metrics.Setup()
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("metrics shutdown")
			}
		}()
		wrap = append(wrap, rec.Instrument)
		opts = append(opts, server.WithMetrics(handler))
	}

	srv := server.New(cfg, service.NewDispatcherFromConfig(ctx, cfg, wrap...), opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			log.Info().Msg("shutdown signal received")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
