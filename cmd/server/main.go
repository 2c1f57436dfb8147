package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"linkgateway/internal/links"
	"linkgateway/internal/links/handler"
	"linkgateway/internal/platform/config"
	"linkgateway/internal/platform/httpserver"
	"linkgateway/internal/platform/logger"
	"linkgateway/internal/platform/metrics"
	"linkgateway/internal/registry"
	httptransport "linkgateway/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	m := metrics.New(prometheus.DefaultRegisterer)

	client := registry.New(cfg.Registry.BaseURL, cfg.Registry.APIKey, cfg.Registry.Timeout, log,
		registry.WithObserver(m))
	if !client.APIKeyConfigured() {
		log.Warn("registry API key not configured; link operations will fail until GRP_API_KEY is set")
	}

	svc := links.New(client,
		links.WithLogger(log),
		links.WithMetrics(m),
		links.WithDefaultVersion(cfg.Registry.DefaultVersion),
		links.WithPreferredLanguage(cfg.PreferredLanguage),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
		Links:     handler.New(svc, log),
		Readiness: client,
	})
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting link gateway",
			"addr", cfg.Addr,
			"registry", cfg.Registry.BaseURL,
			"registry_version", cfg.Registry.DefaultVersion.String(),
			"static_dir", cfg.StaticDir,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down link gateway")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
