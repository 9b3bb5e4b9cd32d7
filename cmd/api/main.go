package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/scheduling-assistant/cmd/mainconfig"
	"github.com/wolfman30/scheduling-assistant/internal/api/router"
	"github.com/wolfman30/scheduling-assistant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/scheduling-assistant/internal/config"
	"github.com/wolfman30/scheduling-assistant/internal/http/handlers"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

func main() {
	cfg := mainconfig.LoadEnv()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scheduling assistant API server", "env", cfg.Env, "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	awsCfg, err := mainconfig.OptionalAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	registry, metricsHandler := setupMetrics()

	rt, err := bootstrap.Build(ctx, cfg, bootstrap.Options{Logger: logger, Registerer: registry, AWS: awsCfg})
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.ScheduleSeedOnStart {
		inserted, err := rt.SeedSchedule(ctx, time.Now().In(rt.Location))
		if err != nil {
			return err
		}
		logger.Info("schedule seeded", "inserted", inserted, "days", cfg.ScheduleDays)
	}

	if bootstrap.InProcessReminders(cfg) {
		stopReminders, err := rt.StartReminders(ctx)
		if err != nil {
			return err
		}
		defer stopReminders()
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		Tools:              handlers.NewToolsHandler(rt.SchedulingService(), logger),
		AdminBookings:      handlers.NewAdminBookingsHandler(rt.AdminLog, rt.Appointments, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ToolsRateLimit:     cfg.ToolsRateLimit,
		ToolsRateBurst:     cfg.ToolsRateBurst,
		HealthChecks:       rt.HealthChecks(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupMetrics() (*prometheus.Registry, http.Handler) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
