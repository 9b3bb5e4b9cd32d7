package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/scheduling-assistant/cmd/mainconfig"
	"github.com/wolfman30/scheduling-assistant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/scheduling-assistant/internal/config"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

func main() {
	cfg := mainconfig.LoadEnv()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting reminder worker", "env", cfg.Env, "backend", cfg.ReminderBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("reminder worker failed", "error", err)
		os.Exit(1)
	}
	logger.Info("reminder worker stopped")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	if bootstrap.InProcessReminders(cfg) {
		return fmt.Errorf("reminder worker needs RECORD_BACKEND=postgres to read appointments written by the API")
	}
	awsCfg, err := mainconfig.OptionalAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	rt, err := bootstrap.Build(ctx, cfg, bootstrap.Options{
		Logger:     logger,
		Registerer: prometheus.NewRegistry(),
		AWS:        awsCfg,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	stop, err := rt.StartReminders(ctx)
	if err != nil {
		return err
	}
	<-ctx.Done()
	stop()
	return nil
}
