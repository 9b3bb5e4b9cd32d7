package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/scheduling-assistant/cmd/mainconfig"
	"github.com/wolfman30/scheduling-assistant/internal/app/bootstrap"
	"github.com/wolfman30/scheduling-assistant/internal/availability"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

func main() {
	cfg := mainconfig.LoadEnv()
	from := flag.String("from", "", "first day of the schedule (YYYY-MM-DD, default today)")
	days := flag.Int("days", cfg.ScheduleDays, "number of calendar days to cover")
	dryRun := flag.Bool("dry-run", false, "print the generated slots as CSV instead of seeding")
	flag.Parse()

	logger := logging.New(cfg.LogLevel)
	cfg.ScheduleDays = *days

	start := time.Now()
	if *from != "" {
		parsed, err := time.Parse(availability.DateLayout, *from)
		if err != nil {
			logger.Error("invalid -from date", "value", *from, "error", err)
			os.Exit(2)
		}
		start = parsed
	}

	if *dryRun {
		slots, err := availability.Generate(availability.GenerateOptions{
			From:      start,
			Days:      cfg.ScheduleDays,
			Providers: cfg.ScheduleProviders,
			DayStart:  cfg.ScheduleDayStart,
			DayEnd:    cfg.ScheduleDayEnd,
		})
		if err != nil {
			logger.Error("generate schedule failed", "error", err)
			os.Exit(1)
		}
		if err := writeCSV(os.Stdout, slots); err != nil {
			logger.Error("write schedule failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx := context.Background()
	rt, err := bootstrap.Build(ctx, cfg, bootstrap.Options{Logger: logger, Registerer: prometheus.NewRegistry()})
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	inserted, err := rt.SeedSchedule(ctx, start)
	if err != nil {
		logger.Error("seed schedule failed", "error", err)
		os.Exit(1)
	}
	logger.Info("schedule seeded", "backend", cfg.GridBackend, "inserted", inserted, "from", start.Format(availability.DateLayout))
}

func writeCSV(w io.Writer, slots []availability.Slot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"doctor", "date", "time", "status"}); err != nil {
		return err
	}
	for _, s := range slots {
		if err := cw.Write([]string{s.Provider, s.Date(), s.Time(), string(s.Status)}); err != nil {
			return fmt.Errorf("write %s %s: %w", s.Provider, s.Date(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}
