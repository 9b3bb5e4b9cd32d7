// Package bootstrap wires the scheduling service's collaborators from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/scheduling-assistant/internal/adminlog"
	"github.com/wolfman30/scheduling-assistant/internal/api/router"
	"github.com/wolfman30/scheduling-assistant/internal/appointments"
	"github.com/wolfman30/scheduling-assistant/internal/availability"
	appconfig "github.com/wolfman30/scheduling-assistant/internal/config"
	"github.com/wolfman30/scheduling-assistant/internal/notify"
	"github.com/wolfman30/scheduling-assistant/internal/observability/metrics"
	"github.com/wolfman30/scheduling-assistant/internal/patients"
	"github.com/wolfman30/scheduling-assistant/internal/reminders"
	"github.com/wolfman30/scheduling-assistant/internal/scheduling"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// Options carries process-level dependencies the runtime does not build itself.
type Options struct {
	Logger     *logging.Logger
	Registerer prometheus.Registerer
	// AWS is required when EMAIL_PROVIDER=ses or ADMIN_LOG_SINK=s3.
	AWS *aws.Config
}

// Runtime holds every wired collaborator of the scheduling service.
type Runtime struct {
	Config   *appconfig.Config
	Logger   *logging.Logger
	Metrics  *metrics.BookingMetrics
	Location *time.Location

	Pool   *pgxpool.Pool
	SQLDB  *sql.DB
	Redis  *redis.Client
	Asynq  *asynq.Client
	awsCfg *aws.Config

	Grid          *availability.Grid
	Patients      patients.Repository
	Appointments  appointments.Repository
	Email         notify.EmailSender
	Confirmer     *notify.ConfirmationDispatcher
	ReminderStore reminders.Store
	Reminders     reminders.Scheduler
	AdminLog      adminlog.Log

	closers []func()
}

// Build connects to the configured backends and wires the collaborators.
// On error every connection opened so far is closed.
func Build(ctx context.Context, cfg *appconfig.Config, opts Options) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: clinic timezone %q: %w", cfg.ClinicTimezone, err)
	}

	rt := &Runtime{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.NewBookingMetrics(opts.Registerer),
		Location: loc,
		awsCfg:   opts.AWS,
	}
	if err := rt.wire(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	logger.Info("runtime ready",
		"grid_backend", cfg.GridBackend,
		"record_backend", cfg.RecordBackend,
		"email_provider", cfg.EmailProvider,
		"reminder_backend", cfg.ReminderBackend,
		"admin_log_sink", cfg.AdminLogSink,
		"clinic_timezone", loc.String(),
	)
	return rt, nil
}

func (rt *Runtime) wire(ctx context.Context) error {
	var err error
	if err = rt.connect(ctx); err != nil {
		return err
	}
	if rt.Grid, err = rt.buildGrid(); err != nil {
		return err
	}
	if err = rt.buildRecords(); err != nil {
		return err
	}
	if rt.Email, err = rt.buildEmailSender(); err != nil {
		return err
	}
	rt.Confirmer = notify.NewConfirmationDispatcher(rt.Email, rt.Config.IntakeFormPath, rt.Logger)
	if err = rt.buildReminders(); err != nil {
		return err
	}
	if rt.AdminLog, err = rt.buildAdminLog(); err != nil {
		return err
	}
	return nil
}

// SchedulingService builds the booking coordinator over the runtime's collaborators.
func (rt *Runtime) SchedulingService() *scheduling.Service {
	return scheduling.NewService(scheduling.Deps{
		Grid:         rt.Grid,
		Patients:     rt.Patients,
		Appointments: rt.Appointments,
		Confirmer:    rt.Confirmer,
		Reminders:    rt.Reminders,
		AdminLog:     rt.AdminLog,
		Metrics:      rt.Metrics,
		Logger:       rt.Logger,
	})
}

// ReminderWorker builds the worker that delivers reminders.
func (rt *Runtime) ReminderWorker() *reminders.Worker {
	return reminders.NewWorker(rt.ReminderStore, rt.Appointments, rt.Email, rt.Logger)
}

// SeedSchedule generates the configured schedule starting today and inserts
// the slots that do not exist yet.
func (rt *Runtime) SeedSchedule(ctx context.Context, from time.Time) (int, error) {
	slots, err := availability.Generate(availability.GenerateOptions{
		From:      from,
		Days:      rt.Config.ScheduleDays,
		Providers: rt.Config.ScheduleProviders,
		DayStart:  rt.Config.ScheduleDayStart,
		DayEnd:    rt.Config.ScheduleDayEnd,
	})
	if err != nil {
		return 0, fmt.Errorf("bootstrap: generate schedule: %w", err)
	}
	return rt.Grid.Seed(ctx, slots)
}

// HealthChecks returns a ping per connected backend.
func (rt *Runtime) HealthChecks() map[string]router.HealthCheck {
	checks := map[string]router.HealthCheck{}
	if rt.Pool != nil {
		checks["postgres"] = rt.Pool.Ping
	}
	if rt.SQLDB != nil {
		checks["admin_log_db"] = rt.SQLDB.PingContext
	}
	if rt.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return rt.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close releases every connection in reverse order of opening.
func (rt *Runtime) Close() {
	if rt == nil {
		return
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

func (rt *Runtime) onClose(fn func()) {
	rt.closers = append(rt.closers, fn)
}
