package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	appconfig "github.com/wolfman30/scheduling-assistant/internal/config"
	"github.com/wolfman30/scheduling-assistant/internal/reminders"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// InProcessReminders reports whether reminders must be delivered by the API
// process itself. In-memory appointment records are invisible to a separate
// worker, so every reminder backend needs an in-process consumer then.
func InProcessReminders(cfg *appconfig.Config) bool {
	return cfg.RecordBackend != BackendPostgres
}

// StartReminders starts the configured reminder consumer: the cron polling
// worker for the store backend, or an asynq server for the queue backend.
// The returned func stops it.
func (rt *Runtime) StartReminders(ctx context.Context) (func(), error) {
	worker := rt.ReminderWorker()
	switch rt.Config.ReminderBackend {
	case "asynq":
		srv := NewReminderServer(rt.Config, rt.Logger)
		if err := srv.Start(reminders.NewServeMux(reminders.NewTaskHandler(worker))); err != nil {
			return nil, fmt.Errorf("bootstrap: start asynq server: %w", err)
		}
		rt.Logger.Info("reminder queue consumer started", "redis_db", rt.Config.ReminderRedisDB)
		return srv.Shutdown, nil
	case "store", "":
		if err := worker.Start(ctx, rt.Config.ReminderPollSpec); err != nil {
			return nil, err
		}
		return worker.Stop, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown REMINDER_BACKEND %q", rt.Config.ReminderBackend)
	}
}

// NewReminderServer builds the asynq server that consumes reminder tasks.
func NewReminderServer(cfg *appconfig.Config, logger *logging.Logger) *asynq.Server {
	return asynq.NewServer(AsynqRedisOpt(cfg), asynq.Config{
		Concurrency: 5,
		Logger:      newAsynqLogger(logger),
	})
}

// asynqLogger routes asynq's internal logs through the service logger.
type asynqLogger struct {
	logger *logging.Logger
}

func newAsynqLogger(logger *logging.Logger) *asynqLogger {
	if logger == nil {
		logger = logging.Default()
	}
	return &asynqLogger{logger: logger.Component("asynq")}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
