package bootstrap

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/scheduling-assistant/internal/adminlog"
	"github.com/wolfman30/scheduling-assistant/internal/notify"
	"github.com/wolfman30/scheduling-assistant/internal/reminders"
)

func (rt *Runtime) buildEmailSender() (notify.EmailSender, error) {
	cfg := rt.Config
	switch cfg.EmailProvider {
	case "stub", "":
		return notify.NewStubEmailSender(rt.Logger), nil
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, rt.Logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return sender, nil
	case "ses":
		if rt.awsCfg == nil {
			return nil, fmt.Errorf("bootstrap: aws config is required for the ses provider")
		}
		return notify.NewSESSender(sesv2.NewFromConfig(*rt.awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, rt.Logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}

func (rt *Runtime) buildReminders() error {
	switch rt.Config.ReminderBackend {
	case "store", "":
		if rt.Pool != nil && rt.Config.RecordBackend == BackendPostgres {
			rt.ReminderStore = reminders.NewPostgresStore(rt.Pool)
		} else {
			rt.ReminderStore = reminders.NewMemoryStore()
		}
		rt.Reminders = reminders.NewStoreScheduler(rt.ReminderStore, rt.Location, rt.Logger)
	case "asynq":
		rt.Reminders = reminders.NewAsynqScheduler(rt.Asynq, rt.Location, rt.Logger)
	default:
		return fmt.Errorf("bootstrap: unknown REMINDER_BACKEND %q", rt.Config.ReminderBackend)
	}
	return nil
}

func (rt *Runtime) buildAdminLog() (adminlog.Log, error) {
	cfg := rt.Config
	switch cfg.AdminLogSink {
	case "log", "":
		return adminlog.NewLogAppender(0, rt.Logger), nil
	case "s3":
		if rt.awsCfg == nil {
			return nil, fmt.Errorf("bootstrap: aws config is required for the s3 admin log")
		}
		if cfg.AdminLogBucket == "" {
			return nil, fmt.Errorf("bootstrap: ADMIN_LOG_BUCKET is required for the s3 admin log")
		}
		client := s3.NewFromConfig(*rt.awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		return adminlog.NewS3Appender(client, cfg.AdminLogBucket, rt.Logger), nil
	case BackendPostgres:
		return adminlog.NewSQLAppender(rt.SQLDB), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown ADMIN_LOG_SINK %q", cfg.AdminLogSink)
	}
}
