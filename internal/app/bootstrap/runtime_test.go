package bootstrap

import (
	"context"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/scheduling-assistant/internal/adminlog"
	"github.com/wolfman30/scheduling-assistant/internal/availability"
	appconfig "github.com/wolfman30/scheduling-assistant/internal/config"
	"github.com/wolfman30/scheduling-assistant/internal/notify"
	"github.com/wolfman30/scheduling-assistant/internal/reminders"
	"github.com/wolfman30/scheduling-assistant/internal/scheduling"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

func memoryConfig() *appconfig.Config {
	return &appconfig.Config{
		GridBackend:       "memory",
		RecordBackend:     "memory",
		EmailProvider:     "stub",
		ReminderBackend:   "store",
		AdminLogSink:      "log",
		ClinicTimezone:    "America/New_York",
		ScheduleDays:      7,
		ScheduleProviders: []string{"Dr. Chen"},
		ScheduleDayStart:  "09:00",
		ScheduleDayEnd:    "10:00",
	}
}

func buildMemory(t *testing.T, cfg *appconfig.Config) *Runtime {
	t.Helper()
	rt, err := Build(context.Background(), cfg, Options{
		Logger:     logging.NewWithWriter("error", io.Discard),
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestBuildRequiresConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestBuildMemoryRuntime(t *testing.T) {
	rt := buildMemory(t, memoryConfig())

	assert.Equal(t, "America/New_York", rt.Location.String())
	assert.IsType(t, &notify.StubEmailSender{}, rt.Email)
	assert.IsType(t, &reminders.MemoryStore{}, rt.ReminderStore)
	assert.IsType(t, &reminders.StoreScheduler{}, rt.Reminders)
	assert.IsType(t, &adminlog.LogAppender{}, rt.AdminLog)
	assert.Empty(t, rt.HealthChecks())
	assert.NotNil(t, rt.ReminderWorker())
}

func TestBuildRejectsUnknownBackends(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*appconfig.Config)
	}{
		{"grid", func(c *appconfig.Config) { c.GridBackend = "sheets" }},
		{"records", func(c *appconfig.Config) { c.RecordBackend = "excel" }},
		{"email", func(c *appconfig.Config) { c.EmailProvider = "pigeon" }},
		{"sendgrid without key", func(c *appconfig.Config) { c.EmailProvider = "sendgrid" }},
		{"ses without aws", func(c *appconfig.Config) { c.EmailProvider = "ses" }},
		{"reminders", func(c *appconfig.Config) { c.ReminderBackend = "cron" }},
		{"admin log", func(c *appconfig.Config) { c.AdminLogSink = "sheet" }},
		{"s3 admin log without aws", func(c *appconfig.Config) { c.AdminLogSink = "s3" }},
		{"timezone", func(c *appconfig.Config) { c.ClinicTimezone = "Mars/Olympus" }},
		{"postgres without url", func(c *appconfig.Config) { c.GridBackend = "postgres" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memoryConfig()
			tt.mutate(cfg)
			_, err := Build(context.Background(), cfg, Options{
				Logger:     logging.NewWithWriter("error", io.Discard),
				Registerer: prometheus.NewRegistry(),
			})
			assert.Error(t, err)
		})
	}
}

func TestBuildClosesOpenedConnectionsOnLaterFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.GridBackend = BackendRedis
	cfg.RedisAddr = mr.Addr()
	cfg.AdminLogSink = "sheet"

	rt, err := Build(context.Background(), cfg, Options{
		Logger:     logging.NewWithWriter("error", io.Discard),
		Registerer: prometheus.NewRegistry(),
	})
	require.Error(t, err)
	assert.Nil(t, rt)
	assert.Contains(t, err.Error(), "ADMIN_LOG_SINK")
	assert.Eventually(t, func() bool { return mr.CurrentConnectionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCloseOnNilRuntime(t *testing.T) {
	var rt *Runtime
	assert.NotPanics(t, rt.Close)
}

func TestRuntimeSeedAndBook(t *testing.T) {
	rt := buildMemory(t, memoryConfig())
	ctx := context.Background()

	// 2026-03-02 is a Monday; seven days hold five weekdays of three slots each.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	inserted, err := rt.SeedSchedule(ctx, from)
	require.NoError(t, err)
	assert.Equal(t, 15, inserted)

	again, err := rt.SeedSchedule(ctx, from)
	require.NoError(t, err)
	assert.Zero(t, again)

	svc := rt.SchedulingService()
	result := svc.BookSlot(ctx, scheduling.BookingRequest{
		FirstName: "Ana", LastName: "Lopez", DOB: "1990-04-12", Email: "ana@example.com",
		Provider: "Dr. Chen", SlotDate: "2026-03-02", SlotTime: "09:00", DurationMinutes: 60,
	})
	require.True(t, result.Succeeded(), result.Message)

	slots, err := rt.Grid.ListAvailable(ctx, "Dr. Chen", 1)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:00", slots[0].Time())
	assert.Equal(t, availability.StatusAvailable, slots[0].Status)
}
