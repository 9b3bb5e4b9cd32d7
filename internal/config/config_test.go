package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GRID_BACKEND", "")
	t.Setenv("SCHEDULE_PROVIDERS", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.GridBackend != "memory" {
		t.Fatalf("expected memory grid backend by default, got %s", cfg.GridBackend)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if cfg.ScheduleDays != 14 {
		t.Fatalf("expected 14 schedule days, got %d", cfg.ScheduleDays)
	}
	want := []string{"Dr. Mehta", "Dr. A. Rao", "Dr. Fernandiz", "Dr. Chen"}
	if !reflect.DeepEqual(cfg.ScheduleProviders, want) {
		t.Fatalf("expected default providers %v, got %v", want, cfg.ScheduleProviders)
	}
	if cfg.IntakeFormPath != "New Patient Intake Form.pdf" {
		t.Fatalf("expected default intake form path, got %s", cfg.IntakeFormPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("GRID_BACKEND", " Postgres ")
	t.Setenv("REDIS_RESERVE_RETRIES", "9")
	t.Setenv("TOOLS_RATE_LIMIT", "2.5")
	t.Setenv("SCHEDULE_SEED_ON_START", "false")
	t.Setenv("SCHEDULE_PROVIDERS", "Dr. Chen, ,Dr. Mehta")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.GridBackend != "postgres" {
		t.Fatalf("expected normalized grid backend, got %q", cfg.GridBackend)
	}
	if cfg.RedisReserveRetries != 9 {
		t.Fatalf("expected retries override, got %d", cfg.RedisReserveRetries)
	}
	if cfg.ToolsRateLimit != 2.5 {
		t.Fatalf("expected rate override, got %v", cfg.ToolsRateLimit)
	}
	if cfg.ScheduleSeedOnStart {
		t.Fatalf("expected seeding disabled")
	}
	if !reflect.DeepEqual(cfg.ScheduleProviders, []string{"Dr. Chen", "Dr. Mehta"}) {
		t.Fatalf("unexpected providers %v", cfg.ScheduleProviders)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected shutdown override, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SCHEDULE_DAYS", "two weeks")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	cfg := Load()
	if cfg.ScheduleDays != 14 {
		t.Fatalf("expected fallback schedule days, got %d", cfg.ScheduleDays)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected fallback shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
}
