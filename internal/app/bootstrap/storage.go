package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/scheduling-assistant/internal/appointments"
	"github.com/wolfman30/scheduling-assistant/internal/availability"
	appconfig "github.com/wolfman30/scheduling-assistant/internal/config"
	"github.com/wolfman30/scheduling-assistant/internal/patients"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// Backend names accepted in configuration.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

func needsPostgres(cfg *appconfig.Config) bool {
	return cfg.GridBackend == BackendPostgres || cfg.RecordBackend == BackendPostgres
}

func needsRedis(cfg *appconfig.Config) bool {
	return cfg.GridBackend == BackendRedis
}

func (rt *Runtime) connect(ctx context.Context) error {
	cfg := rt.Config
	if needsPostgres(cfg) {
		pool, err := BuildPgxPool(ctx, cfg)
		if err != nil {
			return err
		}
		rt.Pool = pool
		rt.onClose(pool.Close)
	}
	if needsRedis(cfg) {
		client, err := BuildRedisClient(ctx, cfg, rt.Logger)
		if err != nil {
			return err
		}
		rt.Redis = client
		rt.onClose(func() { _ = client.Close() })
	}
	if cfg.ReminderBackend == "asynq" {
		client := asynq.NewClient(AsynqRedisOpt(cfg))
		rt.Asynq = client
		rt.onClose(func() { _ = client.Close() })
	}
	if cfg.AdminLogSink == BackendPostgres {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("bootstrap: open admin log db: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("bootstrap: ping admin log db: %w", err)
		}
		rt.SQLDB = db
		rt.onClose(func() { _ = db.Close() })
	}
	return nil
}

// BuildPgxPool opens and verifies a pgx pool for DATABASE_URL.
func BuildPgxPool(ctx context.Context, cfg *appconfig.Config) (*pgxpool.Pool, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres backend")
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return pool, nil
}

// BuildRedisClient returns a verified Redis client for the grid store.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil, fmt.Errorf("bootstrap: REDIS_ADDR is required for the redis backend")
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("bootstrap: ping redis: %w", err)
	}
	logger.Info("redis connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return client, nil
}

// AsynqRedisOpt points the reminder queue at its own Redis database.
func AsynqRedisOpt(cfg *appconfig.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.ReminderRedisDB,
	}
}

func (rt *Runtime) buildGrid() (*availability.Grid, error) {
	var store availability.Store
	switch rt.Config.GridBackend {
	case BackendMemory, "":
		store = availability.NewMemoryStore()
	case BackendPostgres:
		store = availability.NewPostgresStore(rt.Pool)
	case BackendRedis:
		store = availability.NewRedisStore(rt.Redis, rt.Config.RedisReserveRetries)
	default:
		return nil, fmt.Errorf("bootstrap: unknown GRID_BACKEND %q", rt.Config.GridBackend)
	}
	return availability.NewGrid(store, rt.Logger, rt.Metrics), nil
}

func (rt *Runtime) buildRecords() error {
	switch rt.Config.RecordBackend {
	case BackendMemory, "":
		rt.Patients = patients.NewInMemoryRepository()
		rt.Appointments = appointments.NewInMemoryRepository()
	case BackendPostgres:
		rt.Patients = patients.NewPostgresRepository(rt.Pool)
		rt.Appointments = appointments.NewPostgresRepository(rt.Pool)
	default:
		return fmt.Errorf("bootstrap: unknown RECORD_BACKEND %q", rt.Config.RecordBackend)
	}
	return nil
}
