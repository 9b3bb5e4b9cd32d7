package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration
	DatabaseURL     string
	GridBackend     string
	RecordBackend   string

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisReserveRetries int

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Confirmation email
	EmailProvider  string
	EmailFrom      string
	EmailFromName  string
	SendGridAPIKey string
	IntakeFormPath string

	// Reminders
	ReminderBackend  string
	ReminderPollSpec string
	ReminderRedisDB  int
	ClinicTimezone   string

	// Administrative booking log
	AdminLogSink   string
	AdminLogBucket string
	AdminJWTSecret string

	CORSAllowedOrigins []string
	ToolsRateLimit     float64
	ToolsRateBurst     int

	// Schedule generation
	ScheduleSeedOnStart bool
	ScheduleDays        int
	ScheduleProviders   []string
	ScheduleDayStart    string
	ScheduleDayEnd      string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		GridBackend:     strings.ToLower(strings.TrimSpace(getEnv("GRID_BACKEND", "memory"))),
		RecordBackend:   strings.ToLower(strings.TrimSpace(getEnv("RECORD_BACKEND", "memory"))),

		RedisAddr:           getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		RedisReserveRetries: getEnvAsInt("REDIS_RESERVE_RETRIES", 5),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		EmailFrom:      getEnv("EMAIL_FROM", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Clinic Scheduling"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		IntakeFormPath: getEnv("INTAKE_FORM_PATH", "New Patient Intake Form.pdf"),

		ReminderBackend:  strings.ToLower(strings.TrimSpace(getEnv("REMINDER_BACKEND", "store"))),
		ReminderPollSpec: getEnv("REMINDER_POLL_SPEC", "@every 1m"),
		ReminderRedisDB:  getEnvAsInt("REMINDER_REDIS_DB", 1),
		ClinicTimezone:   getEnv("CLINIC_TIMEZONE", "UTC"),

		AdminLogSink:   strings.ToLower(strings.TrimSpace(getEnv("ADMIN_LOG_SINK", "log"))),
		AdminLogBucket: getEnv("ADMIN_LOG_BUCKET", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		ToolsRateLimit:     getEnvAsFloat("TOOLS_RATE_LIMIT", 5),
		ToolsRateBurst:     getEnvAsInt("TOOLS_RATE_BURST", 20),

		ScheduleSeedOnStart: getEnvAsBool("SCHEDULE_SEED_ON_START", true),
		ScheduleDays:        getEnvAsInt("SCHEDULE_DAYS", 14),
		ScheduleProviders:   getEnvAsList("SCHEDULE_PROVIDERS", []string{"Dr. Mehta", "Dr. A. Rao", "Dr. Fernandiz", "Dr. Chen"}),
		ScheduleDayStart:    getEnv("SCHEDULE_DAY_START", "09:00"),
		ScheduleDayEnd:      getEnv("SCHEDULE_DAY_END", "17:00"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
