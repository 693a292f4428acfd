package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// SlotGranularity is the cadence at which candidate slot start times are
	// offered, independent of service duration.
	SlotGranularity      time.Duration
	WorkingHoursCacheTTL time.Duration

	// ReminderLeadTime is how far before an appointment the reminder fires.
	// ReminderTolerance widens the selection band to cover the gap between
	// sweep runs.
	ReminderLeadTime   time.Duration
	ReminderTolerance  time.Duration
	SweepInterval      time.Duration
	SweepItemDelay     time.Duration
	OutboxPollInterval time.Duration

	IntentQueueURL      string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	RateLimitPerSecond float64
	RateLimitBurst     int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present, for local development.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SlotGranularity:      time.Duration(getEnvAsInt("SLOT_GRANULARITY_MINUTES", 30)) * time.Minute,
		WorkingHoursCacheTTL: getEnvAsDuration("WORKING_HOURS_CACHE_TTL", 10*time.Minute),

		ReminderLeadTime:   getEnvAsDuration("REMINDER_LEAD_TIME", 24*time.Hour),
		ReminderTolerance:  getEnvAsDuration("REMINDER_TOLERANCE", time.Hour),
		SweepInterval:      getEnvAsDuration("SWEEP_INTERVAL", 15*time.Minute),
		SweepItemDelay:     getEnvAsDuration("SWEEP_ITEM_DELAY", 0),
		OutboxPollInterval: getEnvAsDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),

		IntentQueueURL:      getEnv("INTENT_QUEUE_URL", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 40),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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
