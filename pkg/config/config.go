package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Store drivers accepted in DATABASE_DRIVER.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	UserID    string

	// Task store. DatabaseDriver "none" means tasks only arrive in requests.
	DatabaseDriver   string
	DatabaseURL      string
	SQLitePath       string
	DatabaseMaxConns int

	// Redis backs user contexts and ML adjustments when set.
	RedisURL       string
	UserContextTTL time.Duration

	// Events
	EventsEnabled bool
	RabbitMQURL   string
	EventQueue    string

	// Worker health and metrics endpoint
	WorkerAddr string

	// HTTP API
	HTTPAddr        string
	RateLimitPerMin int

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Engine
	WeightProfilePath string

	// ML adjustment source breaker
	MLBreakerFailures int
	MLBreakerTimeout  time.Duration
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		UserID:    getEnv("TASKTUNER_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),

		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:       getEnv("REDIS_URL", ""),
		UserContextTTL: getDurationEnv("USER_CONTEXT_TTL", 24*time.Hour),

		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		EventQueue:    getEnv("EVENT_QUEUE", "tasktuner.rankings"),

		WorkerAddr: getEnv("WORKER_ADDR", "0.0.0.0:8081"),

		HTTPAddr:        getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		RateLimitPerMin: getIntEnv("RATE_LIMIT_PER_MIN", 120),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		WeightProfilePath: getEnv("WEIGHT_PROFILE_PATH", ""),

		MLBreakerFailures: getIntEnv("ML_BREAKER_FAILURES", 5),
		MLBreakerTimeout:  getDurationEnv("ML_BREAKER_TIMEOUT", 30*time.Second),
	}
	cfg.DatabaseDriver = resolveDriver(os.Getenv("DATABASE_DRIVER"), cfg.DatabaseURL, cfg.SQLitePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDriver honours an explicit driver, otherwise infers one from the
// configured locations.
func resolveDriver(explicit, url, sqlitePath string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case url != "", sqlitePath != "":
		return DriverSQLite
	default:
		return DriverNone
	}
}

// Validate checks values that would otherwise fail late at wiring time.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverNone, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER %q: want none, sqlite or postgres", c.DatabaseDriver)
	}
	if c.DatabaseDriver == DriverPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}
	if _, err := uuid.Parse(c.UserID); err != nil {
		return fmt.Errorf("invalid TASKTUNER_USER_ID: %w", err)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must not be negative")
	}
	if c.MLBreakerFailures < 1 {
		return fmt.Errorf("ML_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

// DefaultUserID returns the parsed TASKTUNER_USER_ID.
func (c *Config) DefaultUserID() uuid.UUID {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// HasTaskStore reports whether a task store is configured.
func (c *Config) HasTaskStore() bool {
	return c.DatabaseDriver != DriverNone
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
