// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Key-value store backend
	Storage StorageConfig

	// REST API
	HTTP HTTPConfig

	// Logging and metrics
	Observability ObservabilityConfig

	// In-process event bus
	Events EventsConfig
}

// AppConfig contains general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Version     string

	// Timezone decides where "today" starts for streaks.
	Timezone string
	Location *time.Location

	// Profile is the learner profile CLI commands act on.
	Profile string

	// CurriculumPath overrides the built-in catalog when set.
	CurriculumPath string

	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the key-value store.
type StorageConfig struct {
	Backend string

	// Namespace is the first segment of every key.
	Namespace string

	// ConnectAttempts bounds connection retries for redis and postgres;
	// ConnectBackoff is the delay before the first retry, doubling after.
	ConnectAttempts int
	ConnectBackoff  time.Duration

	Badger   BadgerConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
}

// BadgerConfig configures the embedded store.
type BadgerConfig struct {
	Path           string
	InMemory       bool
	SyncWrites     bool
	GCInterval     time.Duration
	GCDiscardRatio float64
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	URL             string
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Path is a file path or ":memory:".
	Path string
}

// HTTPConfig contains REST API settings.
type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	EnableCORS     bool
	AllowedOrigins []string
	APIKeyHeader   string

	// APIKeyHashes are bcrypt hashes; the plain keys are never configured.
	APIKeyHashes []string
}

// ObservabilityConfig contains logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// EventsConfig tunes event delivery for the HTTP server. CLI commands always
// dispatch synchronously so notifications are ready when the command prints.
type EventsConfig struct {
	Async   bool
	Workers int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App:           loadAppConfig(),
		Storage:       loadStorageConfig(),
		HTTP:          loadHTTPConfig(),
		Observability: loadObservabilityConfig(),
		Events:        loadEventsConfig(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	timezone := getEnv("APP_TIMEZONE", "Local")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = nil
	}

	return AppConfig{
		Name:            getEnv("APP_NAME", "rn-academy"),
		Environment:     Environment(getEnv("APP_ENV", string(EnvDevelopment))),
		Version:         getEnv("APP_VERSION", "dev"),
		Timezone:        timezone,
		Location:        loc,
		Profile:         getEnv("APP_PROFILE", "default"),
		CurriculumPath:  getEnv("CURRICULUM_PATH", ""),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", BackendBadger)),
		Namespace:       getEnv("STORAGE_NAMESPACE", "rnacademy"),
		ConnectAttempts: getEnvInt("STORAGE_CONNECT_ATTEMPTS", 3),
		ConnectBackoff:  getEnvDuration("STORAGE_CONNECT_BACKOFF", 200*time.Millisecond),
		Badger: BadgerConfig{
			Path:           getEnv("BADGER_PATH", "./data/progress"),
			InMemory:       getEnvBool("BADGER_IN_MEMORY", false),
			SyncWrites:     getEnvBool("BADGER_SYNC_WRITES", true),
			GCInterval:     getEnvDuration("BADGER_GC_INTERVAL", 10*time.Minute),
			GCDiscardRatio: getEnvFloat("BADGER_GC_DISCARD_RATIO", 0.5),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "rnacademy"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
			ConnectTimeout:  getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "./data/progress.db"),
		},
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:           getEnv("HTTP_HOST", "127.0.0.1"),
		Port:           getEnvInt("HTTP_PORT", 8080),
		ReadTimeout:    getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		EnableCORS:     getEnvBool("HTTP_ENABLE_CORS", true),
		AllowedOrigins: getEnvStringSlice("HTTP_ALLOWED_ORIGINS", []string{"*"}),
		APIKeyHeader:   getEnv("HTTP_API_KEY_HEADER", "X-API-Key"),
		APIKeyHashes:   getEnvStringSlice("HTTP_API_KEY_HASHES", nil),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

func loadEventsConfig() EventsConfig {
	return EventsConfig{
		Async:   getEnvBool("EVENTS_ASYNC", true),
		Workers: getEnvInt("EVENTS_WORKERS", 4),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Location == nil {
		errs = append(errs, fmt.Sprintf("APP_TIMEZONE %q is not a known time zone", c.App.Timezone))
	}
	if c.App.Profile == "" {
		errs = append(errs, "APP_PROFILE cannot be empty")
	}

	switch c.Storage.Backend {
	case BackendMemory:
		if c.App.Environment == EnvProduction {
			errs = append(errs, "STORAGE_BACKEND=memory loses all progress on exit and is not allowed in production")
		}
	case BackendBadger:
		if !c.Storage.Badger.InMemory && c.Storage.Badger.Path == "" {
			errs = append(errs, "BADGER_PATH is required")
		}
		if r := c.Storage.Badger.GCDiscardRatio; r <= 0 || r >= 1 {
			errs = append(errs, "BADGER_GC_DISCARD_RATIO must be between 0 and 1")
		}
	case BackendRedis:
		if c.Storage.Redis.Host == "" {
			errs = append(errs, "REDIS_HOST is required")
		}
	case BackendPostgres:
		if c.Storage.Postgres.URL == "" && c.Storage.Postgres.Host == "" {
			errs = append(errs, "DATABASE_URL or DB_HOST is required")
		}
	case BackendSQLite:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, "SQLITE_PATH is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_BACKEND %q is not one of memory, badger, redis, postgres, sqlite", c.Storage.Backend))
	}

	if strings.Contains(c.Storage.Namespace, ":") || c.Storage.Namespace == "" {
		errs = append(errs, "STORAGE_NAMESPACE must be non-empty and cannot contain ':'")
	}

	if c.Events.Async && c.Events.Workers < 1 {
		errs = append(errs, "EVENTS_WORKERS must be at least 1 when EVENTS_ASYNC is on")
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, "HTTP_PORT must be 1-65535")
	}
	if c.App.Environment == EnvProduction && len(c.HTTP.APIKeyHashes) == 0 && c.HTTP.Host != "127.0.0.1" {
		errs = append(errs, "HTTP_API_KEY_HASHES is required in production when HTTP_HOST is not loopback")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
