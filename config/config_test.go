package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, "default", cfg.App.Profile)
	assert.Equal(t, time.UTC, cfg.App.Location)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, "rnacademy", cfg.Storage.Namespace)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Empty(t, cfg.HTTP.APIKeyHashes)
	assert.Equal(t, 3, cfg.Storage.ConnectAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Storage.ConnectBackoff)
	assert.True(t, cfg.Events.Async)
	assert.Equal(t, 4, cfg.Events.Workers)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Almaty")
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("HTTP_API_KEY_HASHES", " $2a$10$abc , ,$2a$10$def")
	t.Setenv("REDIS_DIAL_TIMEOUT", "250ms")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Almaty", cfg.App.Location.String())
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, ":memory:", cfg.Storage.SQLite.Path)
	assert.Equal(t, []string{"$2a$10$abc", "$2a$10$def"}, cfg.HTTP.APIKeyHashes)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.Redis.DialTimeout)
	assert.Equal(t, 10, cfg.Storage.Postgres.MaxConns)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	t.Setenv("STORAGE_BACKEND", "floppy")
	t.Setenv("STORAGE_NAMESPACE", "a:b")
	t.Setenv("HTTP_PORT", "70000")
	t.Setenv("EVENTS_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "APP_TIMEZONE")
	assert.Contains(t, msg, "STORAGE_BACKEND")
	assert.Contains(t, msg, "STORAGE_NAMESPACE")
	assert.Contains(t, msg, "HTTP_PORT")
	assert.Contains(t, msg, "EVENTS_WORKERS")
}

func TestValidate_ProductionRules(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("HTTP_HOST", "0.0.0.0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")
	assert.Contains(t, err.Error(), "HTTP_API_KEY_HASHES")
}
