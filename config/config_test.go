package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SECRET_KEY", "PORT", "GIN_MODE",
	"DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_PING_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT",
	"CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_METHODS", "CORS_ALLOWED_HEADERS",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REDIS_URL",
	"AMQP_URL", "AMQP_QUEUE",
}

// setEnv clears every variable Load reads, then sets env. t.Setenv restores
// the previous values when the test ends.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	for key, val := range env {
		t.Setenv(key, val)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_URL": "postgres://localhost/billar"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/billar", cfg.Database.URL)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Addr())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Database.PingTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}, cfg.CORS.AllowedMethods)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 50.0, cfg.RateLimit.RPS)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.RateLimit.RedisURL)
	assert.Equal(t, "tables.events", cfg.Events.AMQPQueue)
	assert.Empty(t, cfg.SecretKey)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":         "postgres://localhost/billar",
		"SECRET_KEY":           "s3cret",
		"PORT":                 "9090",
		"LOG_LEVEL":            "DEBUG",
		"LOG_FORMAT":           "json",
		"DB_CONN_MAX_LIFETIME": "5m",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000, http://127.0.0.1:3000",
		"RATE_LIMIT_ENABLED":   "false",
		"REDIS_URL":            "redis://localhost:6379/0",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RateLimit.RedisURL)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setEnv(t, map[string]string{})
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	setEnv(t, map[string]string{"DATABASE_URL": "   "})
	_, err = Load()
	assert.True(t, errors.Is(err, ErrMissingDatabaseURL))
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad int", "DB_MAX_OPEN_CONNS", "many"},
		{"bad duration", "DB_PING_TIMEOUT", "soon"},
		{"bad bool", "RATE_LIMIT_ENABLED", "maybe"},
		{"bad rps", "RATE_LIMIT_RPS", "fast"},
		{"zero burst", "RATE_LIMIT_BURST", "0"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, map[string]string{
				"DATABASE_URL": "postgres://localhost/billar",
				tt.key:         tt.val,
			})
			_, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate_DirectConfig(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: "8000"},
		Database:  DatabaseConfig{URL: "file::memory:", MaxOpenConns: 1},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		CORS:      CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: RateLimitConfig{Enabled: false},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Database.MaxOpenConns = 0
	assert.ErrorContains(t, cfg.Validate(), "DB_MAX_OPEN_CONNS")
}

func TestCORSConfig_AllowsOrigin(t *testing.T) {
	restricted := CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	assert.True(t, restricted.AllowsOrigin("http://LOCALHOST:3000"))
	assert.False(t, restricted.AllowsOrigin("http://evil.example"))
	assert.True(t, CORSConfig{AllowedOrigins: []string{"*"}}.AllowsOrigin("http://any"))
}
