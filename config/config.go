// Package config loads the runtime configuration of the service from
// environment variables. The result is an explicit value handed to every
// component at startup; nothing in the repo reads the environment after that.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	pkgerrors "github.com/pkg/errors"
)

// Config holds all runtime configuration. Every field is bound to its
// environment variable by envconfig.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Events    EventsConfig

	// SecretKey is read for future auth work. No route uses it.
	SecretKey string `envconfig:"SECRET_KEY"`
}

type ServerConfig struct {
	Port    string `envconfig:"PORT" default:"8000"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`
}

// DatabaseConfig holds the connection URL and pool settings.
type DatabaseConfig struct {
	URL             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	PingTimeout     time.Duration `envconfig:"DB_PING_TIMEOUT" default:"5s"`
}

type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// CORSConfig lists what cross-origin callers may do. A single "*" entry
// means any value is accepted.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	AllowedMethods []string `envconfig:"CORS_ALLOWED_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `envconfig:"CORS_ALLOWED_HEADERS" default:"*"`
}

type RateLimitConfig struct {
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"100"`
	// RedisURL switches the limiter to a shared Redis counter when set.
	RedisURL string `envconfig:"REDIS_URL"`
}

type EventsConfig struct {
	AMQPURL   string `envconfig:"AMQP_URL"`
	AMQPQueue string `envconfig:"AMQP_QUEUE" default:"tables.events"`
}

// ErrMissingDatabaseURL is returned when DATABASE_URL is blank.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to process env config")
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, pkgerrors.Wrap(err, "config validation")
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Database.URL = strings.TrimSpace(c.Database.URL)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.CORS.AllowedOrigins = trimList(c.CORS.AllowedOrigins)
	c.CORS.AllowedMethods = trimList(c.CORS.AllowedMethods)
	c.CORS.AllowedHeaders = trimList(c.CORS.AllowedHeaders)
}

// Validate checks value ranges that cannot be expressed by parsing alone.
func (c Config) Validate() error {
	var errs []error

	if c.Database.URL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.Database.MaxOpenConns < 1 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DB_MAX_IDLE_CONNS must not be negative"))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
		}
		if c.RateLimit.Burst < 1 {
			errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1"))
		}
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must not be empty"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AllowsOrigin reports whether a browser origin may call the API.
func (c CORSConfig) AllowsOrigin(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
