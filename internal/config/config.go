// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Webhook WebhookConfig
	Auth    AuthConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 4000)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"4000"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 5m,
	// long enough to cover a full delivery retry sequence)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"5m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 5m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// UploadConfig holds upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`
}

// WebhookConfig holds data-platform webhook delivery settings.
type WebhookConfig struct {
	// BaseURL is the webhook endpoint for event delivery
	BaseURL string `env:"DATALAKE_WEBHOOK_URL" default:"https://data-platform-webhook.curefit.co/backend-datalake-kafka"`

	// Timeout bounds each individual webhook POST (default: 30s)
	Timeout time.Duration `env:"DATALAKE_WEBHOOK_TIMEOUT" default:"30s"`

	// BatchSize is the number of events per delivery call (default: 200)
	BatchSize int `env:"WEBHOOK_BATCH_SIZE" default:"200"`

	// MaxAttempts is the retry budget per batch (default: 3)
	MaxAttempts int `env:"WEBHOOK_MAX_ATTEMPTS" default:"3"`

	// RetryDelay is the linear backoff unit between attempts (default: 500ms)
	RetryDelay time.Duration `env:"WEBHOOK_RETRY_DELAY" default:"500ms"`
}

// AuthConfig holds session authentication settings.
type AuthConfig struct {
	// Require controls whether API requests must carry a session token
	// (default: true). Disable only for local development.
	Require bool `env:"AUTH_REQUIRED" default:"true"`

	// Secret is the HMAC key used to verify session JWTs. Required when
	// Require is true.
	Secret string `env:"SESSION_JWT_SECRET"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
