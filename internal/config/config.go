// Package config reads tsvcheck settings from environment variables. Field
// tags name the variable and its default; CLI flags may override the result
// before it is validated again.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Check   CheckConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// CheckConfig holds settings for a validation pass.
type CheckConfig struct {
	// RulesPath is the YAML rules file; empty means every column is accepted
	RulesPath string `env:"TSVCHECK_RULES"`

	// UnexpectedColumn is how cells beyond the known columns are reported: cell or fatal (default: cell)
	UnexpectedColumn string `env:"TSVCHECK_UNEXPECTED_COLUMN" default:"cell"`

	// Flexible allows records with differing field counts (default: false)
	Flexible bool `env:"TSVCHECK_FLEXIBLE" default:"false"`

	// StrictQuotes rejects bare quotes in unquoted fields (default: false)
	StrictQuotes bool `env:"TSVCHECK_STRICT_QUOTES" default:"false"`

	// MaxFailures stops a pass after this many failures, 0 for no limit (default: 0)
	MaxFailures int `env:"TSVCHECK_MAX_FAILURES" default:"0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 5m)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"5m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// MaxFileSize is the largest accepted upload in bytes (default: 100MB)
	MaxFileSize int64 `env:"SERVER_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the maximum number of checks running at once (default: 5)
	MaxConcurrent int `env:"SERVER_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long a request waits for a free check slot (default: 30s)
	MaxWaitTime time.Duration `env:"SERVER_MAX_WAIT_TIME" default:"30s"`

	// RateLimit is the number of requests allowed per client IP per minute, 0 disables (default: 100)
	RateLimit int `env:"SERVER_RATE_LIMIT" default:"100"`

	// TrustedProxies lists CIDRs whose X-Real-IP / X-Forwarded-For headers are believed
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES"`

	// APIKeys, when set, are required on /api routes (X-API-Key or Authorization: Bearer)
	APIKeys []string `env:"SERVER_API_KEYS"`
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
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
