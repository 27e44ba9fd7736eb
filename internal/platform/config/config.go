// Package config provides configuration loading and validation for the service.
// Configuration is loaded from built-in defaults and YAML files with
// environment variable overrides using a layered system:
// defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Store     StoreConfig     `koanf:"store"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// ShutdownTimeout bounds the wait for in-flight requests on shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// HandlerTimeout caps each request's context. Zero disables the
	// timeout middleware and leaves the request context untouched.
	HandlerTimeout time.Duration `koanf:"handler_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Store drivers accepted by StoreConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverAzTable  = "aztable"
)

// StoreConfig selects and configures the table store backend.
type StoreConfig struct {
	Driver    string `koanf:"driver"`
	TableName string `koanf:"table_name"`

	// PageSize is the number of entities a partition query returns. Only
	// the first page is ever read.
	PageSize int `koanf:"page_size"`

	// AutoProvision creates the table at startup when it does not exist.
	AutoProvision bool `koanf:"auto_provision"`

	Postgres PostgresConfig `koanf:"postgres"`
	AzTable  AzTableConfig  `koanf:"aztable"`
}

// PostgresConfig holds settings for the PostgreSQL-backed table store.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// AzTableConfig holds settings for the Azure Table Storage backend.
type AzTableConfig struct {
	ConnectionString string `koanf:"connection_string"`
}

// ClientConfig holds settings for the outbound HTTP transport used by the
// Azure Table Storage backend.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds client-side rate limiting settings.
// A zero RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// Telemetry exporters accepted by TelemetryConfig.Exporter.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
