package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Store.validate(),
		c.Client.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if s.HandlerTimeout < 0 {
		errs = append(errs, errors.New("server.handler_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (st *StoreConfig) validate() error {
	var errs []error

	switch st.Driver {
	case DriverMemory:
	case DriverPostgres:
		if st.Postgres.DSN == "" {
			errs = append(errs, errors.New("store.postgres.dsn must not be empty when driver is postgres"))
		}
	case DriverAzTable:
		if st.AzTable.ConnectionString == "" {
			errs = append(errs, errors.New("store.aztable.connection_string must not be empty when driver is aztable"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of: %s, %s, %s; got %q",
			DriverMemory, DriverPostgres, DriverAzTable, st.Driver))
	}

	if !validTableName(st.TableName) {
		errs = append(errs, fmt.Errorf(
			"store.table_name must be 3-63 alphanumeric characters starting with a letter, got %q", st.TableName))
	}
	if st.PageSize < 1 || st.PageSize > maxPageSize {
		errs = append(errs, fmt.Errorf("store.page_size must be between 1 and %d, got %d", maxPageSize, st.PageSize))
	}

	return errors.Join(errs...)
}

// maxPageSize is the largest page a single table query may return.
const maxPageSize = 1000

// validTableName reports whether name is usable by every store driver:
// Azure table naming rules, which are also a safe SQL identifier.
func validTableName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit.requests_per_second must not be negative, got %f",
			cl.RateLimit.RequestsPerSecond))
	}
	if cl.RateLimit.RequestsPerSecond > 0 && cl.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("client.rate_limit.burst_size must be >= 1 when rate limiting, got %d",
			cl.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case ExporterStdout:
	case ExporterOTLP:
		if t.Endpoint == "" {
			errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
		}
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: %s, %s; got %q", ExporterStdout, ExporterOTLP, t.Exporter))
	}

	return errors.Join(errs...)
}
