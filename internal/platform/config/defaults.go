package config

const (
	defaultServerPort = 8080

	defaultStorePageSize      = 1000
	defaultPostgresMaxOpen    = 10
	defaultPostgresMaxIdle    = 5
	defaultRetryMaxAttempts   = 3
	defaultRetryMultiplier    = 2.0
	defaultRateLimitBurstSize = 10

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
// Every key that env vars may override must appear here so the env lookup can
// resolve it.
func defaults() map[string]any {
	return map[string]any{
		"server.host":             "0.0.0.0",
		"server.port":             defaultServerPort,
		"server.read_timeout":     "5s",
		"server.write_timeout":    "10s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.handler_timeout":  "0s",

		"log.level":  "info",
		"log.format": "json",

		"store.driver":                     DriverMemory,
		"store.table_name":                 "todos",
		"store.page_size":                  defaultStorePageSize,
		"store.auto_provision":             true,
		"store.postgres.dsn":               "",
		"store.postgres.max_open_conns":    defaultPostgresMaxOpen,
		"store.postgres.max_idle_conns":    defaultPostgresMaxIdle,
		"store.postgres.conn_max_lifetime": "30m",
		"store.aztable.connection_string":  "",

		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0.0,
		"client.rate_limit.burst_size":           defaultRateLimitBurstSize,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "tabletodo-service",
	}
}
