package config

import "time"

// Config is the root configuration structure for the Aegis governance service.
// It contains all configuration sections for the API server, policy store,
// classifier integration, audit logging, telemetry, and authentication.
type Config struct {
	// Server contains HTTP API server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Policy contains configuration for the policy store including backend
	// selection and watch mode.
	Policy PolicyConfig `yaml:"policy"`

	// Classifier contains configuration for the external text-classification
	// capability used for model-assisted scoring.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Audit contains configuration for audit record storage and retention.
	Audit AuditConfig `yaml:"audit"`

	// Auth contains authentication configuration including static tokens
	// and demo-token mode.
	Auth AuthConfig `yaml:"auth"`

	// Telemetry contains observability configuration (logging, metrics).
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// PolicyConfig contains configuration for the policy store.
type PolicyConfig struct {
	// Backend selects the policy store backend ("file", "sqlite", "memory").
	// Default: "file"
	Backend string `yaml:"backend"`

	// Path is the policy directory (file backend) or database path
	// (sqlite backend).
	// Default: "policies/"
	Path string `yaml:"path"`

	// Watch enables hot-reload of policy files on change (file backend only).
	// Policy edits take effect on the very next request.
	// Default: true
	Watch bool `yaml:"watch"`

	// MaxFileSize is the maximum size of a single policy file in bytes.
	// Default: 1048576 (1MB)
	MaxFileSize int64 `yaml:"max_file_size"`
}

// ClassifierConfig contains configuration for the external text-classification
// capability. The classifier is optional; when disabled or unreachable every
// model-assisted score degrades to its documented neutral default.
type ClassifierConfig struct {
	// Enabled controls whether the external classifier is called at all.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// BaseURL is the base URL of the classifier endpoint.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates calls to the classifier. May also be supplied via
	// the AEGIS_CLASSIFIER_API_KEY environment variable, which takes
	// precedence over this field.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier sent with each rating request.
	// Default: "titan-text-lite"
	Model string `yaml:"model"`

	// Timeout is the per-call timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries for transient failures
	// (throttling, 5xx). Authentication and malformed-request errors are
	// never retried.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// MaxIdleConns controls the HTTP connection pool size.
	// Default: 10
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// AuditConfig contains configuration for audit record storage.
type AuditConfig struct {
	// Backend selects the audit storage backend ("sqlite", "memory").
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path (sqlite backend).
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// MaxFieldLength is the maximum length for text fields before truncation.
	// Default: 1000
	MaxFieldLength int `yaml:"max_field_length"`

	// RetentionDays is how long audit records are kept before pruning.
	// 0 disables pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for scheduled pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// AuthConfig contains authentication configuration.
type AuthConfig struct {
	// Tokens is the static token list. Each token maps to a user identity.
	Tokens []TokenConfig `yaml:"tokens"`

	// AllowDemoTokens accepts tokens of the form "demo_<role>" without
	// registration. Intended for local development only.
	// Default: false
	AllowDemoTokens bool `yaml:"allow_demo_tokens"`
}

// TokenConfig describes a single static authentication token.
type TokenConfig struct {
	// Token is the bearer token value.
	Token string `yaml:"token"`

	// UserID identifies the user the token belongs to.
	UserID string `yaml:"user_id"`

	// Username is the human-readable user name.
	Username string `yaml:"username"`

	// Role is the user's role ("admin", "analyst", "user").
	Role string `yaml:"role"`

	// Enabled controls whether the token is accepted.
	// Default: true
	Enabled bool `yaml:"enabled"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables automatic redaction of PII patterns in log fields.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
