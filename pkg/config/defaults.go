package config

import "time"

// Default returns a Config populated with default values for every section.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in default values for any field that is unset.
// It is safe to call on a partially populated Config (e.g., after loading
// a YAML file that only sets a few fields).
func (c *Config) ApplyDefaults() {
	// Server defaults
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = "127.0.0.1:8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Server.MaxHeaderBytes == 0 {
		c.Server.MaxHeaderBytes = 1 << 20
	}
	if c.Server.CORS.AllowedOrigins == nil {
		c.Server.CORS.Enabled = true
		c.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Server.CORS.AllowedMethods == nil {
		c.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if c.Server.CORS.AllowedHeaders == nil {
		c.Server.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if c.Server.CORS.MaxAge == 0 {
		c.Server.CORS.MaxAge = 3600
	}

	// Policy defaults
	if c.Policy.Backend == "" {
		c.Policy.Backend = "file"
		c.Policy.Watch = true
	}
	if c.Policy.Path == "" {
		c.Policy.Path = "policies/"
	}
	if c.Policy.MaxFileSize == 0 {
		c.Policy.MaxFileSize = 1 << 20
	}

	// Classifier defaults
	if c.Classifier.Model == "" {
		c.Classifier.Model = "titan-text-lite"
	}
	if c.Classifier.Timeout == 0 {
		c.Classifier.Timeout = 10 * time.Second
	}
	if c.Classifier.MaxRetries == 0 {
		c.Classifier.MaxRetries = 3
	}
	if c.Classifier.MaxIdleConns == 0 {
		c.Classifier.MaxIdleConns = 10
	}

	// Audit defaults
	if c.Audit.Backend == "" {
		c.Audit.Backend = "sqlite"
	}
	if c.Audit.Path == "" {
		c.Audit.Path = "data/audit.db"
	}
	if c.Audit.AsyncBuffer == 0 {
		c.Audit.AsyncBuffer = 1000
	}
	if c.Audit.WriteTimeout == 0 {
		c.Audit.WriteTimeout = 5 * time.Second
	}
	if c.Audit.MaxFieldLength == 0 {
		c.Audit.MaxFieldLength = 1000
	}
	if c.Audit.RetentionDays == 0 {
		c.Audit.RetentionDays = 90
	}
	if c.Audit.PruneSchedule == "" {
		c.Audit.PruneSchedule = "0 3 * * *"
	}

	// Telemetry defaults
	if c.Telemetry.Logging.Level == "" {
		c.Telemetry.Logging.Level = "info"
	}
	if c.Telemetry.Logging.Format == "" {
		c.Telemetry.Logging.Format = "json"
		c.Telemetry.Logging.RedactPII = true
	}
	if c.Telemetry.Metrics.Path == "" {
		c.Telemetry.Metrics.Enabled = true
		c.Telemetry.Metrics.Path = "/metrics"
	}
}
