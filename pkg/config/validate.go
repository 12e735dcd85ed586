package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string // Dotted field path (e.g., "server.listen_address")
	Message string // Human-readable description of the problem
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates all validation failures for a Config.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
// It returns all problems found, not just the first one.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if _, _, err := net.SplitHostPort(c.Server.ListenAddress); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid address %q: %v", c.Server.ListenAddress, err),
		})
	}

	switch c.Policy.Backend {
	case "file", "sqlite", "memory":
	default:
		errs = append(errs, &ValidationError{
			Field:   "policy.backend",
			Message: fmt.Sprintf("unknown backend %q (must be file, sqlite, or memory)", c.Policy.Backend),
		})
	}

	switch c.Audit.Backend {
	case "sqlite", "memory":
	default:
		errs = append(errs, &ValidationError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("unknown backend %q (must be sqlite or memory)", c.Audit.Backend),
		})
	}

	if c.Audit.RetentionDays < 0 {
		errs = append(errs, &ValidationError{
			Field:   "audit.retention_days",
			Message: "must not be negative",
		})
	}

	if c.Classifier.Enabled && c.Classifier.BaseURL == "" {
		errs = append(errs, &ValidationError{
			Field:   "classifier.base_url",
			Message: "required when classifier is enabled",
		})
	}

	if c.Classifier.MaxRetries < 0 {
		errs = append(errs, &ValidationError{
			Field:   "classifier.max_retries",
			Message: "must not be negative",
		})
	}

	switch c.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Telemetry.Logging.Level),
		})
	}

	switch c.Telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, &ValidationError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", c.Telemetry.Logging.Format),
		})
	}

	for i, tok := range c.Auth.Tokens {
		if tok.Token == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("auth.tokens[%d].token", i),
				Message: "must not be empty",
			})
		}
		switch tok.Role {
		case "admin", "analyst", "user":
		default:
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("auth.tokens[%d].role", i),
				Message: fmt.Sprintf("unknown role %q (must be admin, analyst, or user)", tok.Role),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
