// Package logging provides structured logging for the governance service.
//
// It wraps log/slog with configurable level and output format, optional PII
// redaction for sensitive values that appear in prompts and model outputs,
// and context helpers for propagating request, session, and user identifiers
// through pipeline stages.
package logging
