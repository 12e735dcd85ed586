// Package telemetry groups the observability subsystems of the governance
// service: structured logging with PII redaction and Prometheus metrics.
package telemetry
