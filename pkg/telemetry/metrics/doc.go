// Package metrics provides Prometheus metrics for the governance service.
//
// The Collector registers counters and histograms covering pipeline
// executions, stage latencies, policy evaluations, model classifier calls,
// audit log writes, and HTTP traffic. Label cardinality is kept bounded:
// status codes are collapsed into classes and free-form identifiers are
// never used as labels.
package metrics
