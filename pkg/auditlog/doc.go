// Package auditlog provides the audit trail for governance operations.
//
// Every screening, audit, advisory, and feedback operation produces a
// Record. Records are sanitized (sensitive keys redacted, long strings
// truncated) and written asynchronously by the Recorder so that the
// governance path never blocks on storage.
//
// Retrieval goes through the Storage interface, with SQLite and
// in-memory backends under auditlog/storage. The Reporter builds
// summary, compliance, security, and detailed reports over stored
// records. Retention pruning lives under auditlog/retention.
package auditlog
