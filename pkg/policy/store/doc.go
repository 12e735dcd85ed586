// Package store provides policy persistence backends: an in-memory store
// for tests and ephemeral runs, a YAML directory store with optional
// filesystem watching for hot reload, and a SQLite store for managed
// policy sets. All backends seed the built-in default policies when
// empty and return policies sorted by ID.
package store
