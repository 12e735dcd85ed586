// Package retention enforces the audit log retention policy by pruning
// records older than the configured retention period, on demand or on a
// cron schedule.
package retention
