// Package pipeline orchestrates governance workflows over the screening,
// auditing, policy, advisory, and feedback components.
//
// Each request kind maps to a fixed stage sequence. Stages share one
// result map; a stage that fails leaves a failure marker and the run
// continues, so the audit record at the end of every workflow always
// gets written with whatever the earlier stages produced.
package pipeline
