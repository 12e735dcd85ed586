// Package engine evaluates governance policies against activities.
//
// Rules that gate access (content_filter, role_restriction) fail closed
// when they cannot be evaluated; advisory rules (content_length,
// model_analysis, time_restriction) fail open. Model-backed analysis
// treats a classifier fallback as a passing neutral score.
package engine
