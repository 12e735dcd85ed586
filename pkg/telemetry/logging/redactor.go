package logging

import (
	"regexp"
)

// Redactor masks sensitive values in log output. Prompts and model outputs
// flow through the pipeline as log fields, so anything resembling a
// credential or personal identifier is replaced before it reaches a handler.
type Redactor struct {
	patterns map[string]*regexp.Regexp
}

// NewRedactor creates a Redactor with the default pattern set.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: map[string]*regexp.Regexp{
			"api_key":      regexp.MustCompile(`(?i)(api[_-]?key|apikey)["\s:=]+["']?([a-zA-Z0-9\-_]{16,})["']?`),
			"bearer_token": regexp.MustCompile(`(?i)bearer\s+([a-zA-Z0-9\-_.]+)`),
			"password":     regexp.MustCompile(`(?i)(password|passwd|pwd)["\s:=]+["']?([^\s"']{4,})["']?`),
			"email":        regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
			"ssn":          regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			"credit_card":  regexp.MustCompile(`\b(?:\d[ \-]*?){13,16}\b`),
		},
	}
}

// Redact replaces sensitive substrings in s with a [REDACTED-<type>] marker.
func (r *Redactor) Redact(s string) string {
	for name, pattern := range r.patterns {
		s = pattern.ReplaceAllString(s, "[REDACTED-"+name+"]")
	}
	return s
}

// RedactArgs applies redaction to the string values of slog key/value pairs.
// Keys are left intact so log structure remains searchable.
func (r *Redactor) RedactArgs(args ...any) []any {
	redacted := make([]any, len(args))
	for i, arg := range args {
		// Odd positions are values in well-formed k/v pairs.
		if i%2 == 1 {
			if s, ok := arg.(string); ok {
				redacted[i] = r.Redact(s)
				continue
			}
		}
		redacted[i] = arg
	}
	return redacted
}
