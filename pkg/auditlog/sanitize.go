package auditlog

import "strings"

// sensitiveKeyParts are matched as substrings against lowercased map keys.
var sensitiveKeyParts = []string{"password", "token", "key", "secret", "credential"}

const redactedPlaceholder = "[REDACTED]"

// Sanitize returns a copy of data safe for durable storage: values under
// sensitive keys are replaced with a placeholder, nested maps are sanitized
// recursively, and strings longer than maxFieldLength are truncated.
func Sanitize(data map[string]any, maxFieldLength int) map[string]any {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]any, len(data))
	for key, value := range data {
		if isSensitiveKey(key) {
			sanitized[key] = redactedPlaceholder
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			sanitized[key] = Sanitize(v, maxFieldLength)
		case string:
			sanitized[key] = TruncateString(v, maxFieldLength)
		default:
			sanitized[key] = value
		}
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// TruncateString shortens s to max bytes and appends a truncation marker.
// A max of 0 or less disables truncation.
func TruncateString(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "...[TRUNCATED]"
}
