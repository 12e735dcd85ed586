package auditlog

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Compliance status values carried on audit records.
const (
	StatusCompliant = "compliant"
	StatusWarning   = "warning"
	StatusViolation = "violation"
	StatusBlocked   = "blocked"
	StatusFailed    = "failed"
	StatusUnknown   = "unknown"
)

// Risk level values carried on audit records.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Record is a single immutable audit log entry. One record is written for
// every governance operation, whether it succeeded or not.
type Record struct {
	LogID     string    `json:"log_id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`

	// User identity at the time of the event.
	UserID   string `json:"user_id"`
	UserRole string `json:"user_role"`

	// EventType names the governance operation (e.g. "prompt_analysis").
	EventType string `json:"event_type"`

	// Component is the subsystem that produced the event.
	Component string `json:"component"`

	// ActivityDetails carries operation-specific fields such as decision
	// status and scores. Sanitized before storage.
	ActivityDetails map[string]any `json:"activity_details,omitempty"`

	// InputData and OutputData hold sanitized copies of the request and
	// response payloads.
	InputData  map[string]any `json:"input_data,omitempty"`
	OutputData map[string]any `json:"output_data,omitempty"`

	ComplianceStatus string `json:"compliance_status"`
	RiskLevel        string `json:"risk_level"`

	Metadata Metadata `json:"metadata"`
}

// Metadata carries request-level context for a record.
type Metadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id"`
}

// Query filters audit records on retrieval.
// Zero-valued fields are not applied.
type Query struct {
	StartTime        *time.Time
	EndTime          *time.Time
	UserID           string
	EventType        string
	RiskLevel        string
	ComplianceStatus string

	// Limit caps the number of records returned. Default: 100.
	Limit  int
	Offset int
}

// Summary is a condensed view of a record for quick review.
type Summary struct {
	EventType         string    `json:"event_type"`
	UserID            string    `json:"user_id"`
	UserRole          string    `json:"user_role"`
	Component         string    `json:"component"`
	ComplianceStatus  string    `json:"compliance_status"`
	RiskLevel         string    `json:"risk_level"`
	Timestamp         time.Time `json:"timestamp"`
	RequiresAttention bool      `json:"requires_attention"`
}

// NewLogID generates an audit log identifier of the form
// audit_YYYYMMDD_HHMMSS_NNNN.
func NewLogID(ts time.Time) string {
	return fmt.Sprintf("audit_%s_%04d", ts.UTC().Format("20060102_150405"), rand.IntN(10000))
}

// Summarize builds the condensed view of a record.
func Summarize(r *Record) Summary {
	userID := r.UserID
	if userID == "" {
		userID = "anonymous"
	}
	userRole := r.UserRole
	if userRole == "" {
		userRole = "unknown"
	}

	return Summary{
		EventType:         r.EventType,
		UserID:            userID,
		UserRole:          userRole,
		Component:         r.Component,
		ComplianceStatus:  r.ComplianceStatus,
		RiskLevel:         r.RiskLevel,
		Timestamp:         r.Timestamp,
		RequiresAttention: RequiresAttention(r),
	}
}

// RequiresAttention reports whether a record should be surfaced for
// immediate review: high or critical risk, a non-compliant status, or a
// failed operation.
func RequiresAttention(r *Record) bool {
	if r.RiskLevel == RiskHigh || r.RiskLevel == RiskCritical {
		return true
	}
	switch r.ComplianceStatus {
	case StatusViolation, StatusBlocked, StatusFailed:
		return true
	}
	if status, ok := r.ActivityDetails["status"].(string); ok && status == "error" {
		return true
	}
	return false
}

// normalize fills record defaults before storage.
func normalize(r *Record) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if r.LogID == "" {
		r.LogID = NewLogID(r.Timestamp)
	}
	if r.EventType == "" {
		r.EventType = StatusUnknown
	}
	if r.Component == "" {
		r.Component = "system"
	}
	if r.ComplianceStatus == "" {
		r.ComplianceStatus = StatusUnknown
	}
	if r.RiskLevel == "" {
		r.RiskLevel = RiskLow
	}
	if r.Metadata.IPAddress == "" {
		r.Metadata.IPAddress = "unknown"
	}
	if r.Metadata.UserAgent == "" {
		r.Metadata.UserAgent = "unknown"
	}
	if r.Metadata.RequestID == "" {
		r.Metadata.RequestID = r.LogID
	}
}
