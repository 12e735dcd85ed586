package auditlog

import (
	"context"
	"time"
)

// Report types accepted by GenerateReport.
const (
	ReportSummary    = "summary"
	ReportCompliance = "compliance"
	ReportSecurity   = "security"
	ReportDetailed   = "detailed"
)

const (
	maxViolationDetails  = 10
	maxSecurityIncidents = 5
)

// SummaryReport aggregates event counts by type, risk level, and
// compliance status.
type SummaryReport struct {
	ReportType         string         `json:"report_type"`
	TotalEvents        int            `json:"total_events"`
	EventTypes         map[string]int `json:"event_types"`
	RiskLevels         map[string]int `json:"risk_levels"`
	ComplianceStatuses map[string]int `json:"compliance_statuses"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// ComplianceReport surfaces violations and the overall compliance rate.
type ComplianceReport struct {
	ReportType       string    `json:"report_type"`
	TotalEvents      int       `json:"total_events"`
	Violations       int       `json:"violations"`
	Warnings         int       `json:"warnings"`
	ComplianceRate   float64   `json:"compliance_rate"`
	ViolationDetails []*Record `json:"violation_details"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// SecurityReport surfaces high-risk and failed events.
type SecurityReport struct {
	ReportType        string    `json:"report_type"`
	TotalEvents       int       `json:"total_events"`
	HighRiskEvents    int       `json:"high_risk_events"`
	FailedEvents      int       `json:"failed_events"`
	SecurityIncidents []*Record `json:"security_incidents"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// DetailedReport carries the full matching record set.
type DetailedReport struct {
	ReportType  string    `json:"report_type"`
	TotalEvents int       `json:"total_events"`
	Logs        []*Record `json:"logs"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Reporter builds audit reports from a storage backend.
type Reporter struct {
	storage Storage
}

// NewReporter creates a reporter over the given storage.
func NewReporter(storage Storage) *Reporter {
	return &Reporter{storage: storage}
}

// GenerateReport builds the report named by reportType over the records
// matching the query. Unrecognized report types produce a detailed report.
func (rp *Reporter) GenerateReport(ctx context.Context, reportType string, query *Query) (any, error) {
	if query == nil {
		query = &Query{}
	}
	records, err := rp.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	switch reportType {
	case ReportSummary:
		return buildSummaryReport(records), nil
	case ReportCompliance:
		return buildComplianceReport(records), nil
	case ReportSecurity:
		return buildSecurityReport(records), nil
	default:
		return &DetailedReport{
			ReportType:  ReportDetailed,
			TotalEvents: len(records),
			Logs:        records,
			GeneratedAt: time.Now().UTC(),
		}, nil
	}
}

func buildSummaryReport(records []*Record) *SummaryReport {
	report := &SummaryReport{
		ReportType:         ReportSummary,
		TotalEvents:        len(records),
		EventTypes:         make(map[string]int),
		RiskLevels:         make(map[string]int),
		ComplianceStatuses: make(map[string]int),
		GeneratedAt:        time.Now().UTC(),
	}
	for _, r := range records {
		report.EventTypes[r.EventType]++
		report.RiskLevels[r.RiskLevel]++
		report.ComplianceStatuses[r.ComplianceStatus]++
	}
	return report
}

func buildComplianceReport(records []*Record) *ComplianceReport {
	var violations, warnings []*Record
	for _, r := range records {
		switch r.ComplianceStatus {
		case StatusViolation, StatusBlocked:
			violations = append(violations, r)
		case StatusWarning:
			warnings = append(warnings, r)
		}
	}

	rate := 100.0
	if len(records) > 0 {
		rate = float64(len(records)-len(violations)) / float64(len(records)) * 100
	}

	details := violations
	if len(details) > maxViolationDetails {
		details = details[:maxViolationDetails]
	}

	return &ComplianceReport{
		ReportType:       ReportCompliance,
		TotalEvents:      len(records),
		Violations:       len(violations),
		Warnings:         len(warnings),
		ComplianceRate:   rate,
		ViolationDetails: details,
		GeneratedAt:      time.Now().UTC(),
	}
}

func buildSecurityReport(records []*Record) *SecurityReport {
	var highRisk []*Record
	failed := 0
	for _, r := range records {
		if r.RiskLevel == RiskHigh || r.RiskLevel == RiskCritical {
			highRisk = append(highRisk, r)
		}
		if status, ok := r.ActivityDetails["status"].(string); ok && status == "error" {
			failed++
		}
	}

	incidents := highRisk
	if len(incidents) > maxSecurityIncidents {
		incidents = incidents[:maxSecurityIncidents]
	}

	return &SecurityReport{
		ReportType:        ReportSecurity,
		TotalEvents:       len(records),
		HighRiskEvents:    len(highRisk),
		FailedEvents:      failed,
		SecurityIncidents: incidents,
		GeneratedAt:       time.Now().UTC(),
	}
}
