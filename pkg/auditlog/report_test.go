package auditlog

import (
	"context"
	"testing"
	"time"
)

// listStorage serves a fixed record list for report tests.
type listStorage struct {
	records []*Record
}

func (s *listStorage) Store(context.Context, *Record) error { return nil }
func (s *listStorage) Query(context.Context, *Query) ([]*Record, error) {
	return s.records, nil
}
func (s *listStorage) Count(context.Context, *Query) (int64, error)  { return int64(len(s.records)), nil }
func (s *listStorage) Delete(context.Context, *Query) (int64, error) { return 0, nil }
func (s *listStorage) Close() error                                  { return nil }

func reportFixtures() []*Record {
	now := time.Now().UTC()
	return []*Record{
		{LogID: "a1", Timestamp: now, EventType: "prompt_analysis", RiskLevel: RiskLow, ComplianceStatus: StatusCompliant},
		{LogID: "a2", Timestamp: now, EventType: "prompt_analysis", RiskLevel: RiskHigh, ComplianceStatus: StatusBlocked},
		{LogID: "a3", Timestamp: now, EventType: "output_audit", RiskLevel: RiskMedium, ComplianceStatus: StatusWarning},
		{LogID: "a4", Timestamp: now, EventType: "output_audit", RiskLevel: RiskCritical, ComplianceStatus: StatusViolation,
			ActivityDetails: map[string]any{"status": "error"}},
	}
}

func TestGenerateReport_Summary(t *testing.T) {
	rp := NewReporter(&listStorage{records: reportFixtures()})

	got, err := rp.GenerateReport(context.Background(), ReportSummary, nil)
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	report, ok := got.(*SummaryReport)
	if !ok {
		t.Fatalf("report type = %T, want *SummaryReport", got)
	}

	if report.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d, want 4", report.TotalEvents)
	}
	if report.EventTypes["prompt_analysis"] != 2 || report.EventTypes["output_audit"] != 2 {
		t.Errorf("EventTypes = %v", report.EventTypes)
	}
	if report.RiskLevels[RiskHigh] != 1 || report.RiskLevels[RiskCritical] != 1 {
		t.Errorf("RiskLevels = %v", report.RiskLevels)
	}
	if report.ComplianceStatuses[StatusBlocked] != 1 {
		t.Errorf("ComplianceStatuses = %v", report.ComplianceStatuses)
	}
}

func TestGenerateReport_Compliance(t *testing.T) {
	rp := NewReporter(&listStorage{records: reportFixtures()})

	got, err := rp.GenerateReport(context.Background(), ReportCompliance, nil)
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	report := got.(*ComplianceReport)

	if report.Violations != 2 {
		t.Errorf("Violations = %d, want 2 (blocked + violation)", report.Violations)
	}
	if report.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", report.Warnings)
	}
	if report.ComplianceRate != 50.0 {
		t.Errorf("ComplianceRate = %v, want 50.0", report.ComplianceRate)
	}
	if len(report.ViolationDetails) != 2 {
		t.Errorf("ViolationDetails = %d records, want 2", len(report.ViolationDetails))
	}
}

func TestGenerateReport_ComplianceEmpty(t *testing.T) {
	rp := NewReporter(&listStorage{})

	got, err := rp.GenerateReport(context.Background(), ReportCompliance, nil)
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	report := got.(*ComplianceReport)
	if report.ComplianceRate != 100.0 {
		t.Errorf("ComplianceRate = %v, want 100.0 with no events", report.ComplianceRate)
	}
}

func TestGenerateReport_Security(t *testing.T) {
	rp := NewReporter(&listStorage{records: reportFixtures()})

	got, err := rp.GenerateReport(context.Background(), ReportSecurity, nil)
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	report := got.(*SecurityReport)

	if report.HighRiskEvents != 2 {
		t.Errorf("HighRiskEvents = %d, want 2", report.HighRiskEvents)
	}
	if report.FailedEvents != 1 {
		t.Errorf("FailedEvents = %d, want 1", report.FailedEvents)
	}
	if len(report.SecurityIncidents) != 2 {
		t.Errorf("SecurityIncidents = %d records, want 2", len(report.SecurityIncidents))
	}
}

func TestGenerateReport_UnknownTypeFallsBackToDetailed(t *testing.T) {
	rp := NewReporter(&listStorage{records: reportFixtures()})

	got, err := rp.GenerateReport(context.Background(), "everything", nil)
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	report, ok := got.(*DetailedReport)
	if !ok {
		t.Fatalf("report type = %T, want *DetailedReport", got)
	}
	if len(report.Logs) != 4 {
		t.Errorf("Logs = %d records, want 4", len(report.Logs))
	}
}

func TestGenerateReport_IncidentCap(t *testing.T) {
	var records []*Record
	for i := 0; i < 8; i++ {
		records = append(records, &Record{
			LogID:            NewLogID(time.Now()),
			Timestamp:        time.Now().UTC(),
			EventType:        "prompt_analysis",
			RiskLevel:        RiskHigh,
			ComplianceStatus: StatusBlocked,
		})
	}
	rp := NewReporter(&listStorage{records: records})

	got, _ := rp.GenerateReport(context.Background(), ReportSecurity, nil)
	report := got.(*SecurityReport)
	if len(report.SecurityIncidents) != maxSecurityIncidents {
		t.Errorf("SecurityIncidents = %d, want capped at %d", len(report.SecurityIncidents), maxSecurityIncidents)
	}
	if report.HighRiskEvents != 8 {
		t.Errorf("HighRiskEvents = %d, want 8", report.HighRiskEvents)
	}
}
