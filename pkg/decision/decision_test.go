package decision

import (
	"testing"
)

func TestScreenPrompt(t *testing.T) {
	tests := []struct {
		name       string
		risk       float64
		violations int
		flags      int
		want       string
	}{
		{"clean", 0, 0, 0, StatusApproved},
		{"just under warning", 3.99, 0, 0, StatusApproved},
		{"warning at threshold", 4.0, 0, 0, StatusWarning},
		{"single violation warns", 0, 1, 0, StatusWarning},
		{"single flag warns", 0, 0, 1, StatusWarning},
		{"just under block", 6.99, 0, 0, StatusWarning},
		{"block at threshold", 7.0, 0, 0, StatusBlocked},
		{"two violations block", 0, 2, 0, StatusBlocked},
		{"block beats flags", 10, 0, 3, StatusBlocked},
		{"violations dominate low risk", 1.0, 2, 0, StatusBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScreenPrompt(tt.risk, tt.violations, tt.flags); got != tt.want {
				t.Errorf("ScreenPrompt(%v, %d, %d) = %q, want %q",
					tt.risk, tt.violations, tt.flags, got, tt.want)
			}
		})
	}
}

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name     string
		bias     float64
		toxicity float64
		fairness float64
		want     float64
	}{
		{"perfect", 0, 0, 10, 10.0},
		{"worst", 10, 10, 0, 0.0},
		{"baseline fairness only", 0, 0, 8, 9.6},
		{"mixed", 2.5, 1.0, 7.0, 8.0},
		{"rounds to two decimals", 0.333, 0.333, 8, 9.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallScore(tt.bias, tt.toxicity, tt.fairness); got != tt.want {
				t.Errorf("OverallScore(%v, %v, %v) = %v, want %v",
					tt.bias, tt.toxicity, tt.fairness, got, tt.want)
			}
		})
	}
}

func TestAuditOutput(t *testing.T) {
	tests := []struct {
		name       string
		overall    float64
		violations int
		want       string
	}{
		{"high score no violations", 8.0, 0, AuditApproved},
		{"high score with violation", 9.0, 1, AuditReviewRecommended},
		{"mid score one violation", 6.0, 1, AuditReviewRecommended},
		{"mid score two violations", 7.0, 2, AuditRevisionRequired},
		{"low score", 5.99, 0, AuditRevisionRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuditOutput(tt.overall, tt.violations); got != tt.want {
				t.Errorf("AuditOutput(%v, %d) = %q, want %q",
					tt.overall, tt.violations, got, tt.want)
			}
		})
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name   string
		issues []string
		want   string
	}{
		{"no issues", nil, SeverityLow},
		{"one benign issue", []string{"formatting"}, SeverityLow},
		{"two benign issues", []string{"formatting", "length"}, SeverityMedium},
		{"three benign issues", []string{"a", "b", "c"}, SeverityHigh},
		{"single privacy issue overrides count", []string{"potential_privacy_violation"}, SeverityHigh},
		{"keyword matched case-insensitively", []string{"Security Concern"}, SeverityHigh},
		{"substring match", []string{"possible discrimination detected"}, SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Severity(tt.issues); got != tt.want {
				t.Errorf("Severity(%v) = %q, want %q", tt.issues, got, tt.want)
			}
		})
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		risk float64
		want string
	}{
		{0, SeverityLow},
		{3.99, SeverityLow},
		{4.0, SeverityMedium},
		{6.99, SeverityMedium},
		{7.0, SeverityHigh},
		{10, SeverityHigh},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.risk); got != tt.want {
			t.Errorf("RiskLevel(%v) = %q, want %q", tt.risk, got, tt.want)
		}
	}
}
