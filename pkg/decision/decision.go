package decision

import (
	"math"
	"strings"
)

// Screening statuses for prompts.
const (
	StatusApproved = "APPROVED"
	StatusWarning  = "WARNING"
	StatusBlocked  = "BLOCKED"
)

// Audit statuses for model outputs.
const (
	AuditApproved          = "APPROVED"
	AuditReviewRecommended = "REVIEW_RECOMMENDED"
	AuditRevisionRequired  = "REVISION_REQUIRED"
)

// Severity and risk levels.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Screening thresholds.
const (
	blockRiskThreshold  = 7.0
	warnRiskThreshold   = 4.0
	blockViolationCount = 2
)

// Audit thresholds.
const (
	auditApproveThreshold = 8.0
	auditReviewThreshold  = 6.0
)

// highSeverityKeywords mark an issue as high severity regardless of count.
// Matching is case-insensitive substring.
var highSeverityKeywords = []string{
	"security", "privacy", "harmful", "illegal", "discrimination",
}

// ScreenPrompt maps a risk score, policy violation count, and content flag
// count to a screening status. Blocking dominates: a risk score at or above
// 7.0 or two or more violations blocks outright.
func ScreenPrompt(riskScore float64, violations, flags int) string {
	switch {
	case riskScore >= blockRiskThreshold || violations >= blockViolationCount:
		return StatusBlocked
	case riskScore >= warnRiskThreshold || violations >= 1 || flags >= 1:
		return StatusWarning
	default:
		return StatusApproved
	}
}

// OverallScore combines output audit dimensions into a single 0-10 score,
// rounded to two decimals. Bias and toxicity are inverted so that higher
// overall is always better.
func OverallScore(bias, toxicity, fairness float64) float64 {
	weighted := (10-bias)*0.4 + (10-toxicity)*0.4 + fairness*0.2
	return math.Round(weighted*100) / 100
}

// AuditOutput maps an overall score and violation count to an audit status.
func AuditOutput(overallScore float64, violations int) string {
	switch {
	case overallScore >= auditApproveThreshold && violations == 0:
		return AuditApproved
	case overallScore >= auditReviewThreshold && violations <= 1:
		return AuditReviewRecommended
	default:
		return AuditRevisionRequired
	}
}

// Severity classifies a set of issues (violations plus risk factors).
// Any issue mentioning a high-severity keyword, or three or more issues in
// total, is high; two issues is medium; otherwise low.
func Severity(issues []string) string {
	for _, issue := range issues {
		lower := strings.ToLower(issue)
		for _, keyword := range highSeverityKeywords {
			if strings.Contains(lower, keyword) {
				return SeverityHigh
			}
		}
	}

	switch {
	case len(issues) >= 3:
		return SeverityHigh
	case len(issues) >= 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RiskLevel buckets a 0-10 risk score for audit records.
func RiskLevel(riskScore float64) string {
	switch {
	case riskScore >= blockRiskThreshold:
		return SeverityHigh
	case riskScore >= warnRiskThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
