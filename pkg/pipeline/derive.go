package pipeline

import (
	"aegisai/aegis/pkg/auditlog"
	"aegisai/aegis/pkg/auditor"
	"aegisai/aegis/pkg/decision"
	"aegisai/aegis/pkg/guard"
)

// Thresholds for deriving an audit risk level from stage scores.
const (
	guardHighRiskScore   = 7.0
	guardMediumRiskScore = 4.0

	auditHighScore   = 7.0
	auditMediumScore = 4.0
	overallLowScore  = 4.0
	overallMidScore  = 6.0
)

func complianceFromGuardStatus(status string) string {
	switch status {
	case decision.StatusApproved:
		return auditlog.StatusCompliant
	case decision.StatusWarning:
		return auditlog.StatusWarning
	case decision.StatusBlocked:
		return auditlog.StatusBlocked
	default:
		return auditlog.StatusUnknown
	}
}

func complianceFromAuditStatus(status string) string {
	switch status {
	case decision.AuditApproved:
		return auditlog.StatusCompliant
	case decision.AuditReviewRecommended:
		return auditlog.StatusWarning
	case decision.AuditRevisionRequired:
		return auditlog.StatusViolation
	default:
		return auditlog.StatusUnknown
	}
}

func riskLevelFromGuard(res *guard.Result) string {
	switch {
	case res.Status == decision.StatusBlocked || res.RiskScore >= guardHighRiskScore:
		return auditlog.RiskHigh
	case res.Status == decision.StatusWarning || res.RiskScore >= guardMediumRiskScore:
		return auditlog.RiskMedium
	default:
		return auditlog.RiskLow
	}
}

func riskLevelFromAudit(res *auditor.Result) string {
	switch {
	case res.BiasScore >= auditHighScore || res.ToxicityScore >= auditHighScore || res.OverallScore <= overallLowScore:
		return auditlog.RiskHigh
	case res.BiasScore >= auditMediumScore || res.ToxicityScore >= auditMediumScore || res.OverallScore <= overallMidScore:
		return auditlog.RiskMedium
	default:
		return auditlog.RiskLow
	}
}

// overallCompliance combines the stages of a full governance run. Any
// blocking verdict anywhere makes the whole run a violation.
func overallCompliance(guardRes *guard.Result, auditRes *auditor.Result, result *Result) string {
	if guardRes != nil && guardRes.Status == decision.StatusBlocked {
		return auditlog.StatusViolation
	}
	if auditRes != nil && auditRes.Status == decision.AuditRevisionRequired {
		return auditlog.StatusViolation
	}
	if enf, ok := result.Stages[StagePolicyEnforcer].(*EnforcementResult); ok && !enf.Allowed {
		return auditlog.StatusViolation
	}
	return auditlog.StatusCompliant
}

// overallRisk is the highest per-stage risk level.
func overallRisk(guardRes *guard.Result, auditRes *auditor.Result) string {
	level := auditlog.RiskLow
	if guardRes != nil {
		level = maxRisk(level, riskLevelFromGuard(guardRes))
	}
	if auditRes != nil {
		level = maxRisk(level, riskLevelFromAudit(auditRes))
	}
	return level
}

var riskRank = map[string]int{
	auditlog.RiskLow:      0,
	auditlog.RiskMedium:   1,
	auditlog.RiskHigh:     2,
	auditlog.RiskCritical: 3,
}

func maxRisk(a, b string) string {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}
