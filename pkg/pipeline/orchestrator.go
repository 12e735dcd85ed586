package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aegisai/aegis/pkg/advisory"
	"aegisai/aegis/pkg/auditlog"
	"aegisai/aegis/pkg/auditor"
	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/decision"
	"aegisai/aegis/pkg/feedback"
	"aegisai/aegis/pkg/guard"
	"aegisai/aegis/pkg/policy"
	"aegisai/aegis/pkg/policy/engine"
	"aegisai/aegis/pkg/telemetry/logging"
)

// activityFullGovernance is the policy activity for combined checks.
// Policies with applies_to "all" match it.
const activityFullGovernance = "full_governance_check"

// highBiasRiskFactor is appended to the advisory risk factors during a
// full governance run when the audited bias score exceeds the
// recommendation threshold.
const highBiasRiskFactor = "High bias score detected"

// Observer receives pipeline timing and outcome counts. *metrics.Collector
// satisfies it.
type Observer interface {
	RecordPipelineRun(kind, status string, duration time.Duration)
	RecordStage(stage string, duration time.Duration)
}

// AuditSink receives one record per pipeline run. *auditlog.Recorder
// satisfies it. A sink failure is logged but never fails the run.
type AuditSink interface {
	Record(ctx context.Context, record *auditlog.Record) error
}

// Deps are the orchestrator's injected dependencies.
type Deps struct {
	Guard    *guard.Guard
	Auditor  *auditor.Auditor
	Engine   *engine.Engine
	Advisor  *advisory.Advisor
	Feedback *feedback.Collector

	Verifier   auth.Verifier
	AuditSink  AuditSink
	AuditStore auditlog.Storage

	Observer Observer

	// Now overrides the clock. Default: time.Now.
	Now func() time.Time
}

// Orchestrator runs named governance workflows: an ordered stage list per
// request kind, a shared per-run result map, a conditional advisory stage,
// and an audit record written last regardless of stage failures.
type Orchestrator struct {
	deps   Deps
	logger *slog.Logger
}

// New creates an Orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{
		deps:   deps,
		logger: slog.Default().With("component", "orchestrator"),
	}
}

// Run authenticates the caller and executes the workflow named by
// req.Kind. Stage failures are recorded as failure markers in the result
// and never abort the run; only authentication and validation errors do.
// A rejected authentication still produces an audit record.
func (o *Orchestrator) Run(ctx context.Context, token string, req Request) (*Result, error) {
	start := o.deps.Now()
	sessionID := uuid.NewString()
	ctx = logging.WithSessionID(ctx, sessionID)

	uc, err := o.deps.Verifier.Verify(ctx, token)
	if err != nil {
		o.recordAuthRejection(ctx, sessionID, req, err)
		o.observePipeline(req.Kind, "auth_rejected", start)
		return nil, err
	}
	ctx = logging.WithUserID(ctx, uc.UserID)

	if err := validate(req); err != nil {
		o.observePipeline(req.Kind, "invalid_request", start)
		return nil, err
	}

	result := &Result{
		SessionID: sessionID,
		Kind:      req.Kind,
		Stages:    make(map[string]any),
		StartedAt: start,
	}

	o.logger.InfoContext(ctx, "pipeline run started",
		"kind", req.Kind,
		"user_id", uc.UserID,
		"role", uc.Role,
	)

	switch req.Kind {
	case KindPromptAnalysis:
		o.runPromptAnalysis(ctx, uc, req, result)
	case KindOutputAudit:
		o.runOutputAudit(ctx, uc, req, result)
	case KindFeedbackCollection:
		o.runFeedbackCollection(ctx, uc, req, result)
	case KindAdvisoryGuidance:
		o.runAdvisoryGuidance(ctx, uc, req, result)
	case KindFullGovernance:
		o.runFullGovernance(ctx, uc, req, result)
	}

	result.CompletedAt = o.deps.Now()
	o.observePipeline(req.Kind, "completed", start)

	o.logger.InfoContext(ctx, "pipeline run completed",
		"kind", req.Kind,
		"stages", len(result.StageOrder),
		"duration_ms", result.CompletedAt.Sub(result.StartedAt).Milliseconds(),
	)

	return result, nil
}

func validate(req Request) error {
	switch req.Kind {
	case KindPromptAnalysis:
		if req.Prompt == "" {
			return &ValidationError{Reason: "no prompt provided"}
		}
	case KindOutputAudit:
		if req.Output == "" {
			return &ValidationError{Reason: "no output provided"}
		}
	case KindFeedbackCollection:
		if req.Feedback == nil || req.Feedback.Content == "" {
			return &ValidationError{Reason: "no feedback content provided"}
		}
	case KindAdvisoryGuidance:
		// An empty advisory request yields general guidance.
	case KindFullGovernance:
		if req.Prompt == "" && req.Output == "" {
			return &ValidationError{Reason: "no prompt or output provided"}
		}
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown pipeline kind %q", req.Kind)}
	}
	return nil
}

func (o *Orchestrator) runPromptAnalysis(ctx context.Context, uc *auth.UserContext, req Request, result *Result) {
	guardRes := o.screenPrompt(ctx, uc, req.Prompt, result)
	o.enforcePolicies(ctx, uc, policy.ActivityPromptSubmission, req.Prompt, result)

	if guardRes != nil && (guardRes.Status == decision.StatusBlocked || guardRes.Status == decision.StatusWarning) {
		advisoryType := advisory.TypeRiskWarning
		if guardRes.Status == decision.StatusBlocked {
			advisoryType = advisory.TypePromptBlocked
		}
		o.advise(ctx, result, advisory.Request{
			AdvisoryType: advisoryType,
			Violations:   guardRes.PolicyViolations,
			RiskFactors:  guardRes.ContentFlags,
			Context:      map[string]string{"prompt": req.Prompt},
		})
	}

	compliance, riskLevel := auditlog.StatusUnknown, auditlog.RiskLow
	var outputData map[string]any
	if guardRes != nil {
		compliance = complianceFromGuardStatus(guardRes.Status)
		riskLevel = riskLevelFromGuard(guardRes)
		outputData = map[string]any{
			"status":            guardRes.Status,
			"risk_score":        guardRes.RiskScore,
			"policy_violations": guardRes.PolicyViolations,
			"content_flags":     guardRes.ContentFlags,
		}
	}

	o.recordAudit(ctx, uc, req, result, auditlog.Record{
		EventType:        string(KindPromptAnalysis),
		Component:        StagePromptGuard,
		InputData:        map[string]any{"prompt_length": len(req.Prompt)},
		OutputData:       outputData,
		ComplianceStatus: compliance,
		RiskLevel:        riskLevel,
	})
}

func (o *Orchestrator) runOutputAudit(ctx context.Context, uc *auth.UserContext, req Request, result *Result) {
	auditRes := o.auditOutput(ctx, uc, req.Output, result)
	o.enforcePolicies(ctx, uc, policy.ActivityOutputGeneration, req.Output, result)

	if auditRes != nil && (auditRes.Status == decision.AuditRevisionRequired || auditRes.Status == decision.AuditReviewRecommended) {
		o.advise(ctx, result, advisory.Request{
			AdvisoryType: advisory.TypeOutputFlagged,
			Violations:   auditRes.PolicyViolations,
			RiskFactors: []string{
				fmt.Sprintf("Bias score: %.1f", auditRes.BiasScore),
				fmt.Sprintf("Toxicity: %.1f", auditRes.ToxicityScore),
			},
			Context: map[string]string{"output": req.Output},
		})
	}

	compliance, riskLevel := auditlog.StatusUnknown, auditlog.RiskLow
	var outputData map[string]any
	if auditRes != nil {
		compliance = complianceFromAuditStatus(auditRes.Status)
		riskLevel = riskLevelFromAudit(auditRes)
		outputData = map[string]any{
			"audit_status":      auditRes.Status,
			"bias_score":        auditRes.BiasScore,
			"toxicity_score":    auditRes.ToxicityScore,
			"overall_score":     auditRes.OverallScore,
			"policy_violations": auditRes.PolicyViolations,
		}
	}

	o.recordAudit(ctx, uc, req, result, auditlog.Record{
		EventType:        string(KindOutputAudit),
		Component:        StageOutputAuditor,
		InputData:        map[string]any{"output_length": len(req.Output)},
		OutputData:       outputData,
		ComplianceStatus: compliance,
		RiskLevel:        riskLevel,
	})
}

func (o *Orchestrator) runFeedbackCollection(ctx context.Context, uc *auth.UserContext, req Request, result *Result) {
	stageStart := o.deps.Now()
	fbRes, err := o.deps.Feedback.Collect(ctx, *req.Feedback, result.SessionID, uc)
	o.observeStage(StageFeedback, stageStart)
	if err != nil {
		o.failStage(ctx, result, StageFeedback, err)
	} else {
		result.setStage(StageFeedback, fbRes)
	}

	o.recordAudit(ctx, uc, req, result, auditlog.Record{
		EventType: "feedback_submission",
		Component: StageFeedback,
		InputData: map[string]any{
			"feedback_type": req.Feedback.Type,
			"category":      req.Feedback.Category,
			"rating":        req.Feedback.Rating,
		},
		OutputData:       stageOutputData(result, StageFeedback),
		ComplianceStatus: auditlog.StatusCompliant,
		RiskLevel:        auditlog.RiskLow,
	})
}

func (o *Orchestrator) runAdvisoryGuidance(ctx context.Context, uc *auth.UserContext, req Request, result *Result) {
	advReq := advisory.Request{}
	if req.Advisory != nil {
		advReq = *req.Advisory
	}
	o.advise(ctx, result, advReq)

	o.recordAudit(ctx, uc, req, result, auditlog.Record{
		EventType: "advisory_request",
		Component: StageAdvisory,
		InputData: map[string]any{
			"advisory_type": advReq.AdvisoryType,
			"violations":    advReq.Violations,
			"risk_factors":  advReq.RiskFactors,
		},
		OutputData:       stageOutputData(result, StageAdvisory),
		ComplianceStatus: auditlog.StatusCompliant,
		RiskLevel:        auditlog.RiskLow,
	})
}

func (o *Orchestrator) runFullGovernance(ctx context.Context, uc *auth.UserContext, req Request, result *Result) {
	var guardRes *guard.Result
	var auditRes *auditor.Result

	if req.Prompt != "" {
		guardRes = o.screenPrompt(ctx, uc, req.Prompt, result)
	}
	if req.Output != "" {
		auditRes = o.auditOutput(ctx, uc, req.Output, result)
	}
	o.enforcePolicies(ctx, uc, activityFullGovernance, req.Prompt+"\n\n"+req.Output, result)

	var violations, riskFactors []string
	if guardRes != nil {
		violations = append(violations, guardRes.PolicyViolations...)
		riskFactors = append(riskFactors, guardRes.ContentFlags...)
	}
	if auditRes != nil {
		violations = append(violations, auditRes.PolicyViolations...)
		if auditRes.BiasScore > 5 {
			riskFactors = append(riskFactors, highBiasRiskFactor)
		}
	}
	o.advise(ctx, result, advisory.Request{
		AdvisoryType: string(KindFullGovernance),
		Violations:   violations,
		RiskFactors:  riskFactors,
		Context:      map[string]string{"prompt": req.Prompt, "output": req.Output},
	})

	o.recordAudit(ctx, uc, req, result, auditlog.Record{
		EventType: string(KindFullGovernance) + "_check",
		Component: "orchestrator",
		InputData: map[string]any{
			"prompt_length": len(req.Prompt),
			"output_length": len(req.Output),
		},
		OutputData:       allStageOutputs(result),
		ComplianceStatus: overallCompliance(guardRes, auditRes, result),
		RiskLevel:        overallRisk(guardRes, auditRes),
	})
}

// AuditLogs retrieves audit records or a report. Requires the audit
// permission.
func (o *Orchestrator) AuditLogs(ctx context.Context, uc *auth.UserContext, reportType string, query *auditlog.Query) (any, error) {
	if err := auth.RequirePermission(uc, auth.PermAudit); err != nil {
		return nil, err
	}
	if query == nil {
		query = &auditlog.Query{}
	}

	if reportType == "" || reportType == "logs" {
		records, err := o.deps.AuditStore.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		return map[string]any{"logs": records, "count": len(records)}, nil
	}

	return auditlog.NewReporter(o.deps.AuditStore).GenerateReport(ctx, reportType, query)
}

func (o *Orchestrator) screenPrompt(ctx context.Context, uc *auth.UserContext, prompt string, result *Result) *guard.Result {
	stageStart := o.deps.Now()
	res, err := o.deps.Guard.Screen(ctx, prompt, uc)
	o.observeStage(StagePromptGuard, stageStart)
	if err != nil {
		o.failStage(ctx, result, StagePromptGuard, err)
		return nil
	}
	result.setStage(StagePromptGuard, res)
	return res
}

func (o *Orchestrator) auditOutput(ctx context.Context, uc *auth.UserContext, output string, result *Result) *auditor.Result {
	stageStart := o.deps.Now()
	res, err := o.deps.Auditor.Audit(ctx, output, uc)
	o.observeStage(StageOutputAuditor, stageStart)
	if err != nil {
		o.failStage(ctx, result, StageOutputAuditor, err)
		return nil
	}
	result.setStage(StageOutputAuditor, res)
	return res
}

func (o *Orchestrator) enforcePolicies(ctx context.Context, uc *auth.UserContext, activity, content string, result *Result) *EnforcementResult {
	stageStart := o.deps.Now()
	verdicts, err := o.deps.Engine.Evaluate(ctx, engine.Input{
		Activity: activity,
		Content:  content,
		Role:     uc.Role,
	})
	o.observeStage(StagePolicyEnforcer, stageStart)
	if err != nil {
		o.failStage(ctx, result, StagePolicyEnforcer, err)
		return nil
	}

	violations := engine.Violations(verdicts)
	allowed := true
	for _, v := range violations {
		if v.HasAction(policy.ActionBlock) || v.HasAction(policy.ActionEscalate) {
			allowed = false
			break
		}
	}

	res := &EnforcementResult{
		Verdicts:   verdicts,
		Violations: violations,
		Allowed:    allowed,
	}
	result.setStage(StagePolicyEnforcer, res)
	return res
}

func (o *Orchestrator) advise(ctx context.Context, result *Result, req advisory.Request) {
	stageStart := o.deps.Now()
	res, err := o.deps.Advisor.Advise(ctx, req)
	o.observeStage(StageAdvisory, stageStart)
	if err != nil {
		o.failStage(ctx, result, StageAdvisory, err)
		return
	}
	result.setStage(StageAdvisory, res)
}

// recordAudit writes the run's audit record as the final stage. A sink
// failure is logged and marked in the result, never surfaced to the caller.
func (o *Orchestrator) recordAudit(ctx context.Context, uc *auth.UserContext, req Request, result *Result, record auditlog.Record) {
	record.SessionID = result.SessionID
	record.UserID = uc.UserID
	record.UserRole = uc.Role
	record.Metadata = auditlog.Metadata{
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		RequestID: req.RequestID,
	}

	err := o.deps.AuditSink.Record(ctx, &record)
	if err != nil {
		o.logger.ErrorContext(ctx, "audit record not written",
			"event_type", record.EventType,
			"error", err,
		)
	}
	result.setStage(StageAuditLogger, map[string]any{
		"log_id": record.LogID,
		"stored": err == nil,
	})
}

// recordAuthRejection audits a failed authentication attempt before the
// rejection is returned.
func (o *Orchestrator) recordAuthRejection(ctx context.Context, sessionID string, req Request, authErr error) {
	record := &auditlog.Record{
		SessionID:        sessionID,
		EventType:        "auth_rejected",
		Component:        "orchestrator",
		ActivityDetails:  map[string]any{"error": authErr.Error(), "kind": string(req.Kind)},
		ComplianceStatus: auditlog.StatusFailed,
		RiskLevel:        auditlog.RiskMedium,
		Metadata: auditlog.Metadata{
			IPAddress: req.IPAddress,
			UserAgent: req.UserAgent,
			RequestID: req.RequestID,
		},
	}
	if err := o.deps.AuditSink.Record(ctx, record); err != nil {
		o.logger.ErrorContext(ctx, "auth rejection not audited", "error", err)
	}
}

func (o *Orchestrator) failStage(ctx context.Context, result *Result, stage string, err error) {
	o.logger.ErrorContext(ctx, "stage failed",
		"stage", stage,
		"error", err,
	)
	result.setStage(stage, StageFailure{Error: err.Error()})
}

func (o *Orchestrator) observeStage(stage string, start time.Time) {
	if o.deps.Observer != nil {
		o.deps.Observer.RecordStage(stage, o.deps.Now().Sub(start))
	}
}

func (o *Orchestrator) observePipeline(kind Kind, status string, start time.Time) {
	if o.deps.Observer != nil {
		o.deps.Observer.RecordPipelineRun(string(kind), status, o.deps.Now().Sub(start))
	}
}

// stageOutputData wraps one stage's output for the audit record.
func stageOutputData(result *Result, stage string) map[string]any {
	out, ok := result.Stages[stage]
	if !ok {
		return nil
	}
	return map[string]any{stage: out}
}

// allStageOutputs collects every stage output except the audit stage.
func allStageOutputs(result *Result) map[string]any {
	out := make(map[string]any, len(result.Stages))
	for name, stage := range result.Stages {
		if name == StageAuditLogger {
			continue
		}
		out[name] = stage
	}
	return out
}
