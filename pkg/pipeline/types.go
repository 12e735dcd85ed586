package pipeline

import (
	"fmt"
	"time"

	"aegisai/aegis/pkg/advisory"
	"aegisai/aegis/pkg/feedback"
	"aegisai/aegis/pkg/policy"
)

// Kind names a governance workflow.
type Kind string

const (
	KindPromptAnalysis     Kind = "prompt_analysis"
	KindOutputAudit        Kind = "output_audit"
	KindFeedbackCollection Kind = "feedback_collection"
	KindAdvisoryGuidance   Kind = "advisory_guidance"
	KindFullGovernance     Kind = "full_governance"
)

// Stage names used as keys in Result.Stages.
const (
	StagePromptGuard    = "prompt_guard"
	StageOutputAuditor  = "output_auditor"
	StagePolicyEnforcer = "policy_enforcer"
	StageAdvisory       = "advisory"
	StageFeedback       = "feedback"
	StageAuditLogger    = "audit_logger"
)

// Request is a single governance request.
type Request struct {
	Kind Kind `json:"kind"`

	// Prompt is the text to screen (prompt_analysis, full_governance).
	Prompt string `json:"prompt,omitempty"`

	// Output is the model output to audit (output_audit, full_governance).
	Output string `json:"output,omitempty"`

	// Context carries free-form request context passed to the advisory
	// stage.
	Context map[string]string `json:"context,omitempty"`

	// Feedback is the submission payload (feedback_collection).
	Feedback *feedback.Submission `json:"feedback,omitempty"`

	// Advisory is the advisory payload (advisory_guidance).
	Advisory *advisory.Request `json:"advisory,omitempty"`

	// Client metadata recorded in the audit trail.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
	RequestID string `json:"-"`
}

// Result is the composite outcome of one pipeline run. Each stage writes
// its output under its stage name; failed stages hold a StageFailure
// marker instead of being absent.
type Result struct {
	SessionID   string         `json:"session_id"`
	Kind        Kind           `json:"kind"`
	Stages      map[string]any `json:"stages"`
	StageOrder  []string       `json:"stage_order"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
}

// StageFailure marks a stage that raised instead of producing output.
// Later stages still run with the partial data.
type StageFailure struct {
	Error string `json:"error"`
}

// EnforcementResult is the policy_enforcer stage output.
type EnforcementResult struct {
	Verdicts   []policy.PolicyVerdict `json:"verdicts"`
	Violations []policy.PolicyVerdict `json:"violations"`
	Allowed    bool                   `json:"allowed"`
}

// ValidationError reports a malformed request payload.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// setStage records a stage output and its position in the run order.
func (r *Result) setStage(name string, output any) {
	r.Stages[name] = output
	r.StageOrder = append(r.StageOrder, name)
}
