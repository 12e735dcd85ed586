package auditor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/decision"
	"aegisai/aegis/pkg/policy"
	"aegisai/aegis/pkg/policy/engine"
	"aegisai/aegis/pkg/scoring"
)

// Recommendation thresholds on the 0-10 scales.
const (
	biasRecommendThreshold     = 5.0
	toxicityRecommendThreshold = 3.0
	modelRecBiasThreshold      = 3.0
	modelRecToxicityThreshold  = 2.0
	maxRecommendations         = 5
)

// Result is the audit outcome for a model output.
type Result struct {
	BiasScore        float64           `json:"bias_score"`
	ToxicityScore    float64           `json:"toxicity_score"`
	FairnessScore    float64           `json:"fairness_score"`
	OverallScore     float64           `json:"overall_score"`
	Sentiment        scoring.Sentiment `json:"sentiment"`
	PolicyViolations []string          `json:"policy_violations"`
	Recommendations  []string          `json:"recommendations"`
	Status           string            `json:"audit_status"`
	ProcessedAt      time.Time         `json:"processed_at"`
}

// Auditor reviews model outputs for bias, toxicity, fairness, and policy
// compliance.
type Auditor struct {
	scorer *scoring.Scorer
	engine *engine.Engine
	rater  classifier.Rater
	logger *slog.Logger
}

// New creates an Auditor.
func New(scorer *scoring.Scorer, eng *engine.Engine, rater classifier.Rater) *Auditor {
	return &Auditor{
		scorer: scorer,
		engine: eng,
		rater:  rater,
		logger: slog.Default().With("component", "output_auditor"),
	}
}

// Audit scores an output and maps it to an audit status. A gendered
// generalization is recorded as a violation regardless of score, which
// keeps such output out of APPROVED. A policy store failure degrades to
// an empty violation list.
func (a *Auditor) Audit(ctx context.Context, output string, uc *auth.UserContext) (*Result, error) {
	biasScore := a.scorer.Bias(ctx, output)
	toxicityScore := a.scorer.Toxicity(ctx, output)
	fairnessScore := scoring.Fairness(output)
	sentiment := scoring.AnalyzeSentiment(output)
	violations := a.policyViolations(ctx, output, uc)
	if scoring.GenderStereotype(output) {
		violations = append(violations, "gender_stereotype_language")
	}

	overall := decision.OverallScore(biasScore, toxicityScore, fairnessScore)
	status := decision.AuditOutput(overall, len(violations))

	result := &Result{
		BiasScore:        biasScore,
		ToxicityScore:    toxicityScore,
		FairnessScore:    fairnessScore,
		OverallScore:     overall,
		Sentiment:        sentiment,
		PolicyViolations: violations,
		Recommendations:  a.recommendations(ctx, output, biasScore, toxicityScore, violations),
		Status:           status,
		ProcessedAt:      time.Now().UTC(),
	}

	a.logger.InfoContext(ctx, "output audited",
		"output_length", len(output),
		"bias_score", biasScore,
		"toxicity_score", toxicityScore,
		"overall_score", overall,
		"violations_count", len(violations),
	)

	return result, nil
}

func (a *Auditor) policyViolations(ctx context.Context, output string, uc *auth.UserContext) []string {
	role := auth.RoleUser
	if uc != nil {
		role = uc.Role
	}

	verdicts, err := a.engine.Evaluate(ctx, engine.Input{
		Activity: policy.ActivityOutputGeneration,
		Content:  output,
		Role:     role,
	})
	if err != nil {
		a.logger.ErrorContext(ctx, "output policy check failed", "error", err)
		return nil
	}

	var names []string
	for _, v := range engine.Violations(verdicts) {
		names = append(names, v.PolicyName)
	}
	return names
}

// recommendations builds improvement recommendations, deterministic ones
// first, then up to three model-generated ones, capped at five total.
func (a *Auditor) recommendations(ctx context.Context, output string, biasScore, toxicityScore float64, violations []string) []string {
	var recs []string

	if biasScore > biasRecommendThreshold {
		recs = append(recs,
			"Consider using more inclusive and balanced language",
			"Avoid absolute statements and generalizations",
		)
	}
	if toxicityScore > toxicityRecommendThreshold {
		recs = append(recs,
			"Review content for potentially offensive or harmful language",
			"Consider a more respectful and constructive tone",
		)
	}
	if len(violations) > 0 {
		recs = append(recs, "Ensure compliance with organizational content policies")
	}

	if biasScore > modelRecBiasThreshold || toxicityScore > modelRecToxicityThreshold {
		recs = append(recs, a.modelRecommendations(ctx, output)...)
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func (a *Auditor) modelRecommendations(ctx context.Context, output string) []string {
	req := fmt.Sprintf("The following AI-generated text has been flagged for potential bias or toxicity issues.\n"+
		"Provide 2-3 specific recommendations to improve the content:\n\n"+
		"Text: %q\n\nRecommendations:", output)

	text, err := a.rater.Generate(ctx, req)
	if err != nil {
		a.logger.Warn("recommendation generation failed", "error", err)
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Recommendations:") {
			continue
		}
		out = append(out, line)
		if len(out) == 3 {
			break
		}
	}
	return out
}
