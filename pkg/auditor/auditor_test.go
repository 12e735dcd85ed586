package auditor

import (
	"context"
	"testing"

	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/decision"
	"aegisai/aegis/pkg/policy"
	"aegisai/aegis/pkg/policy/engine"
	"aegisai/aegis/pkg/policy/store"
	"aegisai/aegis/pkg/scoring"
)

func newTestAuditor(policies ...policy.Policy) *Auditor {
	rater := classifier.Disabled{}
	eng := engine.New(store.NewMemory(policies...), rater, nil)
	return New(scoring.NewScorer(rater), eng, rater)
}

func userContext() *auth.UserContext {
	return &auth.UserContext{UserID: "u1", Role: auth.RoleUser, Permissions: auth.RolePermissions[auth.RoleUser]}
}

func TestAudit_NeutralOutputApproved(t *testing.T) {
	a := newTestAuditor()
	res, err := a.Audit(context.Background(), "The committee reviewed the proposal and scheduled a follow-up meeting.", userContext())
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if res.BiasScore != 0 || res.ToxicityScore != 0 {
		t.Errorf("scores = bias %v, toxicity %v, want 0", res.BiasScore, res.ToxicityScore)
	}
	if res.FairnessScore != 8.0 {
		t.Errorf("FairnessScore = %v, want 8.0", res.FairnessScore)
	}
	// (10-0)*0.4 + (10-0)*0.4 + 8*0.2 = 9.6
	if res.OverallScore != 9.6 {
		t.Errorf("OverallScore = %v, want 9.6", res.OverallScore)
	}
	if res.Status != decision.AuditApproved {
		t.Errorf("Status = %q, want APPROVED", res.Status)
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want none", res.Recommendations)
	}
}

func TestAudit_GenderedOutputNeverApproved(t *testing.T) {
	a := newTestAuditor()

	// Texts with a gendered generalization stay out of APPROVED even when
	// their scores alone would clear the approval bar.
	tests := []struct {
		name string
		text string
	}{
		{
			"mild stereotype",
			"All women are naturally better at multitasking than men.",
		},
		{
			"loaded stereotype",
			"Women are naturally better at this, and men are obviously never suited for it. Everyone knows this is typical.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.Audit(context.Background(), tt.text, userContext())
			if err != nil {
				t.Fatalf("Audit() error = %v", err)
			}
			if res.BiasScore == 0 {
				t.Error("expected non-zero bias score for gendered generalizations")
			}
			if !contains(res.PolicyViolations, "gender_stereotype_language") {
				t.Errorf("PolicyViolations = %v, want gender_stereotype_language", res.PolicyViolations)
			}
			if res.Status == decision.AuditApproved {
				t.Errorf("Status = APPROVED with bias %v, overall %v", res.BiasScore, res.OverallScore)
			}
		})
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestAudit_ToxicOutputRevisionRequired(t *testing.T) {
	a := newTestAuditor()
	res, err := a.Audit(context.Background(),
		"You're stupid and your idea is worthless. I hate this pathetic, horrible plan. Shut up.",
		userContext())
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if res.Status != decision.AuditRevisionRequired {
		t.Errorf("Status = %q (toxicity %v, overall %v), want REVISION_REQUIRED",
			res.Status, res.ToxicityScore, res.OverallScore)
	}
	if res.Sentiment.Label == "positive" {
		t.Errorf("Sentiment = %q for hostile text", res.Sentiment.Label)
	}
	if len(res.Recommendations) == 0 {
		t.Error("expected recommendations for toxic output")
	}
}

func TestAudit_RecommendationsCapped(t *testing.T) {
	a := newTestAuditor(policy.Policy{
		ID: "tone", Name: "Tone Policy", Enabled: true,
		AppliesTo: []string{policy.ActivityOutputGeneration},
		Rules: []policy.Rule{{
			Kind:          policy.RuleContentFilter,
			Actions:       []policy.EnforcementAction{policy.ActionWarn},
			ContentFilter: &policy.ContentFilterParams{BlockedTerms: []string{"hate"}},
		}},
	})

	// High bias and toxicity plus a violation produce five deterministic
	// recommendations; the cap keeps the list at five.
	text := "All men are always never every typical naturally obviously clearly definitely wrong. " +
		"I hate this stupid idiot moron, disgusting terrible awful pathetic worthless. " +
		"Ethnic groups have inherent characteristic traits."
	res, err := a.Audit(context.Background(), text, userContext())
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if len(res.Recommendations) > 5 {
		t.Errorf("len(Recommendations) = %d, want at most 5", len(res.Recommendations))
	}
	if res.Status != decision.AuditRevisionRequired {
		t.Errorf("Status = %q, want REVISION_REQUIRED", res.Status)
	}
}

func TestAudit_OutputPolicyViolationReported(t *testing.T) {
	a := newTestAuditor(policy.Policy{
		ID: "no_disparagement", Name: "No Disparagement", Enabled: true,
		AppliesTo: []string{policy.ActivityOutputGeneration},
		Rules: []policy.Rule{{
			Kind:          policy.RuleContentFilter,
			Actions:       []policy.EnforcementAction{policy.ActionReview},
			ContentFilter: &policy.ContentFilterParams{BlockedTerms: []string{"competitor"}},
		}},
	})

	res, err := a.Audit(context.Background(), "Our competitor ships unreliable products.", userContext())
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if len(res.PolicyViolations) != 1 || res.PolicyViolations[0] != "No Disparagement" {
		t.Errorf("PolicyViolations = %v", res.PolicyViolations)
	}
	if res.Status == decision.AuditApproved {
		t.Error("output violating a policy must not be APPROVED")
	}
}
