package engine

import (
	"context"
	"fmt"
	"strings"

	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/policy"
)

// defaultModelThreshold applies when a model_analysis rule leaves its
// threshold unset.
const defaultModelThreshold = 0.5

// Input carries the facts a rule is evaluated against.
type Input struct {
	// Activity is what the actor is doing, e.g. "prompt_submission".
	Activity string

	// Content is the prompt or output text under evaluation.
	Content string

	// Role is the actor's role, e.g. "admin", "analyst", "user".
	Role string
}

// evaluateRule evaluates one rule against the input. Rules that gate access
// (content_filter, role_restriction) fail closed: if the rule cannot be
// evaluated, the verdict is a violation. All other kinds fail open. A
// failing verdict carries the rule's enforcement actions.
func (e *Engine) evaluateRule(ctx context.Context, rule policy.Rule, in Input) policy.RuleVerdict {
	var v policy.RuleVerdict

	switch rule.Kind {
	case policy.RuleContentFilter:
		v = evalContentFilter(rule.ContentFilter, in.Content)

	case policy.RuleRoleRestriction:
		v = evalRoleRestriction(rule.RoleRestriction, in.Role, in.Activity)

	case policy.RuleContentLength:
		v = evalContentLength(rule.ContentLength, in.Content)

	case policy.RuleModelAnalysis:
		v = e.evalModelAnalysis(ctx, rule.ModelAnalysis, in.Content)

	case policy.RuleTimeRestriction:
		// Time windows are recorded for reporting but never enforced.
		v = policy.RuleVerdict{Kind: rule.Kind, Passed: true}

	default:
		// Unknown kinds cannot gate access, so they fail open.
		e.logger.Warn("skipping rule of unknown kind", "kind", string(rule.Kind))
		v = policy.RuleVerdict{
			Kind:   rule.Kind,
			Passed: true,
			Detail: fmt.Sprintf("unknown rule kind %q skipped", rule.Kind),
		}
	}

	v.RuleID = rule.ID
	if !v.Passed {
		v.Actions = rule.EnforcementActions()
	}
	return v
}

func evalContentFilter(params *policy.ContentFilterParams, content string) policy.RuleVerdict {
	v := policy.RuleVerdict{Kind: policy.RuleContentFilter}
	if params == nil {
		v.Detail = "content_filter rule misconfigured"
		return v
	}

	lower := strings.ToLower(content)
	var hits []string
	for _, term := range params.BlockedTerms {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			hits = append(hits, fmt.Sprintf("content contains blocked term %q", term))
		}
	}
	for _, term := range params.RequiredTerms {
		if term != "" && !strings.Contains(lower, strings.ToLower(term)) {
			hits = append(hits, fmt.Sprintf("content missing required term %q", term))
		}
	}
	if len(hits) > 0 {
		v.Detail = strings.Join(hits, "; ")
		return v
	}
	v.Passed = true
	return v
}

func evalRoleRestriction(params *policy.RoleRestrictionParams, role, activity string) policy.RuleVerdict {
	v := policy.RuleVerdict{Kind: policy.RuleRoleRestriction}
	if params == nil {
		v.Detail = "role_restriction rule misconfigured"
		return v
	}
	if role == "" {
		v.Detail = "no role on request"
		return v
	}

	var hits []string
	roleAllowed := false
	for _, allowed := range params.AllowedRoles {
		if strings.EqualFold(allowed, role) {
			roleAllowed = true
			break
		}
	}
	if !roleAllowed {
		hits = append(hits, fmt.Sprintf("role %q not in allowed roles [%s]", role, strings.Join(params.AllowedRoles, ", ")))
	}
	for _, restricted := range params.RestrictedActivities {
		if strings.EqualFold(restricted, activity) {
			hits = append(hits, fmt.Sprintf("activity %q is restricted", activity))
			break
		}
	}
	if len(hits) > 0 {
		v.Detail = strings.Join(hits, "; ")
		return v
	}
	v.Passed = true
	return v
}

func evalContentLength(params *policy.ContentLengthParams, content string) policy.RuleVerdict {
	v := policy.RuleVerdict{Kind: policy.RuleContentLength, Passed: true}
	if params == nil {
		// Length limits are advisory, so a misconfigured rule passes.
		v.Detail = "content_length rule misconfigured"
		return v
	}

	// Both bounds are checked independently so a contradictory min/max
	// configuration reports both violations.
	length := len([]rune(content))
	var hits []string
	if params.MaxLength > 0 && length > params.MaxLength {
		hits = append(hits, fmt.Sprintf("content length %d exceeds maximum %d", length, params.MaxLength))
	}
	if params.MinLength > 0 && length < params.MinLength {
		hits = append(hits, fmt.Sprintf("content length %d below minimum %d", length, params.MinLength))
	}
	if len(hits) > 0 {
		v.Passed = false
		v.Detail = strings.Join(hits, "; ")
	}
	return v
}

func (e *Engine) evalModelAnalysis(ctx context.Context, params *policy.ModelAnalysisParams, content string) policy.RuleVerdict {
	v := policy.RuleVerdict{Kind: policy.RuleModelAnalysis, Passed: true}
	if params == nil {
		v.Detail = "model_analysis rule misconfigured"
		return v
	}

	threshold := params.Threshold
	if threshold == 0 {
		threshold = defaultModelThreshold
	}

	rating, err := e.rater.Rate(ctx, classifier.KindCompliance, content)
	if err != nil {
		// Only unknown kinds error, which is a programming mistake.
		// Model analysis fails open with the neutral score.
		e.logger.Error("model analysis rating failed", "error", err)
		v.Detail = "model analysis unavailable, rule passed"
		return v
	}
	if rating.Fallback {
		v.Detail = "model analysis used neutral fallback"
		return v
	}

	// A score exactly at the threshold passes.
	if rating.Score > threshold {
		v.Passed = false
		v.Detail = fmt.Sprintf("model compliance score %.2f above threshold %.2f", rating.Score, threshold)
		if rating.Reasoning != "" {
			v.Detail += ": " + rating.Reasoning
		}
	}
	return v
}
