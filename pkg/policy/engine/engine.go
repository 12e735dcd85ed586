package engine

import (
	"context"
	"log/slog"

	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/policy"
)

// Observer receives evaluation outcomes. The metrics collector satisfies
// it; a nil observer disables recording.
type Observer interface {
	RecordPolicyEvaluation(outcome string)
	RecordRuleViolation(ruleType string)
}

// Engine evaluates the active policy set against an activity. Policies are
// read from the store on every evaluation, so a hot-reloaded store takes
// effect immediately.
type Engine struct {
	store    policy.Store
	rater    classifier.Rater
	observer Observer
	logger   *slog.Logger
}

// New creates an Engine. rater must not be nil; pass classifier.Disabled
// when no model endpoint is configured. observer may be nil.
func New(store policy.Store, rater classifier.Rater, observer Observer) *Engine {
	return &Engine{
		store:    store,
		rater:    rater,
		observer: observer,
		logger:   slog.Default().With("component", "policy_engine"),
	}
}

// Applicable returns the enabled policies targeting both the role and the
// activity, in store order.
func (e *Engine) Applicable(ctx context.Context, role, activity string) ([]policy.Policy, error) {
	all, err := e.store.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}

	var applicable []policy.Policy
	for _, p := range all {
		if p.Enabled && p.AppliesToRole(role) && p.AppliesToActivity(activity) {
			applicable = append(applicable, p)
		}
	}
	return applicable, nil
}

// Evaluate runs every applicable policy against the input and returns one
// verdict per policy. A policy is compliant only when all its rules pass.
func (e *Engine) Evaluate(ctx context.Context, in Input) ([]policy.PolicyVerdict, error) {
	applicable, err := e.Applicable(ctx, in.Role, in.Activity)
	if err != nil {
		return nil, err
	}

	verdicts := make([]policy.PolicyVerdict, 0, len(applicable))
	for _, p := range applicable {
		verdict := policy.PolicyVerdict{
			PolicyID:   p.ID,
			PolicyName: p.Name,
			Compliant:  true,
			Rules:      make([]policy.RuleVerdict, 0, len(p.Rules)),
		}

		for _, rule := range p.Rules {
			rv := e.evaluateRule(ctx, rule, in)
			verdict.Rules = append(verdict.Rules, rv)
			if !rv.Passed {
				verdict.Compliant = false
				verdict.Actions = unionActions(verdict.Actions, rv.Actions)
				if e.observer != nil {
					e.observer.RecordRuleViolation(string(rv.Kind))
				}
			}
		}

		if e.observer != nil {
			outcome := "compliant"
			if !verdict.Compliant {
				outcome = "non_compliant"
			}
			e.observer.RecordPolicyEvaluation(outcome)
		}

		if !verdict.Compliant {
			e.logger.InfoContext(ctx, "policy violated",
				"policy_id", p.ID,
				"activity", in.Activity,
				"actions", actionStrings(verdict.Actions),
			)
		}

		verdicts = append(verdicts, verdict)
	}

	return verdicts, nil
}

// unionActions appends the actions not already present, preserving first
// occurrence order.
func unionActions(have, add []policy.EnforcementAction) []policy.EnforcementAction {
	for _, a := range add {
		seen := false
		for _, h := range have {
			if h == a {
				seen = true
				break
			}
		}
		if !seen {
			have = append(have, a)
		}
	}
	return have
}

func actionStrings(actions []policy.EnforcementAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}

// Violations filters verdicts down to the non-compliant ones.
func Violations(verdicts []policy.PolicyVerdict) []policy.PolicyVerdict {
	var out []policy.PolicyVerdict
	for _, v := range verdicts {
		if !v.Compliant {
			out = append(out, v)
		}
	}
	return out
}
