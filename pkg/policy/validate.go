package policy

import (
	"fmt"
)

// Validate checks that the policy is well formed: a non-empty ID and name,
// at least one activity and rule, and every rule carrying exactly the
// parameter struct its kind requires.
func (p *Policy) Validate() error {
	if p.ID == "" {
		return &InvalidPolicyError{PolicyID: p.ID, Reason: "missing id"}
	}
	if p.Name == "" {
		return &InvalidPolicyError{PolicyID: p.ID, Reason: "missing name"}
	}
	if len(p.AppliesTo) == 0 {
		return &InvalidPolicyError{PolicyID: p.ID, Reason: "applies_to is empty"}
	}
	if len(p.Rules) == 0 {
		return &InvalidPolicyError{PolicyID: p.ID, Reason: "no rules"}
	}

	for i, rule := range p.Rules {
		if err := rule.Validate(); err != nil {
			return &InvalidPolicyError{PolicyID: p.ID, Reason: fmt.Sprintf("rule %d: %v", i, err)}
		}
	}
	return nil
}

// Validate checks that the rule's kind matches its populated parameters
// and that any configured enforcement actions are known.
func (r *Rule) Validate() error {
	for _, a := range r.Actions {
		switch a {
		case ActionWarn, ActionBlock, ActionReview, ActionEscalate:
		default:
			return fmt.Errorf("unknown enforcement action %q", a)
		}
	}

	populated := 0
	for _, set := range []bool{
		r.ContentFilter != nil,
		r.RoleRestriction != nil,
		r.ContentLength != nil,
		r.ModelAnalysis != nil,
		r.TimeRestriction != nil,
	} {
		if set {
			populated++
		}
	}
	if populated != 1 {
		return fmt.Errorf("expected exactly one parameter block, found %d", populated)
	}

	switch r.Kind {
	case RuleContentFilter:
		if r.ContentFilter == nil {
			return fmt.Errorf("kind %q requires content_filter parameters", r.Kind)
		}
	case RuleRoleRestriction:
		if r.RoleRestriction == nil {
			return fmt.Errorf("kind %q requires role_restriction parameters", r.Kind)
		}
		if len(r.RoleRestriction.AllowedRoles) == 0 {
			return fmt.Errorf("role_restriction has no allowed roles")
		}
	case RuleContentLength:
		if r.ContentLength == nil {
			return fmt.Errorf("kind %q requires content_length parameters", r.Kind)
		}
		if r.ContentLength.MinLength < 0 || r.ContentLength.MaxLength < 0 {
			return fmt.Errorf("content_length bounds must be non-negative")
		}
		if r.ContentLength.MaxLength > 0 && r.ContentLength.MinLength > r.ContentLength.MaxLength {
			return fmt.Errorf("content_length min exceeds max")
		}
	case RuleModelAnalysis:
		if r.ModelAnalysis == nil {
			return fmt.Errorf("kind %q requires model_analysis parameters", r.Kind)
		}
		if r.ModelAnalysis.Threshold < 0 || r.ModelAnalysis.Threshold > 1 {
			return fmt.Errorf("model_analysis threshold must be in [0, 1]")
		}
	case RuleTimeRestriction:
		if r.TimeRestriction == nil {
			return fmt.Errorf("kind %q requires time_restriction parameters", r.Kind)
		}
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	return nil
}
