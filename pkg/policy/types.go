package policy

import (
	"context"
	"strings"
)

// EnforcementAction is what the pipeline does when a policy is violated.
type EnforcementAction string

const (
	ActionWarn     EnforcementAction = "warn"
	ActionBlock    EnforcementAction = "block"
	ActionReview   EnforcementAction = "review"
	ActionEscalate EnforcementAction = "escalate"
)

// ActivityAll marks a policy that applies to every activity.
const ActivityAll = "all"

// Known activities that policies can target.
const (
	ActivityPromptSubmission = "prompt_submission"
	ActivityOutputGeneration = "output_generation"
	ActivityFeedback         = "feedback_collection"
)

// RuleKind discriminates the rule union. Each kind has exactly one
// populated parameter struct on Rule.
type RuleKind string

const (
	RuleContentFilter   RuleKind = "content_filter"
	RuleRoleRestriction RuleKind = "role_restriction"
	RuleContentLength   RuleKind = "content_length"
	RuleModelAnalysis   RuleKind = "model_analysis"
	RuleTimeRestriction RuleKind = "time_restriction"
)

// Rule is a tagged union: Kind selects which parameter struct applies.
// Exactly one parameter field must be non-nil and it must match Kind.
type Rule struct {
	ID   string   `yaml:"id,omitempty" json:"id,omitempty"`
	Kind RuleKind `yaml:"kind" json:"kind"`
	Name string   `yaml:"name,omitempty" json:"name,omitempty"`

	// Actions is what enforcement applies when the rule fails. Empty means
	// the kind's default set.
	Actions []EnforcementAction `yaml:"enforcement_actions,omitempty" json:"enforcement_actions,omitempty"`

	ContentFilter   *ContentFilterParams   `yaml:"content_filter,omitempty" json:"content_filter,omitempty"`
	RoleRestriction *RoleRestrictionParams `yaml:"role_restriction,omitempty" json:"role_restriction,omitempty"`
	ContentLength   *ContentLengthParams   `yaml:"content_length,omitempty" json:"content_length,omitempty"`
	ModelAnalysis   *ModelAnalysisParams   `yaml:"model_analysis,omitempty" json:"model_analysis,omitempty"`
	TimeRestriction *TimeRestrictionParams `yaml:"time_restriction,omitempty" json:"time_restriction,omitempty"`
}

// EnforcementActions returns the rule's configured actions, falling back
// to the kind's default set when none are configured.
func (r *Rule) EnforcementActions() []EnforcementAction {
	if len(r.Actions) > 0 {
		return r.Actions
	}
	switch r.Kind {
	case RuleRoleRestriction:
		return []EnforcementAction{ActionBlock}
	case RuleModelAnalysis:
		return []EnforcementAction{ActionReview}
	case RuleTimeRestriction:
		return nil
	default:
		return []EnforcementAction{ActionWarn}
	}
}

// ContentFilterParams holds term lists for content filtering. The rule
// fails when any blocked term occurs or any required term is absent.
// Matching is case-insensitive substring. With both lists empty the
// rule always passes.
type ContentFilterParams struct {
	BlockedTerms  []string `yaml:"blocked_terms,omitempty" json:"blocked_terms,omitempty"`
	RequiredTerms []string `yaml:"required_terms,omitempty" json:"required_terms,omitempty"`
}

// RoleRestrictionParams lists the roles permitted to act and the
// activities barred outright regardless of role.
type RoleRestrictionParams struct {
	AllowedRoles         []string `yaml:"allowed_roles" json:"allowed_roles"`
	RestrictedActivities []string `yaml:"restricted_activities,omitempty" json:"restricted_activities,omitempty"`
}

// ContentLengthParams bounds content length in characters. A zero bound
// is not enforced.
type ContentLengthParams struct {
	MinLength int `yaml:"min_length" json:"min_length"`
	MaxLength int `yaml:"max_length" json:"max_length"`
}

// ModelAnalysisParams configures model-backed compliance scoring. Content
// scoring strictly above Threshold (0-1 scale) violates the rule; a score
// exactly at the threshold passes.
type ModelAnalysisParams struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// TimeRestrictionParams describes an allowed time window. Evaluation of
// this kind always passes; the window is recorded for reporting only.
type TimeRestrictionParams struct {
	AllowedStart string `yaml:"allowed_start" json:"allowed_start"`
	AllowedEnd   string `yaml:"allowed_end" json:"allowed_end"`
}

// Policy is a named set of rules applied to one or more activities for
// one or more roles.
type Policy struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description" json:"description"`
	ApplicableRoles []string `yaml:"applicable_roles,omitempty" json:"applicable_roles,omitempty"`
	AppliesTo       []string `yaml:"applies_to" json:"applies_to"`
	Rules           []Rule   `yaml:"rules" json:"rules"`
	Enabled         bool     `yaml:"enabled" json:"enabled"`
}

// AppliesToActivity reports whether the policy targets the activity.
// A policy listing ActivityAll applies to everything.
func (p *Policy) AppliesToActivity(activity string) bool {
	for _, a := range p.AppliesTo {
		if a == ActivityAll || strings.EqualFold(a, activity) {
			return true
		}
	}
	return false
}

// AppliesToRole reports whether the policy targets the role. A policy
// with no role list applies to every role.
func (p *Policy) AppliesToRole(role string) bool {
	if len(p.ApplicableRoles) == 0 {
		return true
	}
	for _, r := range p.ApplicableRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// RuleVerdict is the outcome of evaluating one rule. Actions carries the
// rule's enforcement actions when it failed, and is empty otherwise.
type RuleVerdict struct {
	RuleID  string              `json:"rule_id,omitempty"`
	Kind    RuleKind            `json:"kind"`
	Passed  bool                `json:"passed"`
	Detail  string              `json:"detail,omitempty"`
	Actions []EnforcementAction `json:"actions,omitempty"`
}

// PolicyVerdict is the outcome of evaluating one policy: compliant only
// when every rule passed. Actions is the ordered union of the failing
// rules' enforcement actions.
type PolicyVerdict struct {
	PolicyID   string              `json:"policy_id"`
	PolicyName string              `json:"policy_name"`
	Compliant  bool                `json:"compliant"`
	Actions    []EnforcementAction `json:"actions,omitempty"`
	Rules      []RuleVerdict       `json:"rules"`
}

// HasAction reports whether the verdict's action union contains a.
func (v *PolicyVerdict) HasAction(a EnforcementAction) bool {
	for _, got := range v.Actions {
		if got == a {
			return true
		}
	}
	return false
}

// Store provides read access to the active policy set. Implementations
// return policies in a stable order.
type Store interface {
	// ListPolicies returns all policies, enabled or not.
	ListPolicies(ctx context.Context) ([]Policy, error)
}
