package policy

// DefaultPolicies returns the built-in governance policy set used when no
// backend supplies one. Stores seed themselves with these on first use.
func DefaultPolicies() []Policy {
	return []Policy{
		{
			ID:          "no_harmful_content",
			Name:        "No Harmful Content",
			Description: "Blocks prompts and outputs containing harmful or dangerous terms.",
			AppliesTo:   []string{ActivityAll},
			Enabled:     true,
			Rules: []Rule{{
				ID:      "harmful_content_filter",
				Kind:    RuleContentFilter,
				Name:    "Harmful Content Filter",
				Actions: []EnforcementAction{ActionWarn, ActionBlock},
				ContentFilter: &ContentFilterParams{
					BlockedTerms: []string{"weapon", "bomb", "violence", "illegal"},
				},
			}},
		},
		{
			ID:          "sensitive_data_protection",
			Name:        "Sensitive Data Protection",
			Description: "Blocks content asking for or exposing credentials and personal data.",
			AppliesTo:   []string{ActivityAll},
			Enabled:     true,
			Rules: []Rule{{
				ID:      "pii_detection",
				Kind:    RuleContentFilter,
				Name:    "PII Detection",
				Actions: []EnforcementAction{ActionBlock, ActionEscalate},
				ContentFilter: &ContentFilterParams{
					BlockedTerms: []string{"password", "social security", "credit card number"},
				},
			}},
		},
		{
			ID:          "policy_management_access",
			Name:        "Policy Management Access",
			Description: "Restricts feedback-driven policy changes to privileged roles.",
			AppliesTo:   []string{ActivityFeedback},
			Enabled:     true,
			Rules: []Rule{{
				ID:      "feedback_role_check",
				Kind:    RuleRoleRestriction,
				Name:    "Feedback Role Check",
				Actions: []EnforcementAction{ActionWarn},
				RoleRestriction: &RoleRestrictionParams{
					AllowedRoles: []string{"admin", "analyst", "user"},
				},
			}},
		},
		{
			ID:          "prompt_length_limit",
			Name:        "Prompt Length Limit",
			Description: "Warns on prompts long enough to hide instructions or exfiltrate data.",
			AppliesTo:   []string{ActivityPromptSubmission},
			Enabled:     true,
			Rules: []Rule{{
				ID:            "prompt_length_check",
				Kind:          RuleContentLength,
				Name:          "Prompt Length Check",
				Actions:       []EnforcementAction{ActionWarn},
				ContentLength: &ContentLengthParams{MaxLength: 4000},
			}},
		},
		{
			ID:          "model_compliance_review",
			Name:        "Model Compliance Review",
			Description: "Flags content the compliance classifier scores as a likely violation.",
			AppliesTo:   []string{ActivityAll},
			Enabled:     true,
			Rules: []Rule{{
				ID:            "compliance_score_check",
				Kind:          RuleModelAnalysis,
				Name:          "Compliance Score Check",
				Actions:       []EnforcementAction{ActionReview},
				ModelAnalysis: &ModelAnalysisParams{Threshold: 0.5},
			}},
		},
	}
}
