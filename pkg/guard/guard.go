package guard

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/decision"
	"aegisai/aegis/pkg/policy"
	"aegisai/aegis/pkg/policy/engine"
	"aegisai/aegis/pkg/scoring"
)

// Content flags attached to screened prompts.
const (
	FlagViolence  = "potential_violence"
	FlagDiscrim   = "potential_discrimination"
	FlagPrivacy   = "potential_privacy_violation"
)

var violenceKeywords = []string{"kill", "murder", "violence", "attack", "harm", "hurt"}

var discriminationKeywords = []string{"racist", "sexist", "discriminate", "stereotype"}

var privacyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`),
}

// suggestionRiskThreshold is the heuristic risk score above which the
// model is asked for improvement suggestions.
const suggestionRiskThreshold = 3.0

// Result is the screening outcome for a prompt.
type Result struct {
	Status           string    `json:"status"`
	RiskScore        float64   `json:"risk_score"`
	Confidence       float64   `json:"confidence"`
	PolicyViolations []string  `json:"policy_violations"`
	ContentFlags     []string  `json:"content_flags"`
	Suggestions      []string  `json:"suggestions"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// Guard screens prompts before they reach a model: risk scoring, a policy
// scan, harmful-content flagging, and improvement suggestions.
type Guard struct {
	scorer *scoring.Scorer
	engine *engine.Engine
	rater  classifier.Rater
	logger *slog.Logger
}

// New creates a Guard.
func New(scorer *scoring.Scorer, eng *engine.Engine, rater classifier.Rater) *Guard {
	return &Guard{
		scorer: scorer,
		engine: eng,
		rater:  rater,
		logger: slog.Default().With("component", "prompt_guard"),
	}
}

// Screen evaluates a prompt and returns the screening result. A policy
// store failure degrades to an empty violation list rather than failing
// the screening.
func (g *Guard) Screen(ctx context.Context, prompt string, uc *auth.UserContext) (*Result, error) {
	riskScore := g.scorer.Risk(ctx, prompt)
	violations := g.policyViolations(ctx, prompt, uc)
	flags := DetectContentFlags(prompt)

	status := decision.ScreenPrompt(riskScore, len(violations), len(flags))

	result := &Result{
		Status:           status,
		RiskScore:        riskScore,
		Confidence:       scoring.Confidence(riskScore),
		PolicyViolations: violations,
		ContentFlags:     flags,
		Suggestions:      g.suggestions(ctx, prompt, violations),
		ProcessedAt:      time.Now().UTC(),
	}

	g.logger.InfoContext(ctx, "prompt screened",
		"prompt_length", len(prompt),
		"risk_score", riskScore,
		"status", status,
		"violations_count", len(violations),
	)

	return result, nil
}

// policyViolations returns the names of the non-compliant policies for the
// prompt submission activity.
func (g *Guard) policyViolations(ctx context.Context, prompt string, uc *auth.UserContext) []string {
	role := auth.RoleUser
	if uc != nil {
		role = uc.Role
	}

	verdicts, err := g.engine.Evaluate(ctx, engine.Input{
		Activity: policy.ActivityPromptSubmission,
		Content:  prompt,
		Role:     role,
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "policy check failed", "error", err)
		return nil
	}

	var names []string
	for _, v := range engine.Violations(verdicts) {
		names = append(names, v.PolicyName)
	}
	return names
}

// DetectContentFlags scans a prompt for harmful content patterns. Privacy
// detection counts at most once no matter how many patterns match.
func DetectContentFlags(prompt string) []string {
	var flags []string
	lower := strings.ToLower(prompt)

	for _, kw := range violenceKeywords {
		if strings.Contains(lower, kw) {
			flags = append(flags, FlagViolence)
			break
		}
	}

	for _, kw := range discriminationKeywords {
		if strings.Contains(lower, kw) {
			flags = append(flags, FlagDiscrim)
			break
		}
	}

	for _, pattern := range privacyPatterns {
		if pattern.MatchString(prompt) {
			flags = append(flags, FlagPrivacy)
			break
		}
	}

	return flags
}

// suggestions builds improvement suggestions: deterministic ones first,
// then up to three model-generated ones for flagged prompts.
func (g *Guard) suggestions(ctx context.Context, prompt string, violations []string) []string {
	var suggestions []string

	if len(violations) > 0 {
		suggestions = append(suggestions, "Review and modify content to comply with organizational policies")
	}
	if len(prompt) > 2000 {
		suggestions = append(suggestions, "Consider shortening the prompt for better processing")
	}

	if len(violations) > 0 || scoring.RiskHeuristic(prompt) > suggestionRiskThreshold {
		suggestions = append(suggestions, g.modelSuggestions(ctx, prompt)...)
	}

	return suggestions
}

func (g *Guard) modelSuggestions(ctx context.Context, prompt string) []string {
	req := fmt.Sprintf("The following prompt has been flagged for potential compliance issues.\n"+
		"Provide 2-3 specific, actionable suggestions to make it more compliant and appropriate:\n\n"+
		"Prompt: %q\n\nSuggestions:", prompt)

	text, err := g.rater.Generate(ctx, req)
	if err != nil {
		g.logger.Warn("suggestion generation failed", "error", err)
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Suggestions:") {
			continue
		}
		out = append(out, line)
		if len(out) == 3 {
			break
		}
	}
	return out
}
