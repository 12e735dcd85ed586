package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/decision"
)

// Advisory types.
const (
	TypePromptBlocked   = "prompt_blocked"
	TypeOutputFlagged   = "output_flagged"
	TypePolicyViolation = "policy_violation"
	TypeRiskWarning     = "risk_warning"
	TypeGeneral         = "general"
)

// Required actions.
const (
	ActionModifyRequest    = "modify_request"
	ActionReviewAndProceed = "review_and_proceed"
	ActionNone             = "no_action_required"
)

var guidanceTemplates = map[string]string{
	TypePromptBlocked:   "Your prompt was blocked due to potential policy violations. Consider revising to ensure compliance.",
	TypeOutputFlagged:   "The AI output was flagged for review. Please consider the recommendations provided.",
	TypePolicyViolation: "This action violates organizational policies. Please review the applicable guidelines.",
	TypeRiskWarning:     "This activity has been flagged as potentially risky. Proceed with caution.",
}

const defaultGuidance = "Please review your request for compliance."

// Request asks for guidance after a governance decision.
type Request struct {
	AdvisoryType string            `json:"advisory_type"`
	Violations   []string          `json:"violations"`
	RiskFactors  []string          `json:"risk_factors"`
	Context      map[string]string `json:"context"`
}

// Guidance is the explanatory part of an advisory.
type Guidance struct {
	PrimaryMessage string   `json:"primary_message"`
	SpecificIssues []string `json:"specific_issues"`
	AIGuidance     string   `json:"ai_guidance"`
	ActionRequired string   `json:"action_required"`
}

// Alternative is a suggested compliant approach.
type Alternative struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// Resource is an educational reference.
type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Educational groups compliance learning material relevant to the issues.
type Educational struct {
	RelevantTopics      []string   `json:"relevant_topics"`
	Resources           []Resource `json:"recommended_resources"`
	TrainingSuggestions []string   `json:"training_suggestions"`
}

// Result is a complete advisory.
type Result struct {
	AdvisoryType     string        `json:"advisory_type"`
	Guidance         Guidance      `json:"guidance"`
	Alternatives     []Alternative `json:"alternatives"`
	Educational      Educational   `json:"educational_content"`
	Severity         string        `json:"severity"`
	FollowUpRequired bool          `json:"follow_up_required"`
	ProcessedAt      time.Time     `json:"processed_at"`
}

// Advisor explains governance decisions and suggests compliant
// alternatives.
type Advisor struct {
	rater  classifier.Rater
	logger *slog.Logger
}

// New creates an Advisor.
func New(rater classifier.Rater) *Advisor {
	return &Advisor{
		rater:  rater,
		logger: slog.Default().With("component", "advisory"),
	}
}

// Advise builds an advisory for the request. Model failures degrade to the
// deterministic templates alone.
func (a *Advisor) Advise(ctx context.Context, req Request) (*Result, error) {
	advisoryType := req.AdvisoryType
	if advisoryType == "" {
		advisoryType = TypeGeneral
	}

	issues := append(append([]string{}, req.Violations...), req.RiskFactors...)
	severity := decision.Severity(issues)

	result := &Result{
		AdvisoryType:     advisoryType,
		Guidance:         a.guidance(ctx, advisoryType, req),
		Alternatives:     a.alternatives(ctx, req),
		Educational:      educationalContent(issues),
		Severity:         severity,
		FollowUpRequired: severity == decision.SeverityHigh || severity == decision.SeverityMedium,
		ProcessedAt:      time.Now().UTC(),
	}

	a.logger.InfoContext(ctx, "advisory provided",
		"advisory_type", advisoryType,
		"violations_count", len(req.Violations),
		"risk_factors_count", len(req.RiskFactors),
		"severity", severity,
	)

	return result, nil
}

func (a *Advisor) guidance(ctx context.Context, advisoryType string, req Request) Guidance {
	message, ok := guidanceTemplates[advisoryType]
	if !ok {
		message = defaultGuidance
	}

	var specific []string
	if len(req.Violations) > 0 {
		specific = append(specific, "Policy violations detected: "+strings.Join(req.Violations, ", "))
	}
	if len(req.RiskFactors) > 0 {
		specific = append(specific, "Risk factors identified: "+strings.Join(req.RiskFactors, ", "))
	}

	action := ActionNone
	switch {
	case len(req.Violations) > 0:
		action = ActionModifyRequest
	case len(req.RiskFactors) > 0:
		action = ActionReviewAndProceed
	}

	return Guidance{
		PrimaryMessage: message,
		SpecificIssues: specific,
		AIGuidance:     a.modelGuidance(ctx, advisoryType, req),
		ActionRequired: action,
	}
}

func (a *Advisor) modelGuidance(ctx context.Context, advisoryType string, req Request) string {
	prompt := fmt.Sprintf("Provide helpful, specific guidance for a user whose AI request has been flagged.\n\n"+
		"Advisory Type: %s\nPolicy Violations: %s\nRisk Factors: %s\n\n"+
		"Explain why the request was flagged, suggest specific improvements, and keep an educational tone. "+
		"Keep the response concise and practical.",
		advisoryType, joinOrNone(req.Violations), joinOrNone(req.RiskFactors))

	text, err := a.rater.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("guidance generation failed", "error", err)
		return "Unable to generate detailed guidance at this time. Please review the specific issues listed above."
	}
	return strings.TrimSpace(text)
}

// alternatives pairs a deterministic alternative per violation class with
// model-generated ones, capped at five.
func (a *Advisor) alternatives(ctx context.Context, req Request) []Alternative {
	var out []Alternative
	for _, violation := range req.Violations {
		if alt, ok := alternativeForViolation(violation); ok {
			out = append(out, alt)
		}
	}

	out = append(out, a.modelAlternatives(ctx, req)...)
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func alternativeForViolation(violation string) (Alternative, bool) {
	lower := strings.ToLower(violation)
	switch {
	case strings.Contains(lower, "bias"):
		return Alternative{
			Type:        "bias_mitigation",
			Title:       "Use Inclusive Language",
			Description: "Rephrase using neutral, inclusive language that doesn't make assumptions about groups",
			Example:     "Instead of generalizations, use specific, factual statements",
		}, true
	case strings.Contains(lower, "privacy"):
		return Alternative{
			Type:        "privacy_protection",
			Title:       "Remove Personal Information",
			Description: "Remove or anonymize any personal, sensitive, or identifying information",
			Example:     "Use placeholder values like [NAME] or [COMPANY] instead of real data",
		}, true
	case strings.Contains(lower, "harmful"):
		return Alternative{
			Type:        "content_moderation",
			Title:       "Focus on Constructive Content",
			Description: "Reframe the request to focus on positive, constructive outcomes",
			Example:     "Ask for educational or helpful information instead",
		}, true
	}
	return Alternative{}, false
}

// modelAlternatives asks the model for alternatives as JSON, falling back
// to a line-oriented parse when the reply is prose.
func (a *Advisor) modelAlternatives(ctx context.Context, req Request) []Alternative {
	prompt := fmt.Sprintf("Generate 2-3 specific, actionable alternatives for a user whose request was flagged.\n\n"+
		"Violations: %s\n\n"+
		"Format as a JSON array of objects with 'title', 'description', and 'example' fields.",
		joinOrNone(req.Violations))

	text, err := a.rater.Generate(ctx, prompt)
	if err != nil {
		return nil
	}

	var decoded []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Example     string `json:"example"`
	}
	if jsonErr := json.Unmarshal([]byte(strings.TrimSpace(text)), &decoded); jsonErr == nil {
		out := make([]Alternative, 0, len(decoded))
		for i, d := range decoded {
			if i == 3 {
				break
			}
			title := d.Title
			if title == "" {
				title = "Alternative Approach"
			}
			out = append(out, Alternative{
				Type:        "ai_generated",
				Title:       title,
				Description: d.Description,
				Example:     d.Example,
			})
		}
		return out
	}

	return parseAlternativesFromText(text)
}

// parseAlternativesFromText extracts alternatives from a prose reply with
// "Title:"/"Description:"/"Example:" lines or a numbered list.
func parseAlternativesFromText(text string) []Alternative {
	var out []Alternative
	var current *Alternative

	flush := func() {
		if current != nil && current.Title != "" {
			current.Type = "ai_generated"
			out = append(out, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Title:") || strings.HasPrefix(line, "1.") ||
			strings.HasPrefix(line, "2.") || strings.HasPrefix(line, "3."):
			flush()
			current = &Alternative{Title: afterColonOrAll(line)}
		case strings.HasPrefix(line, "Description:"):
			if current != nil {
				current.Description = afterColonOrAll(line)
			}
		case strings.HasPrefix(line, "Example:"):
			if current != nil {
				current.Example = afterColonOrAll(line)
			}
		}
	}
	flush()

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func afterColonOrAll(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

// educationalContent maps issues to compliance topics, resources, and
// training suggestions.
func educationalContent(issues []string) Educational {
	topicSet := make(map[string]bool)
	var resources []Resource

	for _, issue := range issues {
		lower := strings.ToLower(issue)
		switch {
		case strings.Contains(lower, "bias"):
			if !topicSet["AI Bias and Fairness"] {
				topicSet["AI Bias and Fairness"] = true
				resources = append(resources, Resource{
					Title:       "Understanding AI Bias",
					Description: "Learn about different types of bias in AI systems and how to mitigate them",
					Type:        "guide",
				})
			}
		case strings.Contains(lower, "privacy"):
			if !topicSet["Data Privacy and Protection"] {
				topicSet["Data Privacy and Protection"] = true
				resources = append(resources, Resource{
					Title:       "Data Privacy Best Practices",
					Description: "Guidelines for handling personal and sensitive information",
					Type:        "policy",
				})
			}
		case strings.Contains(lower, "security"):
			if !topicSet["AI Security"] {
				topicSet["AI Security"] = true
				resources = append(resources, Resource{
					Title:       "AI Security Guidelines",
					Description: "Best practices for secure AI usage and prompt engineering",
					Type:        "guide",
				})
			}
		}
	}

	topics := make([]string, 0, len(topicSet))
	for topic := range topicSet {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	trainingMap := map[string]string{
		"AI Bias and Fairness":        "Complete the AI Ethics and Bias Awareness training module",
		"Data Privacy and Protection": "Review the Data Privacy and GDPR compliance course",
		"AI Security":                 "Take the AI Security and Prompt Engineering best practices workshop",
	}
	training := make([]string, 0, len(topics))
	for _, topic := range topics {
		training = append(training, trainingMap[topic])
	}

	return Educational{
		RelevantTopics:      topics,
		Resources:           resources,
		TrainingSuggestions: training,
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
