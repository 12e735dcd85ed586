package feedback

import (
	"context"
	"math"
	"strings"

	"aegisai/aegis/pkg/scoring"
)

// Analysis is the derived view of a feedback entry.
type Analysis struct {
	Sentiment          SentimentResult `json:"sentiment"`
	Themes             []string        `json:"themes"`
	Priority           string          `json:"priority"`
	Actionable         bool            `json:"actionable"`
	CategoryConfidence float64         `json:"category_confidence"`
}

// SentimentResult extends the lexical sentiment with a confidence value.
type SentimentResult struct {
	Label        string  `json:"label"`
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Confidence   float64 `json:"confidence"`
}

var themeKeywords = map[string][]string{
	"usability":   {"easy", "difficult", "confusing", "intuitive", "user-friendly", "interface"},
	"performance": {"slow", "fast", "speed", "performance", "lag", "responsive"},
	"accuracy":    {"accurate", "wrong", "correct", "mistake", "error", "precise"},
	"features":    {"feature", "functionality", "capability", "option", "tool"},
	"design":      {"design", "layout", "appearance", "visual", "ui", "ux"},
	"reliability": {"reliable", "stable", "crash", "bug", "issue", "problem"},
	"support":     {"help", "support", "documentation", "guide", "assistance"},
	"security":    {"security", "privacy", "safe", "secure", "protection"},
	"integration": {"integration", "compatibility", "connect", "sync", "api"},
}

// themeOrder keeps theme output deterministic.
var themeOrder = []string{
	"usability", "performance", "accuracy", "features", "design",
	"reliability", "support", "security", "integration",
}

var actionableKeywords = []string{
	"should", "could", "would", "suggest", "recommend", "improve",
	"add", "remove", "change", "fix", "update", "enhance",
}

var categoryKeywords = map[string][]string{
	"bug_report":      {"bug", "error", "crash", "broken", "issue", "problem"},
	"feature_request": {"feature", "add", "new", "enhancement", "improvement"},
	"usability":       {"difficult", "confusing", "hard", "easy", "intuitive"},
	"performance":     {"slow", "fast", "speed", "performance", "lag"},
	"general":         {"feedback", "comment", "suggestion", "opinion"},
}

func (c *Collector) analyze(ctx context.Context, entry Entry) Analysis {
	sentiment := analyzeSentiment(entry.Content, entry.Rating)
	themes := c.extractThemes(ctx, entry.Content)

	return Analysis{
		Sentiment:          sentiment,
		Themes:             themes,
		Priority:           assessPriority(entry.Rating, sentiment.Label, themes),
		Actionable:         isActionable(entry.Content, themes),
		CategoryConfidence: categoryConfidence(entry.Content, entry.Category),
	}
}

// analyzeSentiment runs lexical sentiment and lets an explicit rating
// override the label: a rating of 2 or below is negative, 4 or above is
// positive, regardless of the text.
func analyzeSentiment(content string, rating int) SentimentResult {
	s := scoring.AnalyzeSentiment(content)
	out := SentimentResult{
		Label:        s.Label,
		Polarity:     s.Polarity,
		Subjectivity: s.Subjectivity,
	}

	if rating != 0 {
		switch {
		case rating <= 2:
			out.Label = "negative"
			out.Polarity = math.Min(out.Polarity, -0.1)
		case rating >= 4:
			out.Label = "positive"
			out.Polarity = math.Max(out.Polarity, 0.1)
		default:
			out.Label = "neutral"
		}
	}

	out.Confidence = math.Abs(out.Polarity) + 0.3
	return out
}

// extractThemes combines keyword themes with up to three model-suggested
// ones, deduplicated and capped at five.
func (c *Collector) extractThemes(ctx context.Context, content string) []string {
	lower := strings.ToLower(content)

	var themes []string
	seen := make(map[string]bool)
	for _, theme := range themeOrder {
		for _, kw := range themeKeywords[theme] {
			if strings.Contains(lower, kw) {
				themes = append(themes, theme)
				seen[theme] = true
				break
			}
		}
	}

	for _, theme := range c.modelThemes(ctx, content) {
		if !seen[theme] {
			themes = append(themes, theme)
			seen[theme] = true
		}
	}

	if len(themes) > 5 {
		themes = themes[:5]
	}
	return themes
}

func (c *Collector) modelThemes(ctx context.Context, content string) []string {
	prompt := "Analyze the following user feedback and identify the main themes or topics.\n" +
		"Return only the theme names, one per line, maximum 3 themes.\n\n" +
		"Feedback: \"" + content + "\"\n\nThemes:"

	text, err := c.rater.Generate(ctx, prompt)
	if err != nil {
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" || strings.HasPrefix(line, "themes:") {
			continue
		}
		out = append(out, line)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// assessPriority ranks feedback. An unset rating counts as middling.
func assessPriority(rating int, sentimentLabel string, themes []string) string {
	if rating == 0 {
		rating = 3
	}

	if rating <= 2 && sentimentLabel == "negative" {
		return "high"
	}
	if hasAny(themes, "security", "reliability", "accuracy") {
		return "high"
	}
	if rating <= 3 || sentimentLabel == "negative" {
		return "medium"
	}
	if hasAny(themes, "usability", "performance", "features") {
		return "medium"
	}
	return "low"
}

// isActionable requires actionable language, at least one theme, and
// enough substance to act on.
func isActionable(content string, themes []string) bool {
	lower := strings.ToLower(content)

	hasActionableLanguage := false
	for _, kw := range actionableKeywords {
		if strings.Contains(lower, kw) {
			hasActionableLanguage = true
			break
		}
	}

	return hasActionableLanguage && len(themes) > 0 && len(strings.Fields(content)) >= 5
}

// categoryConfidence estimates how well the assigned category matches the
// content. Unknown categories score 0.5.
func categoryConfidence(content, category string) float64 {
	keywords, ok := categoryKeywords[category]
	if !ok || len(keywords) == 0 {
		return 0.5
	}

	lower := strings.ToLower(content)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	return math.Min(1.0, float64(matches)/float64(len(keywords))+0.3)
}

func hasAny(list []string, wanted ...string) bool {
	for _, item := range list {
		for _, w := range wanted {
			if item == w {
				return true
			}
		}
	}
	return false
}
