package scoring

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"aegisai/aegis/pkg/classifier"
)

// promptLengthThreshold is the character count above which a prompt earns
// a length penalty. Very long prompts correlate with injection attempts.
const promptLengthThreshold = 2000

// Scorer combines lexical heuristics with model-backed analysis. The
// heuristic layer always runs; the model contributes up to 3 additional
// points per dimension and contributes zero when unavailable.
type Scorer struct {
	rater  classifier.Rater
	logger *slog.Logger
}

// NewScorer creates a Scorer. Pass classifier.Disabled for a purely
// heuristic scorer.
func NewScorer(rater classifier.Rater) *Scorer {
	return &Scorer{
		rater:  rater,
		logger: slog.Default().With("component", "scoring"),
	}
}

// Risk scores a prompt on a 0-10 scale. Each risk keyword adds 1.5,
// length over the threshold adds 1.0, each injection pattern adds 2.0,
// and the model contributes its 0-3 rating.
func (s *Scorer) Risk(ctx context.Context, prompt string) float64 {
	score := RiskHeuristic(prompt)
	score += s.modelContribution(ctx, classifier.KindRisk, prompt)
	return clampScore(score)
}

// RiskHeuristic is the lexical portion of the risk score, without the
// model contribution or final clamp applied by Risk.
func RiskHeuristic(prompt string) float64 {
	lower := strings.ToLower(prompt)
	score := 0.0

	for _, keyword := range riskKeywords {
		if strings.Contains(lower, keyword) {
			score += 1.5
		}
	}

	if len(prompt) > promptLengthThreshold {
		score += 1.0
	}

	for _, pattern := range injectionPatterns {
		if pattern.MatchString(lower) {
			score += 2.0
		}
	}

	return score
}

// Bias scores a model output on a 0-10 scale. Each absolute-language term
// adds 0.5, each gender-bias pattern adds 1.0, each co-occurrence of a
// racial term with a stereotype word adds 1.5, plus the model's 0-3 rating.
func (s *Scorer) Bias(ctx context.Context, text string) float64 {
	score := BiasHeuristic(text)
	score += s.modelContribution(ctx, classifier.KindBias, text)
	return clampScore(score)
}

// BiasHeuristic is the lexical portion of the bias score.
func BiasHeuristic(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0

	for _, indicator := range biasAbsolutes {
		if strings.Contains(lower, indicator) {
			score += 0.5
		}
	}

	for _, pattern := range genderBiasPatterns {
		if pattern.MatchString(lower) {
			score += 1.0
		}
	}

	for _, racial := range racialTerms {
		for _, stereotype := range stereotypeWords {
			if strings.Contains(lower, racial) && strings.Contains(lower, stereotype) {
				score += 1.5
			}
		}
	}

	return score
}

// Toxicity scores a model output on a 0-10 scale. Each toxic keyword adds
// 1.0, each aggressive pattern adds 2.0, plus the model's 0-3 rating.
func (s *Scorer) Toxicity(ctx context.Context, text string) float64 {
	score := ToxicityHeuristic(text)
	score += s.modelContribution(ctx, classifier.KindToxicity, text)
	return clampScore(score)
}

// ToxicityHeuristic is the lexical portion of the toxicity score.
func ToxicityHeuristic(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0

	for _, keyword := range toxicKeywords {
		if strings.Contains(lower, keyword) {
			score += 1.0
		}
	}

	for _, pattern := range aggressivePatterns {
		if pattern.MatchString(lower) {
			score += 2.0
		}
	}

	return score
}

// GenderStereotype reports whether the text matches a gendered
// generalization pattern.
func GenderStereotype(text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range genderBiasPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// Fairness scores a model output on a 0-10 scale where higher is better.
// The score starts at 8.0, gains 0.5 per inclusive term, and loses 0.3
// per exclusive term.
func Fairness(text string) float64 {
	lower := strings.ToLower(text)
	score := 8.0

	for _, indicator := range inclusiveIndicators {
		if strings.Contains(lower, indicator) {
			score += 0.5
		}
	}

	for _, indicator := range exclusiveIndicators {
		if strings.Contains(lower, indicator) {
			score -= 0.3
		}
	}

	return clampScore(score)
}

// Confidence derives screening confidence from a risk score: 70 at zero
// risk, rising 3 points per risk point, capped at 95.
func Confidence(riskScore float64) float64 {
	return math.Min(95, 70+riskScore*3)
}

// modelContribution asks the classifier for a 0-3 rating, returning 0 on
// any failure so the heuristic score stands alone.
func (s *Scorer) modelContribution(ctx context.Context, kind classifier.Kind, text string) float64 {
	rating, err := s.rater.Rate(ctx, kind, text)
	if err != nil {
		s.logger.Error("classifier rating failed", "kind", string(kind), "error", err)
		return 0
	}
	return rating.Score
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(10, score))
}
