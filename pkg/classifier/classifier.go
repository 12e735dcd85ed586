package classifier

import (
	"context"
)

// Kind identifies a scoring dimension the model classifier is asked about.
type Kind string

const (
	// KindRisk rates how risky a prompt is, on a 0-3 scale.
	KindRisk Kind = "risk"

	// KindBias rates bias in a model output, on a 0-3 scale.
	KindBias Kind = "bias"

	// KindToxicity rates toxicity in a model output, on a 0-3 scale.
	KindToxicity Kind = "toxicity"

	// KindCompliance rates policy compliance of content, on a 0-1 scale.
	KindCompliance Kind = "compliance"
)

// Rating is the result of a classifier call. When the classifier is
// unavailable or its reply cannot be parsed, Score holds the neutral
// fallback for the kind and Fallback is true.
type Rating struct {
	Score     float64
	Reasoning string
	Fallback  bool
}

// Rater scores content along a dimension using a language model. The
// heuristic scorers never depend on it succeeding: every caller treats a
// fallback rating as a valid, neutral answer.
type Rater interface {
	// Rate scores content along the given dimension. Implementations
	// must return a Rating within the kind's range. A non-nil error is
	// reserved for programming mistakes such as an unknown kind;
	// transport and parse failures surface as fallback ratings.
	Rate(ctx context.Context, kind Kind, content string) (Rating, error)

	// Generate produces free-form text for a prompt. Used by the
	// advisory and feedback components for guidance and theme
	// extraction. Returns an error when the model is unreachable.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Disabled is a Rater that always answers with the neutral fallback.
// It is used when no classifier endpoint is configured.
type Disabled struct{}

// Rate returns the neutral fallback rating for the kind.
func (Disabled) Rate(_ context.Context, kind Kind, _ string) (Rating, error) {
	bounds, err := boundsFor(kind)
	if err != nil {
		return Rating{}, err
	}
	return Rating{Score: bounds.Default, Fallback: true}, nil
}

// Generate reports that no classifier is configured.
func (Disabled) Generate(context.Context, string) (string, error) {
	return "", &UnavailableError{Endpoint: "", Err: ErrDisabled}
}
