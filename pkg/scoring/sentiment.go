package scoring

import (
	"strings"
	"unicode"
)

// Sentiment holds a lexicon-based sentiment estimate. Polarity runs from
// -1 (negative) to 1 (positive); subjectivity from 0 (objective) to 1.
type Sentiment struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Label        string  `json:"label"`
}

// AnalyzeSentiment estimates sentiment by counting opinion words.
// Polarity is the signed fraction of opinion words; a magnitude over 0.1
// selects the "positive" or "negative" label, otherwise "neutral".
func AnalyzeSentiment(text string) Sentiment {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var positive, negative int
	for _, word := range words {
		for _, p := range positiveWords {
			if word == p {
				positive++
				break
			}
		}
		for _, n := range negativeWords {
			if word == n {
				negative++
				break
			}
		}
	}

	s := Sentiment{Label: "neutral"}
	if len(words) == 0 {
		return s
	}

	opinionated := positive + negative
	if opinionated > 0 {
		s.Polarity = float64(positive-negative) / float64(opinionated)
	}
	s.Subjectivity = float64(opinionated) / float64(len(words))
	if s.Subjectivity > 1 {
		s.Subjectivity = 1
	}

	switch {
	case s.Polarity > 0.1:
		s.Label = "positive"
	case s.Polarity < -0.1:
		s.Label = "negative"
	}
	return s
}
