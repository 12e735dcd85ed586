package classifier

// bounds defines the valid score range and the neutral fallback for a
// scoring dimension. The fallback is the value used when the model is
// unreachable or its answer cannot be parsed; it never raises a score.
type bounds struct {
	Min     float64
	Max     float64
	Default float64
}

// fallbackTable is the single source of truth for per-kind ranges and
// neutral defaults. Scores parsed from model replies are clamped into
// the kind's range before they reach any scorer.
var fallbackTable = map[Kind]bounds{
	KindRisk:       {Min: 0, Max: 3, Default: 0},
	KindBias:       {Min: 0, Max: 3, Default: 0},
	KindToxicity:   {Min: 0, Max: 3, Default: 0},
	KindCompliance: {Min: 0, Max: 1, Default: 0},
}

func boundsFor(kind Kind) (bounds, error) {
	b, ok := fallbackTable[kind]
	if !ok {
		return bounds{}, &UnknownKindError{Kind: kind}
	}
	return b, nil
}

// clamp restricts score to the bounds.
func (b bounds) clamp(score float64) float64 {
	if score < b.Min {
		return b.Min
	}
	if score > b.Max {
		return b.Max
	}
	return score
}
