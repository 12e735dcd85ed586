// Package scoring implements the heuristic and model-assisted content
// scores used across the governance pipeline: prompt risk, output bias,
// toxicity, fairness, and sentiment.
//
// All scores live on a 0-10 scale. The lexical heuristics are
// deterministic and always run; the model classifier adds at most 3
// points per dimension and adds nothing when it is unavailable, so a
// clean prompt scores 0 regardless of classifier health.
package scoring
