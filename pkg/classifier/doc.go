// Package classifier provides the model-backed scoring boundary of the
// governance pipeline.
//
// The Rater interface scores content along fixed dimensions (risk, bias,
// toxicity, compliance) by prompting a text-generation endpoint. The model
// is advisory: every dimension has a neutral fallback value, and transport
// or parse failures resolve to that fallback rather than failing the
// pipeline. Heuristic scoring always runs regardless of classifier health.
package classifier
