// Package decision holds the fixed decision tables of the governance
// pipeline: prompt screening status, output audit status, the weighted
// overall output score, and severity classification. All thresholds are
// constants; components share these tables rather than embedding their
// own copies.
package decision
