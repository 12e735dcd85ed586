// Package auditor reviews model outputs after generation. Each output is
// scored for bias, toxicity, and fairness, checked against the output
// generation policies, and mapped to an APPROVED, REVIEW_RECOMMENDED, or
// REVISION_REQUIRED status with improvement recommendations.
package auditor
