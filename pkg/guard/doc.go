// Package guard screens prompts before they reach a model. Screening
// combines a risk score, a policy scan for the prompt submission
// activity, and harmful-content flags, then maps them to an APPROVED,
// WARNING, or BLOCKED status.
package guard
