// Package feedback collects user feedback on governance decisions.
// Submissions are anonymous by default; identity is reduced to the role
// even when a submitter opts out of anonymity. Each submission is stored,
// analyzed for sentiment and themes, and ranked by priority for review.
package feedback
