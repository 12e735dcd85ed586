// Package policy defines governance policies and their rule model.
//
// A Policy targets one or more activities and carries a list of rules.
// Rule is a tagged union: the Kind field selects which typed parameter
// struct applies, and Validate enforces that exactly one is populated.
// Evaluation lives in the engine subpackage; persistence backends live
// in the store subpackage.
package policy
