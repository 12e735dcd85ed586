package policy

import (
	"fmt"
)

// NotFoundError indicates a policy ID with no matching policy.
type NotFoundError struct {
	PolicyID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("policy not found: %q", e.PolicyID)
}

// InvalidPolicyError indicates a policy that failed validation.
type InvalidPolicyError struct {
	PolicyID string
	Reason   string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid policy %q: %s", e.PolicyID, e.Reason)
}

// StoreError wraps a backend failure from a policy store.
type StoreError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("policy store %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
