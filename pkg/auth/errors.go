package auth

import (
	"fmt"
)

// AuthError indicates a request that could not be authenticated.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// PermissionError indicates an authenticated user lacking a required
// permission.
type PermissionError struct {
	UserID     string
	Permission string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %q lacks permission %q", e.UserID, e.Permission)
}
