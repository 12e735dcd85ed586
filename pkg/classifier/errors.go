package classifier

import (
	"errors"
	"fmt"
)

// ErrDisabled indicates the classifier is not configured.
var ErrDisabled = errors.New("classifier disabled")

// UnavailableError indicates the classifier endpoint could not be reached
// or did not return a usable response after retries.
type UnavailableError struct {
	Endpoint string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("classifier unavailable (endpoint %q): %v", e.Endpoint, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// StatusError indicates the classifier endpoint answered with a
// non-success HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("classifier returned status %d: %s", e.StatusCode, e.Body)
}

// UnknownKindError indicates a Kind the classifier has no prompt or
// fallback entry for.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown classifier kind: %q", e.Kind)
}
