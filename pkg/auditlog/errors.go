package auditlog

import "fmt"

// StorageError represents an error from an audit storage backend.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// RecorderError represents a failure to enqueue or write an audit record.
type RecorderError struct {
	LogID string
	Cause error
}

func (e *RecorderError) Error() string {
	return fmt.Sprintf("audit recorder error [log_id=%s]: %v", e.LogID, e.Cause)
}

func (e *RecorderError) Unwrap() error {
	return e.Cause
}

// NewRecorderError creates a new RecorderError.
func NewRecorderError(logID string, cause error) *RecorderError {
	return &RecorderError{LogID: logID, Cause: cause}
}

// RetentionError represents a failure during retention pruning.
type RetentionError struct {
	RetentionDays int
	Cause         error
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("audit retention error [retention_days=%d]: %v", e.RetentionDays, e.Cause)
}

func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// NewRetentionError creates a new RetentionError.
func NewRetentionError(days int, cause error) *RetentionError {
	return &RetentionError{RetentionDays: days, Cause: cause}
}
