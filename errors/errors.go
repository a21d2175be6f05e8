// Package errors provides custom error types for the offline storage engine
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of error that occurred
type ErrorCode string

const (
	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeTransactionFailure ErrorCode = "TRANSACTION_FAILURE"
	ErrCodeBadNamespace       ErrorCode = "BAD_NAMESPACE"
	ErrCodeValidationFailure  ErrorCode = "VALIDATION_FAILURE"
)

// Operation represents the type of storage operation
type Operation string

const (
	OpOpen     Operation = "open"
	OpSave     Operation = "save"
	OpLoad     Operation = "load"
	OpDelete   Operation = "delete"
	OpLoadAll  Operation = "load_all"
	OpClear    Operation = "clear"
	OpCount    Operation = "count"
	OpQueue    Operation = "queue"
	OpResolve  Operation = "resolve"
	OpEstimate Operation = "estimate"
	OpClose    Operation = "close"
)

// StoreError represents an error that occurred in the storage engine
type StoreError struct {
	// Operation during which the error occurred
	Op Operation

	// Component that generated the error (e.g., "storage/sqlite", "engine")
	Component string

	// Underlying error
	Err error

	// Whether the operation can be retried
	Retryable bool

	// Error code for the error type
	Code ErrorCode

	// Metadata for additional context
	Metadata map[string]interface{}
}

func (e *StoreError) Error() string {
	var msg string
	if e.Component != "" {
		msg = fmt.Sprintf("%s operation failed in %s component", e.Op, e.Component)
	} else {
		msg = fmt.Sprintf("%s operation failed", e.Op)
	}

	if e.Code != "" {
		msg += fmt.Sprintf(" [%s]", e.Code)
	}

	return msg + fmt.Sprintf(": %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewBackendError creates a StoreError for a backend that could not be opened.
// Backend-open failures are fatal to the instance and not retryable through it.
func NewBackendError(op Operation, component string, cause error) *StoreError {
	return &StoreError{
		Code:      ErrCodeBackendUnavailable,
		Op:        op,
		Component: component,
		Err:       cause,
		Retryable: false,
	}
}

// NewTransactionError creates a StoreError for an individual save/load/delete
// rejection. These are treated as transient; the engine performs no silent retry.
func NewTransactionError(op Operation, component string, cause error) *StoreError {
	return &StoreError{
		Code:      ErrCodeTransactionFailure,
		Op:        op,
		Component: component,
		Err:       cause,
		Retryable: true,
	}
}

// NewNamespaceError creates a StoreError for an unknown partition name.
func NewNamespaceError(op Operation, namespace string) *StoreError {
	return &StoreError{
		Code:      ErrCodeBadNamespace,
		Op:        op,
		Err:       fmt.Errorf("unknown namespace %q", namespace),
		Retryable: false,
		Metadata:  map[string]interface{}{"namespace": namespace},
	}
}

// NewValidationError creates a validation-related StoreError
func NewValidationError(op Operation, cause error) *StoreError {
	return &StoreError{
		Code:      ErrCodeValidationFailure,
		Op:        op,
		Err:       cause,
		Retryable: false,
	}
}

// New creates a new StoreError
func New(op Operation, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Err: err,
	}
}

// NewWithComponent creates a new StoreError with component information
func NewWithComponent(op Operation, component string, err error) *StoreError {
	return &StoreError{
		Op:        op,
		Component: component,
		Err:       err,
	}
}

// IsRetryable checks if an error is a retryable StoreError
func IsRetryable(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from an error chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return ""
}
