package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals input rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrUpstream signals a failed call to the recommendation service.
	ErrUpstream = errors.New("recommendation service error")
	// ErrSessionNotFound signals a missing or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSearchInProgress signals a second submission from the same control.
	ErrSearchInProgress = errors.New("search already in progress")
)

// Constraint names the validation rule that rejected a query.
type Constraint string

// Validation constraints.
const (
	ConstraintEmptyQuery   Constraint = "empty_query"
	ConstraintMissingImage Constraint = "missing_image"
	ConstraintType         Constraint = "type"
	ConstraintSize         Constraint = "size"
)

// ValidationError wraps ErrValidation with the failed constraint.
type ValidationError struct {
	Constraint Constraint
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Constraint, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for the given constraint.
func NewValidationError(c Constraint, msg string) error {
	return &ValidationError{Constraint: c, Message: msg}
}

// HTTPErrorKind distinguishes a bad status from an unparsable body.
type HTTPErrorKind string

// HTTP error kinds.
const (
	HTTPErrorStatus HTTPErrorKind = "status"
	HTTPErrorParse  HTTPErrorKind = "parse"
)

// HTTPError is a non-2xx status or a non-JSON body from the recommendation service.
type HTTPError struct {
	Kind       HTTPErrorKind
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Kind == HTTPErrorParse {
		return fmt.Sprintf("%s: invalid response body: %v", ErrUpstream.Error(), e.Err)
	}
	return fmt.Sprintf("%s: status %d", ErrUpstream.Error(), e.StatusCode)
}

func (e *HTTPError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}

// NetworkError is a transport-level failure (DNS, connect, reset, deadline).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", ErrUpstream.Error(), e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{ErrUpstream, e.Err} }
