// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error (missing credential/endpoint)
	TypeConfig Type = "CONFIG_ERROR"

	// TypeEstimatorUnavailable indicates the estimator rejected our credentials
	// or is otherwise unreachable in a non-transient way
	TypeEstimatorUnavailable Type = "ESTIMATOR_UNAVAILABLE"

	// TypeRateLimited indicates the estimator throttled the request; retryable
	TypeRateLimited Type = "RATE_LIMITED"

	// TypeQuotaExhausted indicates the estimator account is out of quota;
	// NOT retryable, unlike a plain rate limit
	TypeQuotaExhausted Type = "QUOTA_EXHAUSTED"

	// TypeTransient indicates a transient transport or server-side failure
	TypeTransient Type = "ESTIMATOR_TRANSIENT"

	// TypeMalformedResponse indicates the estimator returned content that
	// does not parse as a JSON object
	TypeMalformedResponse Type = "MALFORMED_RESPONSE"

	// TypeSchemaViolation indicates parsed JSON lacks the required
	// structure or enum values
	TypeSchemaViolation Type = "SCHEMA_VIOLATION"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// TypeOf returns the type of a domain error, or TypeInternal for any
// other error value
func TypeOf(err error) Type {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return TypeInternal
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Retryable reports whether the caller may reasonably retry the request.
// The pipeline itself never retries; this is a hint for the boundary layer.
func Retryable(err error) bool {
	switch TypeOf(err) {
	case TypeRateLimited, TypeTransient:
		return true
	default:
		return false
	}
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Malformed creates a malformed-response error
func Malformed(message string, cause error) *Error {
	return Wrap(TypeMalformedResponse, message, cause)
}

// Schema creates a schema-violation error
func Schema(message string, cause error) *Error {
	return Wrap(TypeSchemaViolation, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
