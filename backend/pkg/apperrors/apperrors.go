// Package apperrors defines the typed failures raised by the mutation
// and query layers. The HTTP layer maps kinds to status codes; nothing
// below it recovers from these.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure
type Kind string

const (
	// KindValidation represents malformed input (e.g. a bad email address)
	KindValidation Kind = "validation"
	// KindConflict represents a uniqueness violation
	KindConflict Kind = "conflict"
	// KindNotFound represents a referenced entity that does not exist
	KindNotFound Kind = "not_found"
	// KindAuth represents a credential mismatch
	KindAuth Kind = "auth"
	// KindStore represents an underlying storage failure
	KindStore Kind = "store"
)

// Error is the typed failure carried across layers
type Error struct {
	Kind    Kind
	Message string
	Err     error // Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation failure
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Conflict creates a uniqueness-violation failure
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound creates a missing-entity failure
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Auth creates a credential-mismatch failure
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Store wraps an underlying storage failure
func Store(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}

// KindOf reports the kind of err, or the empty Kind when err is not an
// *Error anywhere in its chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is a missing-entity failure
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return IsKind(err, KindValidation)
}

// IsConflict reports whether err is a uniqueness-violation failure
func IsConflict(err error) bool {
	return IsKind(err, KindConflict)
}

// IsAuth reports whether err is a credential-mismatch failure
func IsAuth(err error) bool {
	return IsKind(err, KindAuth)
}
