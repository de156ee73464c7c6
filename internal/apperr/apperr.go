// Package apperr defines the error taxonomy shared by the domain packages and
// the adapters that surface errors to users.
package apperr

import (
	"errors"
	"fmt"
)

// Type classifies an AppError.
type Type string

const (
	// TypeValidation means the caller supplied an empty or invalid value.
	TypeValidation Type = "VALIDATION"

	// TypeFormat means an import document failed the shape check.
	TypeFormat Type = "FORMAT"

	// TypeNotFound means the referenced record does not exist.
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict means the operation is not allowed in the current state.
	TypeConflict Type = "CONFLICT"

	// TypeUnauthorized means the admin gate is closed.
	TypeUnauthorized Type = "UNAUTHORIZED"

	// TypeInternal wraps storage and other unexpected failures.
	TypeInternal Type = "INTERNAL"
)

// AppError is an error carrying a Type.
type AppError struct {
	Type    Type
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Type: TypeValidation, Message: message}
}

// NewFormatError creates a new format error wrapping the parse failure, if any.
func NewFormatError(message string, err error) *AppError {
	return &AppError{Type: TypeFormat, Message: message, Err: err}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: TypeNotFound, Message: message}
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{Type: TypeConflict, Message: message}
}

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: TypeUnauthorized, Message: message}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Err: err}
}

// TypeOf returns the Type of the first AppError in err's chain, or
// TypeInternal when there is none.
func TypeOf(err error) Type {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return TypeInternal
}

func is(err error, t Type) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Type == t
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return is(err, TypeValidation) }

// IsFormat reports whether err is a format error.
func IsFormat(err error) bool { return is(err, TypeFormat) }

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool { return is(err, TypeNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return is(err, TypeConflict) }

// IsUnauthorized reports whether err is an unauthorized error.
func IsUnauthorized(err error) bool { return is(err, TypeUnauthorized) }
