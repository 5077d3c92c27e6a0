// Package apperror defines the domain error taxonomy shared by every layer.
//
// Services return these errors; the HTTP layer translates them to status
// codes in exactly one place (handler/response.go). Sentinel errors +
// errors.Is/As is the standard Go pattern for this: the sentinel carries
// the category, the AppError wrapper carries the human-readable message.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed") // → 400
	ErrUnauthorized = errors.New("unauthorized")      // → 401
	ErrForbidden    = errors.New("forbidden")         // → 403
	ErrNotFound     = errors.New("not found")         // → 404
	ErrConflict     = errors.New("conflict")          // → 409
)

type AppError struct {
	Err     error  // sentinel category (one of the vars above)
	Message string // human-readable message, safe to show to clients
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports that a single input field failed validation.
// Field is recorded so callers (and tests) can tell WHICH rule fired —
// the validator is first-error-only, so there is always exactly one.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized covers both failed credentials and a missing bearer token.
// Callers pass a deliberately generic message: login failures never reveal
// whether the email exists or the password was wrong (account enumeration).
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden indicates a bearer token was presented but is invalid or expired.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}
