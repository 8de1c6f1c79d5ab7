package errs

import (
	"errors"
	"net/http"
	"strings"
)

// ValidationError carries every field message produced by a schema check,
// in schema order.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

type PastDateError struct {
	Message string
}

func (e *PastDateError) Error() string { return e.Message }

type OwnershipError struct {
	Message string
}

func (e *OwnershipError) Error() string { return e.Message }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func NewValidation(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

func NewPastDate(message string) *PastDateError {
	return &PastDateError{Message: message}
}

func NewOwnership(message string) *OwnershipError {
	return &OwnershipError{Message: message}
}

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func NewAuth(message string) *AuthError {
	return &AuthError{Message: message}
}

// HTTPStatus maps a domain error to its response status. Unknown errors are
// internal failures.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		pastDate   *PastDateError
		ownership  *OwnershipError
		notFound   *NotFoundError
		conflict   *ConflictError
		authErr    *AuthError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &pastDate),
		errors.As(err, &ownership), errors.As(err, &conflict):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
