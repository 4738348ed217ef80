package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type returned by application services.
// Handlers map it to an HTTP status at the boundary; Cause is for
// server-side logging only and is never serialized to clients.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	HTTPStatus int               `json:"-"`
	Cause      error             `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string { return e.Message }

// Unwrap lets errors.Is/errors.As traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches an underlying error for logging and returns e.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NotFound builds a 404 error for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Forbidden builds a 403 error for ownership violations.
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Unauthorized builds a 401 error for missing or invalid credentials
// presented at the transport layer.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidCredentials is returned for both unknown-email and
// wrong-password login failures so callers cannot enumerate accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// DuplicateEmail builds a 422 error for a signup with an email that is
// already registered.
func DuplicateEmail() *AppError {
	return &AppError{
		Code:       "DUPLICATE_EMAIL",
		Message:    "email already exists, please use a different one",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// Unprocessable builds a 422 error for semantically invalid input.
func Unprocessable(msg string) *AppError {
	return &AppError{
		Code:       "UNPROCESSABLE",
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// Validation builds a 422 error carrying per-field messages.
func Validation(details map[string]string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "invalid input",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// Geocode builds a 422 error for address resolution failures. Place
// creation aborts on this error so a place is never persisted without
// coordinates.
func Geocode(msg string) *AppError {
	return &AppError{
		Code:       "GEOCODE_FAILED",
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// Internal builds a 500 error hiding the cause from clients.
func Internal(err error) *AppError {
	return &AppError{
		Code:       "INTERNAL",
		Message:    "something went wrong",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      err,
	}
}

// As extracts an *AppError from an error chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
