package errors

import (
	"errors"
	"net/http"
)

// AppError business error carrying the HTTP status and business code it maps to
type AppError struct {
	Status  int
	Code    int
	Message string
}

func (e *AppError) Error() string { return e.Message }

// New creates an AppError
func New(status, code int, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// ── taxonomy ──

// Unprocessable 422: business rule violation
func Unprocessable(code int, message string) *AppError {
	return New(http.StatusUnprocessableEntity, code, message)
}

// NotFound 404: missing resource by id
func NotFound(code int, message string) *AppError {
	return New(http.StatusNotFound, code, message)
}

// Forbidden 403: authorization failure
func Forbidden(code int, message string) *AppError {
	return New(http.StatusForbidden, code, message)
}

// BadRequest 400: operation blocked by a dependency
func BadRequest(code int, message string) *AppError {
	return New(http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(code int, message string) *AppError {
	return New(http.StatusUnauthorized, code, message)
}

// Internal 500: wraps an unexpected lower-layer failure
func Internal(code int, message string) *AppError {
	return New(http.StatusInternalServerError, code, message)
}

// As extracts an *AppError from err
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
