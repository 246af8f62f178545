package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so wrapped clones still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnauthorized  = New("unauthorized", http.StatusUnauthorized, "unauthorized")
	ErrNoInstitution = New("no_institution", http.StatusBadRequest, "Aucune institution associée.")
	ErrForbidden     = New("forbidden", http.StatusForbidden, "Droits insuffisants pour cette vue.")
	ErrUpstream      = New("upstream_error", http.StatusBadRequest, "data fetch failed")
	ErrValidation    = New("validation_error", http.StatusBadRequest, "validation failed")
	ErrInvalidDate   = New("invalid_date", http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
	ErrNotFound      = New("not_found", http.StatusNotFound, "resource not found")
	ErrInternal      = New("internal_error", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss     = New("cache_miss", http.StatusNotFound, "cache miss")
)

// Upstream wraps a data-store failure, surfacing its raw message to the caller.
func Upstream(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: ErrUpstream.Code, Status: ErrUpstream.Status, Message: err.Error(), Err: err}
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
