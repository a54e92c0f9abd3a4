package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error names rendered in the response envelope.
const (
	NameValidation      = "ValidationError"
	NameUnauthorized    = "UnauthorizedError"
	NameForbidden       = "ForbiddenError"
	NameNotFound        = "NotFoundError"
	NameConflict        = "ConflictError"
	NameTooManyRequests = "TooManyRequestsError"
	NameInternal        = "InternalServerError"
)

// Detail describes a single failing field of a validation error.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Name    string   `json:"name"`
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []Detail `json:"details"`
	Err     error    `json:"-"`
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

// Is matches errors sharing the same name and status so that cloned
// sentinels still satisfy errors.Is against the original.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Name == t.Name && e.Status == t.Status
}

// New creates a new Error instance.
func New(name string, status int, message string) *Error {
	return &Error{Name: name, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, name string, status int, message string) *Error {
	return &Error{Name: name, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation      = New(NameValidation, http.StatusUnprocessableEntity, "Validation error occurred")
	ErrUnauthorized    = New(NameUnauthorized, http.StatusUnauthorized, "unauthorized")
	ErrForbidden       = New(NameForbidden, http.StatusForbidden, "forbidden")
	ErrNotFound        = New(NameNotFound, http.StatusNotFound, "resource not found")
	ErrConflict        = New(NameConflict, http.StatusConflict, "conflict")
	ErrTooManyRequests = New(NameTooManyRequests, http.StatusTooManyRequests, "too many requests, please try again later")
	ErrInternal        = New(NameInternal, http.StatusInternalServerError, "An error occurred on the server side. Please try again later.")
	ErrCacheMiss       = errors.New("cache miss")
)

// NewValidation aggregates field failures into a single validation error.
func NewValidation(details []Detail) *Error {
	clone := *ErrValidation
	clone.Details = append([]Detail(nil), details...)
	return &clone
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
	return Wrap(err, ErrInternal.Name, ErrInternal.Status, ErrInternal.Message)
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
	clone.Details = append([]Detail(nil), err.Details...)
	return &clone
}

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}
