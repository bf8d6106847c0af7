package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Operations return *Error values whose Kind is one of these, so
// callers match with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrLimitExceeded      = errors.New("transfer limit exceeded")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal error")
)

// Error carries a user-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
	Err     error // underlying cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// internalError wraps an infrastructure failure. The message stays generic.
func internalError(op string, err error) *Error {
	return &Error{Kind: ErrInternal, Message: "An Internal Error Occurred", Err: fmt.Errorf("%s: %w", op, err)}
}

// StatusCode maps an error returned by a service to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrDuplicateEmail):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrLimitExceeded):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be sent to a client.
func PublicMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Kind != ErrInternal {
		return svcErr.Message
	}
	return "An Internal Error Occurred"
}
