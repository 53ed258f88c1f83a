package core

import "errors"

// Sentinel errors for handler operations.
var (
	// ErrNotInitialized is returned when a handler is used before Initialize.
	ErrNotInitialized = errors.New("handler not initialized")

	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("handler already initialized")

	// ErrNotImplemented is returned by hooks a scheme does not support.
	ErrNotImplemented = errors.New("not implemented")

	// ErrTicketNotFound is returned when no ticket is stored in the context.
	ErrTicketNotFound = errors.New("ticket not found in context")
)

// OperationError wraps a handler error with the scheme it came from.
// It provides structured error information that can be used for
// logging, metrics, and returning appropriate error responses.
type OperationError struct {
	// Code is a machine-readable error code (e.g., "not_initialized")
	Code string

	// Scheme is the scheme of the handler that raised the error, if any
	Scheme string

	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	msg := e.Message
	if e.Scheme != "" {
		msg = e.Scheme + ": " + msg
	}
	if e.Details != nil {
		return msg + ": " + e.Details.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OperationError) Unwrap() error {
	return e.Details
}

// Is matches the sentinel that corresponds to the error code.
func (e *OperationError) Is(target error) bool {
	switch e.Code {
	case ErrorCodeNotInitialized:
		return target == ErrNotInitialized
	case ErrorCodeAlreadyInitialized:
		return target == ErrAlreadyInitialized
	case ErrorCodeNotImplemented:
		return target == ErrNotImplemented
	case ErrorCodeTicketNotFound:
		return target == ErrTicketNotFound
	}
	return false
}

// Common error codes
const (
	ErrorCodeNotInitialized     = "not_initialized"
	ErrorCodeAlreadyInitialized = "already_initialized"
	ErrorCodeNotImplemented     = "not_implemented"
	ErrorCodeConfigInvalid      = "config_invalid"
	ErrorCodeTicketNotFound     = "ticket_not_found"
)

// NewOperationError creates a new OperationError.
func NewOperationError(code, scheme, message string, details error) *OperationError {
	return &OperationError{
		Code:    code,
		Scheme:  scheme,
		Message: message,
		Details: details,
	}
}
