package authscheme

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/auth0/go-authscheme/core"
)

var (
	// ErrUnauthenticated is returned when credentials are required and no
	// scheme produced a ticket.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrCredentialsInvalid is returned when an automatic scheme rejected the
	// presented credentials.
	ErrCredentialsInvalid = errors.New("credentials invalid")

	// ErrUnhandledScheme is returned when no handler in the chain is
	// responsible for an explicit challenge, sign-in or sign-out.
	ErrUnhandledScheme = errors.New("no handler is configured for scheme")

	// ErrTicketNotFound is returned when the context carries no ticket.
	ErrTicketNotFound = core.ErrTicketNotFound
)

// ErrorHandler is a handler which is called when an error occurs in the
// Middleware. Among some general errors, this handler also determines the
// response when no ticket was produced or credentials were rejected. The
// err can be checked to be ErrUnauthenticated or ErrCredentialsInvalid for
// specific cases. The default handler will return a status code of 401 for
// both and 500 for all other errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is the default error handler implementation for the
// Middleware. If an error handler is not provided via the WithErrorHandler
// option this will be used.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case errors.Is(err, ErrUnauthenticated):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Authentication is required."}`))
	case errors.Is(err, ErrCredentialsInvalid):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Credentials are invalid."}`))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Something went wrong while authenticating the request."}`))
	}
}

// invalidError handles wrapping a scheme's failure reason with
// the concrete error ErrCredentialsInvalid. We do not expose this
// publicly because the interface methods of Is and Unwrap
// should give the user all they need.
type invalidError struct {
	details error
}

// Is allows the error to support equality to ErrCredentialsInvalid.
func (e invalidError) Is(target error) bool {
	return target == ErrCredentialsInvalid
}

// Error returns a string representation of the error.
func (e invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCredentialsInvalid, e.details)
}

// Unwrap allows the error to support equality to the
// underlying error and not just ErrCredentialsInvalid.
func (e invalidError) Unwrap() error {
	return e.details
}
