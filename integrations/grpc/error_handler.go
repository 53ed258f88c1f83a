package grpc

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
)

// ErrorHandler converts authentication errors to gRPC status errors.
type ErrorHandler func(error) error

// ChallengeError is the error for a call a scheme answered with a
// challenge. StatusCode is the HTTP status the scheme wrote.
type ChallengeError struct {
	StatusCode int
	Challenge  string
	Location   string
}

func newChallengeError(resp *metadataResponse) *ChallengeError {
	return &ChallengeError{
		StatusCode: resp.StatusCode(),
		Challenge:  resp.Header().Get("WWW-Authenticate"),
		Location:   resp.Header().Get("Location"),
	}
}

func (e *ChallengeError) Error() string {
	switch {
	case e.Challenge != "":
		return fmt.Sprintf("authentication challenge (%d): %s", e.StatusCode, e.Challenge)
	case e.Location != "":
		return fmt.Sprintf("authentication challenge (%d): redirect to %s", e.StatusCode, e.Location)
	}
	return fmt.Sprintf("authentication challenge (%d)", e.StatusCode)
}

// Code maps the HTTP status of the challenge to a gRPC code.
func (e *ChallengeError) Code() codes.Code {
	switch {
	case e.StatusCode == http.StatusForbidden:
		return codes.PermissionDenied
	case e.StatusCode == http.StatusBadRequest:
		return codes.InvalidArgument
	case e.StatusCode == http.StatusUnauthorized,
		e.StatusCode >= 300 && e.StatusCode < 400:
		return codes.Unauthenticated
	case e.StatusCode >= 500:
		return codes.Internal
	}
	return codes.Unknown
}

// DefaultErrorHandler maps pipeline errors to gRPC status codes. Missing and
// rejected credentials are Unauthenticated, challenges follow their HTTP
// status and anything else is Internal.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var challengeErr *ChallengeError
	if errors.As(err, &challengeErr) {
		return status.Error(challengeErr.Code(), challengeErr.Error())
	}

	switch {
	case errors.Is(err, ErrMultipleAuthHeaders):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, authscheme.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "missing credentials")
	case errors.Is(err, authscheme.ErrCredentialsInvalid):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	}

	var opErr *core.OperationError
	if errors.As(err, &opErr) && opErr.Code == core.ErrorCodeNotImplemented {
		return status.Error(codes.Unimplemented, opErr.Error())
	}
	return status.Error(codes.Internal, "unable to authenticate request")
}
