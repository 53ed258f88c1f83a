package grpc

import (
	"errors"

	"github.com/auth0/go-authscheme"
)

// Option configures the interceptor.
type Option func(*Interceptor) error

// WithLogger sets the logger for the interceptor. It does not change the
// logger handed to scheme handlers, which comes from the middleware.
//
// Default: the middleware's logger
func WithLogger(logger authscheme.Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from authentication.
// Methods should be provided in the format: "/package.Service/Method"
// Example: "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
