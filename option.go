package authscheme

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/auth0/go-authscheme/core"
)

// Option configures the Middleware.
// Returns error for validation failures.
type Option func(*Middleware) error

// WithScheme registers a scheme. Schemes are chained in registration
// order: each scheme's handler forwards what it is not responsible for to
// the handler of the scheme registered before it.
//
// Example:
//
//	middleware, err := authscheme.New(
//	    authscheme.WithScheme(cookie.Register(cookieOpts)),
//	    authscheme.WithScheme(bearer.Register(bearerOpts)),
//	)
func WithScheme(reg core.Registration) Option {
	return func(m *Middleware) error {
		if reg == nil {
			return ErrSchemeNil
		}
		if err := reg.Validate(); err != nil {
			return err
		}
		name := reg.SchemeName()
		if name != "" && m.hasScheme(name) {
			return fmt.Errorf("%w: %q", ErrDuplicateScheme, name)
		}
		m.schemes = append(m.schemes, reg)
		return nil
	}
}

// WithCredentialsOptional sets whether requests without a ticket may continue.
// If set to true, such requests reach the next handler without an identity.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(m *Middleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithDefaultChallengeScheme names the scheme that challenges requests which
// arrive without a ticket while credentials are required. Without it such
// requests go to the error handler with ErrUnauthenticated.
func WithDefaultChallengeScheme(scheme string) Option {
	return func(m *Middleware) error {
		if scheme == "" {
			return ErrChallengeSchemeEmpty
		}
		m.defaultChallengeScheme = scheme
		return nil
	}
}

// WithErrorHandler sets the handler called when errors occur during authentication.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithExclusionUrls configures URL patterns to exclude from authentication.
// URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *Middleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger for the middleware.
// The logger is handed to every scheme handler as well.
//
// The logger interface is compatible with log/slog.Logger and similar loggers.
//
// Example:
//
//	middleware, err := authscheme.New(
//	    authscheme.WithScheme(reg),
//	    authscheme.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(m *Middleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithEncoder sets the encoder schemes use for values embedded in URLs.
//
// Default: core.URLEncoder
func WithEncoder(encoder core.Encoder) Option {
	return func(m *Middleware) error {
		if encoder == nil {
			return ErrEncoderNil
		}
		m.encoder = encoder
		return nil
	}
}

// WithMetrics records authenticate and challenge counters.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *Middleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer wraps authenticate and challenge operations in spans.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *Middleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrNoSchemes              = errors.New("at least one scheme is required (use WithScheme)")
	ErrSchemeNil              = errors.New("scheme registration cannot be nil")
	ErrDuplicateScheme        = errors.New("scheme is already registered")
	ErrChallengeSchemeEmpty   = errors.New("default challenge scheme cannot be empty")
	ErrUnknownChallengeScheme = errors.New("default challenge scheme is not registered")
	ErrErrorHandlerNil        = errors.New("errorHandler cannot be nil")
	ErrExclusionUrlsEmpty     = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil              = errors.New("logger cannot be nil")
	ErrEncoderNil             = errors.New("encoder cannot be nil")
	ErrMetricsNil             = errors.New("metrics cannot be nil")
	ErrTracerNil              = errors.New("tracer cannot be nil")
)
