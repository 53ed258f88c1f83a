package bearer

import (
	"context"
	"errors"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
	"github.com/auth0/go-authscheme/validator"
)

// SchemeName is the default scheme name for bearer tokens.
const SchemeName = "Bearer"

// TokenValidator validates a raw token. *validator.Validator satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*validator.ValidatedClaims, error)
}

// Options configures the bearer scheme.
type Options struct {
	core.Options

	// Validator checks tokens. Required.
	Validator TokenValidator

	// TokenExtractor finds the token in the request.
	// Default: authscheme.AuthHeaderExtractor("Bearer")
	TokenExtractor authscheme.CredentialExtractor

	// Realm is reported in the WWW-Authenticate challenge when set.
	Realm string

	// IncludeErrorDetails adds the validation error to the challenge's
	// error_description. Default: false
	IncludeErrorDetails bool
}

var (
	// ErrValidatorNil is returned when Options.Validator is not set.
	ErrValidatorNil = errors.New("bearer: validator is required")

	// ErrInvalidToken wraps every token validation failure.
	ErrInvalidToken = errors.New("bearer: invalid token")
)

// Validate checks the options and fills defaults.
func (o *Options) Validate() error {
	if o.Validator == nil {
		return ErrValidatorNil
	}
	if o.TokenExtractor == nil {
		o.TokenExtractor = authscheme.AuthHeaderExtractor(SchemeName)
	}
	return nil
}

// Register returns the registration for authscheme.WithScheme. An empty
// SchemeName is set to "Bearer".
//
// Example:
//
//	v, _ := validator.New(...)
//	m, err := authscheme.New(
//	    authscheme.WithScheme(bearer.Register(&bearer.Options{
//	        Options:   core.Options{AutomaticAuthenticate: true},
//	        Validator: v,
//	    })),
//	)
func Register(opts *Options) core.Registration {
	if opts != nil && opts.SchemeName == "" {
		opts.SchemeName = SchemeName
	}
	return core.Register(opts, New)
}
