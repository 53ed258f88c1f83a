package basic

import (
	"errors"

	"github.com/auth0/go-authscheme/core"
)

// SchemeName is the default scheme name for HTTP basic authentication.
const SchemeName = "Basic"

// DefaultRealm is used when Options.Realm is empty.
const DefaultRealm = "Restricted"

// ErrCredentialValidatorNil is returned when Options.Validator is not set.
var ErrCredentialValidatorNil = errors.New("basic: credential validator is required")

// Options configures the basic scheme.
type Options struct {
	core.Options

	// Validator checks credentials. Required.
	Validator CredentialValidator

	// Realm names the protection space in the challenge.
	// Default: DefaultRealm
	Realm string

	// AdvertiseUTF8 adds charset="UTF-8" to the challenge (RFC 7617 section 2.1).
	AdvertiseUTF8 bool
}

// Validate checks the options and fills defaults.
func (o *Options) Validate() error {
	if o.Validator == nil {
		return ErrCredentialValidatorNil
	}
	if o.Realm == "" {
		o.Realm = DefaultRealm
	}
	return nil
}

// Register returns the registration for authscheme.WithScheme. An empty
// SchemeName is set to "Basic".
func Register(opts *Options) core.Registration {
	if opts != nil && opts.SchemeName == "" {
		opts.SchemeName = SchemeName
	}
	return core.Register(opts, New)
}
