package validator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithKeySet sets the function that provides the keys for signature
// verification. Use jwks.CachingProvider.KeySet for JWKS endpoints.
// WithKeySet and WithKey are mutually exclusive; one is required.
func WithKeySet(keySet func(context.Context) (jwk.Set, error)) Option {
	return func(v *Validator) error {
		if keySet == nil {
			return errors.New("key set function cannot be nil")
		}
		v.keySet = keySet
		return nil
	}
}

// WithKey sets a single verification key: a []byte secret for the HS
// algorithms, a public key (or jwk.Key) for the asymmetric ones.
func WithKey(key any) Option {
	return func(v *Validator) error {
		if key == nil {
			return errors.New("key cannot be nil")
		}
		v.key = key
		return nil
	}
}

// WithAlgorithm sets the signature algorithm that tokens must use.
// This is a required option.
//
// Supported algorithms: RS256, RS384, RS512, ES256, ES384, ES512,
// PS256, PS384, PS512, HS256, HS384, HS512, EdDSA.
func WithAlgorithm(algorithm SignatureAlgorithm) Option {
	return func(v *Validator) error {
		if _, ok := allowedSigningAlgorithms[algorithm]; !ok {
			return fmt.Errorf("unsupported signature algorithm: %s", algorithm)
		}
		v.signatureAlgorithm = algorithm
		return nil
	}
}

// WithIssuer sets the expected issuer claim (iss) for token validation.
// This is a required option.
func WithIssuer(issuerURL string) Option {
	return func(v *Validator) error {
		if issuerURL == "" {
			return errors.New("issuer cannot be empty")
		}
		if _, err := url.Parse(issuerURL); err != nil {
			return fmt.Errorf("invalid issuer URL: %w", err)
		}
		v.issuer = issuerURL
		return nil
	}
}

// WithAudience sets a single expected audience claim (aud).
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.audience = []string{audience}
		return nil
	}
}

// WithAudiences sets the accepted audiences. A token must carry at least
// one of them. WithAudience or WithAudiences is required.
func WithAudiences(audiences []string) Option {
	return func(v *Validator) error {
		if len(audiences) == 0 {
			return errors.New("audiences cannot be empty")
		}
		for i, aud := range audiences {
			if aud == "" {
				return fmt.Errorf("audience at index %d cannot be empty", i)
			}
		}
		v.audience = audiences
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied to exp, nbf and iat.
// Default: 0.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithCustomClaims sets a function that returns a CustomClaims object
// for unmarshalling and validation.
//
// The function is called for each token validation to create a new instance
// of custom claims. The Validate method on the custom claims will be called
// after standard claim validation.
func WithCustomClaims(f func() CustomClaims) Option {
	return func(v *Validator) error {
		if f == nil {
			return errors.New("custom claims function cannot be nil")
		}
		v.customClaims = f
		return nil
	}
}
