/*
Package validator verifies JWTs for the bearer scheme using lestrrat-go/jwx.

A Validator checks, in order:
  - the token shape (size, number of segments)
  - the header alg equals the configured algorithm
  - the signature, against a single key (WithKey) or the key set entry
    named by the header kid (WithKeySet)
  - iss, exp, nbf and iat, with the configured clock skew
  - aud contains at least one accepted audience
  - custom claims, when WithCustomClaims is set

# Usage

	provider, err := jwks.NewCachingProvider(jwks.WithIssuerURL(issuerURL))
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(
	    validator.WithKeySet(provider.KeySet),
	    validator.WithAlgorithm(validator.RS256),
	    validator.WithIssuer(issuerURL.String()),
	    validator.WithAudience("my-api"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := v.ValidateToken(ctx, rawToken)

# Custom Claims

	type Scoped struct {
	    Scope string `json:"scope"`
	}

	func (s *Scoped) Validate(ctx context.Context) error {
	    if s.Scope == "" {
	        return errors.New("scope is required")
	    }
	    return nil
	}

	v, err := validator.New(
	    ...,
	    validator.WithCustomClaims(func() validator.CustomClaims { return &Scoped{} }),
	)
*/
package validator
