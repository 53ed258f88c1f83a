/*
Package bearer authenticates requests carrying a JWT bearer token
(RFC 6750).

Tokens are read from the Authorization header by default and validated by a
TokenValidator, normally a *validator.Validator backed by a
jwks.CachingProvider. A request without a token produces no result, so
another scheme may still authenticate it. A rejected token produces a
failure and the challenge that follows reports error="invalid_token".

	provider, _ := jwks.NewCachingProvider(jwks.WithIssuerURL(issuerURL))
	v, _ := validator.New(
	    validator.WithKeySet(provider.KeySet),
	    validator.WithAlgorithm(validator.RS256),
	    validator.WithIssuer(issuerURL.String()),
	    validator.WithAudience("my-api"),
	)

	m, err := authscheme.New(
	    authscheme.WithScheme(bearer.Register(&bearer.Options{
	        Options:   core.Options{AutomaticAuthenticate: true},
	        Validator: v,
	        Realm:     "my-api",
	    })),
	    authscheme.WithDefaultChallengeScheme(bearer.SchemeName),
	)

The ticket principal is the *validator.ValidatedClaims.
*/
package bearer
