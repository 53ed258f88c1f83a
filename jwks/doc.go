/*
Package jwks fetches and caches the JSON Web Key Sets the bearer scheme
verifies token signatures with.

# Choosing a Provider

Provider fetches the key set on every call. It is useful in tests.

CachingProvider is meant for production:
  - the JWKS URI is discovered once through .well-known/openid-configuration
  - key sets are cached per URI (default TTL 15 minutes)
  - a Cache-Control max-age longer than the TTL extends it
  - entries refresh in the background at 80% of their TTL
  - concurrent callers share one fetch

# Usage

	issuerURL, _ := url.Parse("https://tenant.example.com/")
	provider, err := jwks.NewCachingProvider(
	    jwks.WithIssuerURL(issuerURL),
	    jwks.WithCacheTTL(5*time.Minute),
	)
	if err != nil {
	    log.Fatal(err)
	}

	opts := &bearer.Options{
	    KeySet:    provider.KeySet,
	    Algorithm: "RS256",
	    Issuer:    issuerURL.String(),
	    Audience:  []string{"my-api"},
	}

Skip discovery with WithCustomJWKSURI, and share a cache between
processes by passing your own Cache to WithCache.
*/
package jwks
