package jwks

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultCacheTTL      = 15 * time.Minute
	defaultClientTimeout = 30 * time.Second
)

// Option configures a Provider or CachingProvider.
type Option func(*config) error

type config struct {
	issuerURL     *url.URL
	customJWKSURI *url.URL
	client        *http.Client
	cacheTTL      time.Duration
	cache         Cache
}

func newConfig(opts []Option) (*config, error) {
	c := &config{
		client:   &http.Client{Timeout: defaultClientTimeout},
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.issuerURL == nil && c.customJWKSURI == nil {
		return nil, errors.New("issuer URL is required (use WithIssuerURL or WithCustomJWKSURI)")
	}
	return c, nil
}

// WithIssuerURL sets the OIDC issuer URL used to discover the JWKS endpoint
// through .well-known/openid-configuration.
func WithIssuerURL(issuerURL *url.URL) Option {
	return func(c *config) error {
		if issuerURL == nil {
			return errors.New("issuer URL cannot be nil")
		}
		c.issuerURL = issuerURL
		return nil
	}
}

// WithCustomJWKSURI fetches keys directly from jwksURI, skipping discovery.
func WithCustomJWKSURI(jwksURI *url.URL) Option {
	return func(c *config) error {
		if jwksURI == nil {
			return errors.New("custom JWKS URI cannot be nil")
		}
		c.customJWKSURI = jwksURI
		return nil
	}
}

// WithCustomClient sets the HTTP client used for discovery and key fetches.
// If not specified, a default client with 30s timeout is used.
func WithCustomClient(client *http.Client) Option {
	return func(c *config) error {
		if client == nil {
			return errors.New("HTTP client cannot be nil")
		}
		c.client = client
		return nil
	}
}

// WithCacheTTL sets the cache refresh interval for the CachingProvider.
// Zero means the default of 15 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) error {
		if ttl < 0 {
			return errors.New("cache TTL cannot be negative")
		}
		if ttl == 0 {
			ttl = defaultCacheTTL
		}
		c.cacheTTL = ttl
		return nil
	}
}

// WithCache replaces the in-memory cache used by the CachingProvider.
func WithCache(cache Cache) Option {
	return func(c *config) error {
		if cache == nil {
			return errors.New("cache cannot be nil")
		}
		c.cache = cache
		return nil
	}
}
