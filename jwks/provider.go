package jwks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/auth0/go-authscheme/internal/oidc"
)

// maxJWKSSize limits the key set body read from the network.
const maxJWKSSize = 1 << 20

// KeySetFunc returns the keys a token signature is verified against.
// Provider.KeySet and CachingProvider.KeySet satisfy it.
type KeySetFunc func(ctx context.Context) (jwk.Set, error)

// Cache defines the interface for JWKS caching implementations.
type Cache interface {
	// Get returns the key set published at jwksURI, fetching it when needed.
	Get(ctx context.Context, jwksURI string) (jwk.Set, error)
}

// Provider fetches the JWKS on every call. Most deployments want the
// CachingProvider instead.
type Provider struct {
	cfg *config
}

// NewProvider builds a Provider. WithIssuerURL or WithCustomJWKSURI is
// required.
//
// Example:
//
//	provider, err := jwks.NewProvider(
//	    jwks.WithIssuerURL(issuerURL),
//	    jwks.WithCustomClient(myHTTPClient),
//	)
func NewProvider(opts ...Option) (*Provider, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid option: %w", err)
	}
	return &Provider{cfg: cfg}, nil
}

// Client returns the HTTP client used by the provider.
func (p *Provider) Client() *http.Client { return p.cfg.client }

// KeySet discovers the JWKS URI (unless a custom one was configured) and
// fetches the key set.
func (p *Provider) KeySet(ctx context.Context) (jwk.Set, error) {
	jwksURI, err := resolveJWKSURI(ctx, p.cfg)
	if err != nil {
		return nil, err
	}

	set, err := jwk.Fetch(ctx, jwksURI, jwk.WithHTTPClient(p.cfg.client))
	if err != nil {
		return nil, fmt.Errorf("could not fetch JWKS: %w", err)
	}
	return set, nil
}

func resolveJWKSURI(ctx context.Context, cfg *config) (string, error) {
	if cfg.customJWKSURI != nil {
		return cfg.customJWKSURI.String(), nil
	}

	md, err := oidc.Discover(ctx, cfg.client, *cfg.issuerURL, cfg.issuerURL.String())
	if err != nil {
		return "", fmt.Errorf("failed to discover JWKS URI: %w", err)
	}
	return md.JWKSURI, nil
}

// CachingProvider discovers the JWKS URI once and serves key sets from a
// cache that refreshes in the background. It is safe for concurrent use and
// is meant to be shared by every request.
type CachingProvider struct {
	cfg   *config
	cache Cache

	jwksURIMu sync.Mutex
	jwksURI   string
}

// NewCachingProvider builds a CachingProvider.
//
// Example:
//
//	provider, err := jwks.NewCachingProvider(
//	    jwks.WithIssuerURL(issuerURL),
//	    jwks.WithCacheTTL(5*time.Minute),
//	)
func NewCachingProvider(opts ...Option) (*CachingProvider, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid option: %w", err)
	}

	cp := &CachingProvider{cfg: cfg, cache: cfg.cache}
	if cp.cache == nil {
		cp.cache = &memoryCache{
			client:     cfg.client,
			entries:    make(map[string]*cacheEntry),
			refreshTTL: cfg.cacheTTL,
		}
	}
	if cfg.customJWKSURI != nil {
		cp.jwksURI = cfg.customJWKSURI.String()
	}
	return cp, nil
}

// KeySet returns the cached key set, discovering the JWKS URI on first use.
// A failed discovery is retried by the next call.
func (c *CachingProvider) KeySet(ctx context.Context) (jwk.Set, error) {
	jwksURI, err := c.getJWKSURI(ctx)
	if err != nil {
		return nil, err
	}
	return c.cache.Get(ctx, jwksURI)
}

func (c *CachingProvider) getJWKSURI(ctx context.Context) (string, error) {
	c.jwksURIMu.Lock()
	defer c.jwksURIMu.Unlock()

	if c.jwksURI != "" {
		return c.jwksURI, nil
	}

	uri, err := resolveJWKSURI(ctx, c.cfg)
	if err != nil {
		return "", err
	}
	c.jwksURI = uri
	return uri, nil
}

// memoryCache keeps one key set per URI. Entries are refreshed in the
// background once 80% of their TTL has passed.
type memoryCache struct {
	client     *http.Client
	refreshTTL time.Duration

	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	set        jwk.Set
	expiresAt  time.Time
	refreshAt  time.Time
	refreshing atomic.Bool
	fetchMu    sync.Mutex
}

func (c *memoryCache) Get(ctx context.Context, jwksURI string) (jwk.Set, error) {
	now := time.Now()

	c.mu.RLock()
	entry, exists := c.entries[jwksURI]
	if exists && now.Before(entry.expiresAt) {
		set := entry.set
		shouldRefresh := now.After(entry.refreshAt)
		c.mu.RUnlock()

		if shouldRefresh && entry.refreshing.CompareAndSwap(false, true) {
			go c.backgroundRefresh(jwksURI, entry)
		}
		return set, nil
	}
	c.mu.RUnlock()

	if !exists {
		c.mu.Lock()
		entry, exists = c.entries[jwksURI]
		if !exists {
			entry = &cacheEntry{}
			c.entries[jwksURI] = entry
		}
		c.mu.Unlock()
	}

	// One fetch per URI; waiters reuse its result.
	entry.fetchMu.Lock()
	defer entry.fetchMu.Unlock()

	c.mu.RLock()
	valid := time.Now().Before(entry.expiresAt)
	set := entry.set
	c.mu.RUnlock()
	if valid {
		return set, nil
	}

	set, maxAge, err := c.fetch(ctx, jwksURI)
	if err != nil {
		return nil, fmt.Errorf("could not fetch JWKS: %w", err)
	}
	c.store(entry, set, maxAge)
	return set, nil
}

func (c *memoryCache) store(entry *cacheEntry, set jwk.Set, maxAge time.Duration) {
	ttl := c.refreshTTL
	if maxAge > ttl {
		ttl = maxAge
	}

	now := time.Now()
	c.mu.Lock()
	entry.set = set
	entry.expiresAt = now.Add(ttl)
	entry.refreshAt = now.Add(ttl * 4 / 5)
	c.mu.Unlock()
}

func (c *memoryCache) backgroundRefresh(jwksURI string, entry *cacheEntry) {
	defer entry.refreshing.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), defaultClientTimeout)
	defer cancel()

	set, maxAge, err := c.fetch(ctx, jwksURI)
	if err != nil {
		return
	}
	c.store(entry, set, maxAge)
}

// fetch downloads the key set and returns the Cache-Control max-age, or 0.
func (c *memoryCache) fetch(ctx context.Context, jwksURI string) (jwk.Set, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURI, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("request returned status %d, expected 200", resp.StatusCode)
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxJWKSSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	return set, parseMaxAge(resp.Header.Get("Cache-Control")), nil
}

// parseMaxAge extracts max-age from a Cache-Control header. Values outside
// one second to seven days are ignored.
func parseMaxAge(cacheControl string) time.Duration {
	const (
		prefix = "max-age="
		minTTL = time.Second
		maxTTL = 7 * 24 * time.Hour
	)

	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(directive, prefix) {
			continue
		}
		seconds, err := strconv.ParseInt(strings.TrimPrefix(directive, prefix), 10, 64)
		if err != nil || seconds <= 0 {
			continue
		}
		ttl := time.Duration(seconds) * time.Second
		if ttl < minTTL || ttl > maxTTL {
			return 0
		}
		return ttl
	}
	return 0
}
