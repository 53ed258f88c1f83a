package jwks

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-authscheme/internal/oidc"
)

func TestProvider(t *testing.T) {
	var requestCount int32

	expectedJWKS := generateJWKS(t, "kid")
	expectedCustomJWKS := generateJWKS(t, "custom-kid")

	testServer := setupTestServer(t, expectedJWKS, expectedCustomJWKS, &requestCount, "")
	testServerURL, err := url.Parse(testServer.URL)
	require.NoError(t, err)

	t.Run("fetches the JWKS after calling the discovery endpoint", func(t *testing.T) {
		provider, err := NewProvider(WithIssuerURL(testServerURL))
		require.NoError(t, err)

		set, err := provider.KeySet(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "kid", firstKeyID(t, set))
	})

	t.Run("skips discovery if a custom JWKS URI is provided", func(t *testing.T) {
		customJWKSURI, err := url.Parse(testServer.URL + "/custom/jwks.json")
		require.NoError(t, err)

		provider, err := NewProvider(WithCustomJWKSURI(customJWKSURI))
		require.NoError(t, err)

		set, err := provider.KeySet(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "custom-kid", firstKeyID(t, set))
	})

	t.Run("uses the specified custom client", func(t *testing.T) {
		client := &http.Client{Timeout: time.Hour}
		provider, err := NewProvider(WithIssuerURL(testServerURL), WithCustomClient(client))
		require.NoError(t, err)
		assert.Same(t, client, provider.Client())
	})

	t.Run("stops fetching when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()

		provider, err := NewProvider(WithIssuerURL(testServerURL))
		require.NoError(t, err)

		_, err = provider.KeySet(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("rejects a discovery document for another issuer", func(t *testing.T) {
		mismatched, err := url.Parse(testServer.URL + "/mismatch")
		require.NoError(t, err)

		provider, err := NewProvider(WithIssuerURL(mismatched))
		require.NoError(t, err)

		_, err = provider.KeySet(context.Background())
		assert.ErrorIs(t, err, oidc.ErrIssuerMismatch)
	})

	t.Run("requires an issuer URL or a JWKS URI", func(t *testing.T) {
		_, err := NewProvider()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "issuer URL is required")
	})
}

func TestCachingProvider(t *testing.T) {
	t.Run("calls the server once for concurrent callers", func(t *testing.T) {
		var requestCount int32
		server := setupTestServer(t, generateJWKS(t, "kid"), generateJWKS(t, "custom"), &requestCount, "")
		issuerURL, err := url.Parse(server.URL)
		require.NoError(t, err)

		provider, err := NewCachingProvider(WithIssuerURL(issuerURL), WithCacheTTL(5*time.Minute))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = provider.KeySet(context.Background())
			}()
		}
		wg.Wait()

		// discovery + JWKS
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})

	t.Run("uses a custom cache", func(t *testing.T) {
		set := generateJWKS(t, "cached")
		cache := &mockCache{set: set}
		jwksURI, err := url.Parse("https://example.com/jwks")
		require.NoError(t, err)

		provider, err := NewCachingProvider(WithCustomJWKSURI(jwksURI), WithCache(cache))
		require.NoError(t, err)

		got, err := provider.KeySet(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cached", firstKeyID(t, got))
		assert.Equal(t, "https://example.com/jwks", cache.gotURI)
	})

	t.Run("returns cache errors", func(t *testing.T) {
		cacheErr := errors.New("cache unavailable")
		jwksURI, err := url.Parse("https://example.com/jwks")
		require.NoError(t, err)

		provider, err := NewCachingProvider(WithCustomJWKSURI(jwksURI), WithCache(&mockCache{err: cacheErr}))
		require.NoError(t, err)

		_, err = provider.KeySet(context.Background())
		assert.ErrorIs(t, err, cacheErr)
	})

	t.Run("retries discovery after a failure", func(t *testing.T) {
		var requestCount int32
		server := setupTestServer(t, generateJWKS(t, "kid"), nil, &requestCount, "")
		missing, err := url.Parse(server.URL + "/missing")
		require.NoError(t, err)

		provider, err := NewCachingProvider(WithIssuerURL(missing))
		require.NoError(t, err)

		_, err = provider.KeySet(context.Background())
		require.Error(t, err)
		_, err = provider.KeySet(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		_, err := NewCachingProvider(WithCacheTTL(-time.Second))
		assert.Error(t, err)
		_, err = NewCachingProvider(WithCache(nil))
		assert.Error(t, err)
		_, err = NewCachingProvider(WithCustomClient(nil))
		assert.Error(t, err)
	})
}

func TestMemoryCache_MaxAgeExtendsTTL(t *testing.T) {
	var requestCount int32
	server := setupTestServer(t, generateJWKS(t, "kid"), nil, &requestCount, "public, max-age=3600")

	cache := &memoryCache{
		client:     server.Client(),
		refreshTTL: time.Minute,
		entries:    make(map[string]*cacheEntry),
	}

	_, err := cache.Get(context.Background(), server.URL+"/.well-known/jwks.json")
	require.NoError(t, err)

	entry := cache.entries[server.URL+"/.well-known/jwks.json"]
	require.NotNil(t, entry)
	assert.WithinDuration(t, time.Now().Add(time.Hour), entry.expiresAt, 5*time.Second)
}

func TestParseMaxAge(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"max-age=3600", time.Hour},
		{"public, max-age=60, must-revalidate", time.Minute},
		{"no-cache", 0},
		{"max-age=abc", 0},
		{"max-age=-5", 0},
		{"max-age=99999999", 0},
		{"", 0},
	}

	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			assert.Equal(t, tc.want, parseMaxAge(tc.header))
		})
	}
}

type mockCache struct {
	set    jwk.Set
	err    error
	gotURI string
}

func (m *mockCache) Get(ctx context.Context, jwksURI string) (jwk.Set, error) {
	m.gotURI = jwksURI
	return m.set, m.err
}

func generateJWKS(t *testing.T, kid string) jwk.Set {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key, err := jwk.Import(privateKey.PublicKey)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, kid))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(key))
	return set
}

func firstKeyID(t *testing.T, set jwk.Set) string {
	t.Helper()

	key, ok := set.Key(0)
	require.True(t, ok, "key set should not be empty")
	kid, ok := key.KeyID()
	require.True(t, ok, "key should have a key ID")
	return kid
}

func setupTestServer(
	t *testing.T,
	expectedJWKS jwk.Set,
	expectedCustomJWKS jwk.Set,
	requestCount *int32,
	cacheControl string,
) (server *httptest.Server) {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		if cacheControl != "" {
			w.Header().Set("Cache-Control", cacheControl)
		}
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requestCount, 1)

		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			writeJSON(w, oidc.Metadata{Issuer: server.URL, JWKSURI: server.URL + "/.well-known/jwks.json"})
		case "/mismatch/.well-known/openid-configuration":
			writeJSON(w, oidc.Metadata{Issuer: "https://attacker.example.com", JWKSURI: server.URL + "/.well-known/jwks.json"})
		case "/.well-known/jwks.json":
			writeJSON(w, expectedJWKS)
		case "/custom/jwks.json":
			writeJSON(w, expectedCustomJWKS)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return server
}
