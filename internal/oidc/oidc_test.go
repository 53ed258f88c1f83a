package oidc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, responseCode int, responseBody string) *url.URL {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(responseCode)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	return u
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name           string
		responseCode   int
		responseBody   string
		expectedIssuer string
		wantJWKSURI    string
		wantError      string
	}{
		{
			name:           "issuer matches",
			responseCode:   http.StatusOK,
			responseBody:   `{"issuer":"https://tenant.example.com/","jwks_uri":"https://tenant.example.com/jwks.json"}`,
			expectedIssuer: "https://tenant.example.com/",
			wantJWKSURI:    "https://tenant.example.com/jwks.json",
		},
		{
			name:           "issuer mismatch",
			responseCode:   http.StatusOK,
			responseBody:   `{"issuer":"https://attacker.example.com/","jwks_uri":"https://attacker.example.com/jwks.json"}`,
			expectedIssuer: "https://tenant.example.com/",
			wantError:      "issuer mismatch",
		},
		{
			name:           "missing issuer",
			responseCode:   http.StatusOK,
			responseBody:   `{"jwks_uri":"https://tenant.example.com/jwks.json"}`,
			expectedIssuer: "https://tenant.example.com/",
			wantError:      "missing the issuer field",
		},
		{
			name:           "missing jwks_uri",
			responseCode:   http.StatusOK,
			responseBody:   `{"issuer":"https://tenant.example.com/"}`,
			expectedIssuer: "https://tenant.example.com/",
			wantError:      "missing the jwks_uri field",
		},
		{
			name:           "not found",
			responseCode:   http.StatusNotFound,
			responseBody:   `{"error":"not found"}`,
			expectedIssuer: "https://tenant.example.com/",
			wantError:      "returned status 404",
		},
		{
			name:           "malformed json",
			responseCode:   http.StatusOK,
			responseBody:   `{"jwks_uri": "https://tenant.example.com/jwks.json"`,
			expectedIssuer: "https://tenant.example.com/",
			wantError:      "could not decode discovery document",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issuerURL := setupTestServer(t, tc.responseCode, tc.responseBody)

			md, err := Discover(context.Background(), &http.Client{}, *issuerURL, tc.expectedIssuer)
			if tc.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantError)
				assert.Nil(t, md)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedIssuer, md.Issuer)
			assert.Equal(t, tc.wantJWKSURI, md.JWKSURI)
		})
	}
}

func TestDiscover_IssuerMismatchIsSentinel(t *testing.T) {
	issuerURL := setupTestServer(t, http.StatusOK, `{"issuer":"https://other/","jwks_uri":"https://other/jwks"}`)

	_, err := Discover(context.Background(), nil, *issuerURL, "https://tenant/")
	assert.ErrorIs(t, err, ErrIssuerMismatch)
}

func TestDiscover_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	issuerURL, err := url.Parse(server.URL)
	require.NoError(t, err)

	_, err = Discover(context.Background(), &http.Client{Timeout: 50 * time.Millisecond}, *issuerURL, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not fetch discovery document")
}

func TestDiscover_KeepsIssuerPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"issuer":"x","jwks_uri":"y"}`))
	}))
	defer server.Close()

	issuerURL, err := url.Parse(server.URL + "/tenants/acme")
	require.NoError(t, err)

	_, err = Discover(context.Background(), nil, *issuerURL, "x")
	require.NoError(t, err)
	assert.Equal(t, "/tenants/acme/.well-known/openid-configuration", gotPath)
}
