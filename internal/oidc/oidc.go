package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
)

// ErrIssuerMismatch is returned when the discovery document names a
// different issuer than the one it was fetched for.
var ErrIssuerMismatch = errors.New("issuer mismatch")

// maxDocumentSize bounds the discovery document read from the network.
const maxDocumentSize = 1 << 20

// Metadata holds the subset of the OpenID provider metadata the bearer
// scheme uses.
type Metadata struct {
	Issuer                string `json:"issuer"`
	JWKSURI               string `json:"jwks_uri"`
	AuthorizationEndpoint string `json:"authorization_endpoint,omitempty"`
	TokenEndpoint         string `json:"token_endpoint,omitempty"`
}

// Discover fetches {issuer}/.well-known/openid-configuration and checks
// that the document describes expectedIssuer.
func Discover(ctx context.Context, client *http.Client, issuerURL url.URL, expectedIssuer string) (*Metadata, error) {
	if client == nil {
		client = http.DefaultClient
	}
	issuerURL.Path = path.Join(issuerURL.Path, ".well-known/openid-configuration")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issuerURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build discovery request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch discovery document from %s: %w", issuerURL.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery document request returned status %d", resp.StatusCode)
	}

	var md Metadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&md); err != nil {
		return nil, fmt.Errorf("could not decode discovery document: %w", err)
	}

	if md.Issuer == "" {
		return nil, errors.New("discovery document is missing the issuer field")
	}
	if md.JWKSURI == "" {
		return nil, errors.New("discovery document is missing the jwks_uri field")
	}
	if md.Issuer != expectedIssuer {
		return nil, fmt.Errorf("%w: expected %q, document names %q", ErrIssuerMismatch, expectedIssuer, md.Issuer)
	}

	return &md, nil
}
