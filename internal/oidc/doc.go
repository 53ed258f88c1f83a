/*
Package oidc implements OpenID Connect discovery for the bearer scheme.

Providers publish their metadata at a well-known location:

	https://issuer.example.com/.well-known/openid-configuration

Discover fetches that document and returns the endpoints the bearer scheme
needs, most importantly jwks_uri. The issuer named inside the document must
equal the issuer the caller expects; a mismatch is rejected with
ErrIssuerMismatch so keys published for another issuer are never trusted.
*/
package oidc
