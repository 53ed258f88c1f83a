package validator

import (
	"context"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// ValidatedClaims is the principal the bearer scheme places in its ticket.
// CustomClaims is nil unless WithCustomClaims is passed to New.
type ValidatedClaims struct {
	CustomClaims     CustomClaims
	RegisteredClaims RegisteredClaims
}

// RegisteredClaims holds the RFC 7519 registered claims of a verified
// token. Times are Unix seconds; zero means the claim was absent.
type RegisteredClaims struct {
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub,omitempty"`
	Audience  []string `json:"aud,omitempty"`
	Expiry    int64    `json:"exp,omitempty"`
	NotBefore int64    `json:"nbf,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
	ID        string   `json:"jti,omitempty"`
}

func newRegisteredClaims(token jwt.Token) RegisteredClaims {
	var rc RegisteredClaims
	rc.Issuer, _ = token.Issuer()
	rc.Subject, _ = token.Subject()
	rc.Audience, _ = token.Audience()
	rc.ID, _ = token.JwtID()
	if exp, ok := token.Expiration(); ok {
		rc.Expiry = exp.Unix()
	}
	if nbf, ok := token.NotBefore(); ok {
		rc.NotBefore = nbf.Unix()
	}
	if iat, ok := token.IssuedAt(); ok {
		rc.IssuedAt = iat.Unix()
	}
	return rc
}

// CustomClaims are application claims decoded from the token payload.
// Validate runs after the signature and registered claims are checked.
type CustomClaims interface {
	Validate(context.Context) error
}
