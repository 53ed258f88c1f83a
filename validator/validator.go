package validator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Signature algorithms
const (
	EdDSA = SignatureAlgorithm("EdDSA")
	HS256 = SignatureAlgorithm("HS256") // HMAC using SHA-256
	HS384 = SignatureAlgorithm("HS384") // HMAC using SHA-384
	HS512 = SignatureAlgorithm("HS512") // HMAC using SHA-512
	RS256 = SignatureAlgorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = SignatureAlgorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = SignatureAlgorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
	ES256 = SignatureAlgorithm("ES256") // ECDSA using P-256 and SHA-256
	ES384 = SignatureAlgorithm("ES384") // ECDSA using P-384 and SHA-384
	ES512 = SignatureAlgorithm("ES512") // ECDSA using P-521 and SHA-512
	PS256 = SignatureAlgorithm("PS256") // RSASSA-PSS using SHA256 and MGF1-SHA256
	PS384 = SignatureAlgorithm("PS384") // RSASSA-PSS using SHA384 and MGF1-SHA384
	PS512 = SignatureAlgorithm("PS512") // RSASSA-PSS using SHA512 and MGF1-SHA512
)

// SignatureAlgorithm is a signature algorithm.
type SignatureAlgorithm string

var allowedSigningAlgorithms = map[SignatureAlgorithm]func() jwa.SignatureAlgorithm{
	EdDSA: jwa.EdDSA,
	HS256: jwa.HS256,
	HS384: jwa.HS384,
	HS512: jwa.HS512,
	RS256: jwa.RS256,
	RS384: jwa.RS384,
	RS512: jwa.RS512,
	ES256: jwa.ES256,
	ES384: jwa.ES384,
	ES512: jwa.ES512,
	PS256: jwa.PS256,
	PS384: jwa.PS384,
	PS512: jwa.PS512,
}

var (
	// ErrKeyNotFound is returned when the key set has no key for the token.
	ErrKeyNotFound = errors.New("no matching key found in key set")

	// ErrInvalidAudience is returned when the token carries none of the
	// accepted audiences.
	ErrInvalidAudience = errors.New("token audience is not accepted")
)

// Validator verifies JWT signatures and registered claims with jwx.
// It holds no per-request state and is safe for concurrent use.
type Validator struct {
	keySet             func(context.Context) (jwk.Set, error)
	key                any
	signatureAlgorithm SignatureAlgorithm
	issuer             string
	audience           []string
	allowedClockSkew   time.Duration
	customClaims       func() CustomClaims
}

// New sets up a new Validator.
//
// Required options:
//   - WithKeySet or WithKey
//   - WithAlgorithm
//   - WithIssuer
//   - WithAudience or WithAudiences
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithKeySet(provider.KeySet),
//	    validator.WithAlgorithm(validator.RS256),
//	    validator.WithIssuer("https://tenant.example.com/"),
//	    validator.WithAudience("my-api"),
//	)
func New(opts ...Option) (*Validator, error) {
	v := &Validator{}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := v.validate(); err != nil {
		return nil, fmt.Errorf("invalid validator configuration: %w", err)
	}

	return v, nil
}

func (v *Validator) validate() error {
	switch {
	case v.keySet == nil && v.key == nil:
		return errors.New("a key source is required (use WithKeySet or WithKey)")
	case v.keySet != nil && v.key != nil:
		return errors.New("WithKeySet and WithKey cannot both be used")
	case v.signatureAlgorithm == "":
		return errors.New("signature algorithm is required (use WithAlgorithm)")
	case v.issuer == "":
		return errors.New("issuer is required (use WithIssuer)")
	case len(v.audience) == 0:
		return errors.New("audience is required (use WithAudience or WithAudiences)")
	}
	return nil
}

// Issuer returns the expected issuer.
func (v *Validator) Issuer() string { return v.issuer }

// Audience returns the accepted audiences.
func (v *Validator) Audience() []string { return v.audience }

// ValidateToken verifies the token signature and registered claims, then
// runs custom claims validation.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*ValidatedClaims, error) {
	if err := validateTokenFormat(tokenString); err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}

	header, err := parseHeader(tokenString)
	if err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}

	if err := validateSigningMethod(string(v.signatureAlgorithm), header.Alg); err != nil {
		return nil, fmt.Errorf("signing method is invalid: %w", err)
	}

	key, err := v.resolveKey(ctx, header.Kid)
	if err != nil {
		return nil, fmt.Errorf("error getting the keys from the key func: %w", err)
	}

	token, err := jwt.ParseString(tokenString,
		jwt.WithKey(allowedSigningAlgorithms[v.signatureAlgorithm](), key),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAcceptableSkew(v.allowedClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("expected claims not validated: %w", err)
	}

	audience, _ := token.Audience()
	if !containsAny(audience, v.audience) {
		return nil, fmt.Errorf("expected claims not validated: %w", ErrInvalidAudience)
	}

	validated := &ValidatedClaims{RegisteredClaims: newRegisteredClaims(token)}

	if v.customClaims != nil {
		custom := v.customClaims()
		if custom != nil {
			if err := decodePayload(tokenString, custom); err != nil {
				return nil, fmt.Errorf("failed to deserialize token claims: %w", err)
			}
			if err := custom.Validate(ctx); err != nil {
				return nil, fmt.Errorf("custom claims not validated: %w", err)
			}
			validated.CustomClaims = custom
		}
	}

	return validated, nil
}

func (v *Validator) resolveKey(ctx context.Context, kid string) (any, error) {
	if v.key != nil {
		return v.key, nil
	}

	set, err := v.keySet(ctx)
	if err != nil {
		return nil, err
	}

	if kid != "" {
		if key, ok := set.LookupKeyID(kid); ok {
			return key, nil
		}
		return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
	}

	// Without a kid only an unambiguous set can be used.
	if set.Len() == 1 {
		if key, ok := set.Key(0); ok {
			return key, nil
		}
	}
	return nil, ErrKeyNotFound
}

type tokenHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

func parseHeader(tokenString string) (tokenHeader, error) {
	var header tokenHeader

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return header, fmt.Errorf("expected 3 parts, got %d", len(parts))
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return header, fmt.Errorf("failed to decode header: %w", err)
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return header, fmt.Errorf("failed to unmarshal header: %w", err)
	}
	return header, nil
}

// decodePayload unmarshals the (already verified) payload into dst.
func decodePayload(tokenString string, dst any) error {
	msg, err := jws.ParseString(tokenString)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}
	return json.Unmarshal(msg.Payload(), dst)
}

func validateSigningMethod(validAlg, tokenAlg string) error {
	if validAlg != tokenAlg {
		return fmt.Errorf("expected %q signing algorithm but token specified %q", validAlg, tokenAlg)
	}
	return nil
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
