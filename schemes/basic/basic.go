// Package basic implements HTTP basic authentication (RFC 7617).
//
// Credentials are checked by a CredentialValidator. BcryptStore is an
// in-memory validator over bcrypt hashes:
//
//	store := basic.NewBcryptStore(map[string]string{
//	    "admin": "$2a$10$...",
//	})
//	m, err := authscheme.New(
//	    authscheme.WithScheme(basic.Register(&basic.Options{
//	        Options:   core.Options{AutomaticAuthenticate: true},
//	        Validator: store,
//	        Realm:     "admin",
//	    })),
//	)
package basic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
)

var (
	// ErrMalformedCredentials is returned when the header payload is not
	// base64 encoded "user:password".
	ErrMalformedCredentials = errors.New("basic: malformed credentials")

	// ErrResponseStarted is returned by Challenge when headers were already sent.
	ErrResponseStarted = errors.New("basic: response has already started")
)

var extractCredentials = authscheme.AuthHeaderExtractor(SchemeName)

// Handler authenticates requests carrying basic credentials.
type Handler struct {
	*core.Base[*Options]
	core.UnimplementedHooks
}

// New returns an uninitialized basic handler.
func New() *Handler {
	h := &Handler{}
	h.Base = core.NewBase[*Options](h)
	return h
}

func (h *Handler) PerformAuthenticate(ctx context.Context) core.Result {
	raw, err := extractCredentials(h.Exchange().Request())
	if err != nil {
		return core.Fail(err)
	}
	if raw == "" {
		return core.NoResult()
	}

	username, password, err := decodeCredentials(raw)
	if err != nil {
		return core.Fail(err)
	}

	opts := h.Options()
	principal, err := opts.Validator.ValidateCredentials(ctx, username, password)
	if err != nil {
		return core.Fail(fmt.Errorf("user %q: %w", username, err))
	}

	ticket := core.NewTicket(principal, opts.SchemeName)
	ticket.Properties["username"] = username
	return core.Success(ticket)
}

func (h *Handler) PerformChallenge(ctx context.Context, cc *core.ChallengeContext) error {
	resp := h.Exchange().Response()
	if resp.HasStarted() {
		return ErrResponseStarted
	}

	opts := h.Options()
	realm := opts.Realm
	if v := cc.Properties["realm"]; v != "" {
		realm = v
	}

	challenge := SchemeName + " realm=" + authscheme.QuotedString(realm)
	if opts.AdvertiseUTF8 {
		challenge += `, charset="UTF-8"`
	}
	resp.Header().Set("WWW-Authenticate", challenge)
	resp.WriteHeader(http.StatusUnauthorized)
	return nil
}

func (h *Handler) DescribeScheme(ctx context.Context) (core.SchemeDescription, error) {
	return core.SchemeDescription{
		Items: map[string]string{"realm": h.Options().Realm},
	}, nil
}

func decodeCredentials(raw string) (username, password string, err error) {
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrMalformedCredentials, err)
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: missing ':' separator", ErrMalformedCredentials)
	}
	return username, password, nil
}
