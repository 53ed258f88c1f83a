package bearer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
	"github.com/auth0/go-authscheme/validator"
)

// ErrResponseStarted is returned by Challenge when headers were already sent.
var ErrResponseStarted = errors.New("bearer: response has already started")

// Handler authenticates requests carrying a JWT bearer token. A Handler
// serves one request; Register builds one per request.
type Handler struct {
	*core.Base[*Options]
	core.UnimplementedHooks

	failure error
}

// New returns an uninitialized bearer handler.
func New() *Handler {
	h := &Handler{}
	h.Base = core.NewBase[*Options](h)
	return h
}

// PerformAuthenticate extracts and validates the bearer token. A request
// without a token yields no result so other schemes can run.
func (h *Handler) PerformAuthenticate(ctx context.Context) core.Result {
	opts := h.Options()

	token, err := opts.TokenExtractor(h.Exchange().Request())
	if err != nil {
		h.failure = err
		return core.Fail(fmt.Errorf("%w: %w", ErrInvalidToken, err))
	}
	if token == "" {
		return core.NoResult()
	}

	claims, err := opts.Validator.ValidateToken(ctx, token)
	if err != nil {
		h.failure = err
		return core.Fail(fmt.Errorf("%w: %w", ErrInvalidToken, err))
	}

	ticket := core.NewTicket(claims, opts.SchemeName)
	if claims.RegisteredClaims.Subject != "" {
		ticket.Properties["subject"] = claims.RegisteredClaims.Subject
	}
	if claims.RegisteredClaims.Issuer != "" {
		ticket.Properties["issuer"] = claims.RegisteredClaims.Issuer
	}
	return core.Success(ticket)
}

// PerformChallenge answers 401 with a WWW-Authenticate header as described
// in RFC 6750 section 3. Properties "error", "error_description" and
// "scope" override the generated parameters.
func (h *Handler) PerformChallenge(ctx context.Context, cc *core.ChallengeContext) error {
	resp := h.Exchange().Response()
	if resp.HasStarted() {
		return ErrResponseStarted
	}

	params := h.challengeParams(cc.Properties)
	resp.Header().Set("WWW-Authenticate", formatChallenge(SchemeName, params))
	resp.WriteHeader(http.StatusUnauthorized)
	return nil
}

// DescribeScheme reports the realm and, when known, issuer and audiences.
func (h *Handler) DescribeScheme(ctx context.Context) (core.SchemeDescription, error) {
	opts := h.Options()
	desc := core.SchemeDescription{Items: map[string]string{}}
	if opts.Realm != "" {
		desc.Items["realm"] = opts.Realm
	}
	if v, ok := opts.Validator.(*validator.Validator); ok {
		desc.Items["issuer"] = v.Issuer()
		desc.Items["audience"] = strings.Join(v.Audience(), " ")
	}
	return desc, nil
}

type param struct{ key, value string }

func (h *Handler) challengeParams(props map[string]string) []param {
	opts := h.Options()

	var params []param
	if opts.Realm != "" {
		params = append(params, param{"realm", opts.Realm})
	}

	errCode, errDesc := "", ""
	if h.failure != nil {
		errCode = "invalid_token"
		if opts.IncludeErrorDetails {
			errDesc = h.failure.Error()
		}
	}
	if v, ok := props["error"]; ok {
		errCode = v
	}
	if v, ok := props["error_description"]; ok {
		errDesc = v
	}

	if errCode != "" {
		params = append(params, param{"error", errCode})
	}
	if errDesc != "" {
		params = append(params, param{"error_description", errDesc})
	}
	if scope := props["scope"]; scope != "" {
		params = append(params, param{"scope", scope})
	}
	return params
}

func formatChallenge(scheme string, params []param) string {
	if len(params) == 0 {
		return scheme
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.key+"="+authscheme.QuotedString(p.value))
	}
	return scheme + " " + strings.Join(parts, ", ")
}
