package cookie

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
)

const (
	principalClaim  = "principal"
	propertiesClaim = "props"

	// RedirectURIProperty names the property that overrides the redirect
	// target of SignIn, SignOut and Challenge.
	RedirectURIProperty = "redirect_uri"
)

var (
	// ErrInvalidSession is wrapped by every cookie that fails verification.
	ErrInvalidSession = errors.New("cookie: invalid session")

	// ErrTicketNil is returned by SignIn without a ticket.
	ErrTicketNil = errors.New("cookie: ticket cannot be nil")

	// ErrResponseStarted is returned when headers were already sent.
	ErrResponseStarted = errors.New("cookie: response has already started")
)

// Handler keeps the ticket in a signed session cookie.
type Handler struct {
	*core.Base[*Options]
	core.UnimplementedHooks
}

// New returns an uninitialized cookie handler.
func New() *Handler {
	h := &Handler{}
	h.Base = core.NewBase[*Options](h)
	return h
}

// PerformAuthenticate verifies the session cookie and rebuilds the ticket.
func (h *Handler) PerformAuthenticate(ctx context.Context) core.Result {
	opts := h.Options()

	raw, err := authscheme.CookieExtractor(opts.CookieName)(h.Exchange().Request())
	if err != nil {
		return core.Fail(fmt.Errorf("%w: %w", ErrInvalidSession, err))
	}
	if raw == "" {
		return core.NoResult()
	}

	ticket, expires, err := h.decode(raw)
	if err != nil {
		return core.Fail(fmt.Errorf("%w: %w", ErrInvalidSession, err))
	}

	if opts.SlidingExpiration && expires.Sub(opts.Clock()) < opts.ExpireTimeSpan/2 {
		h.Exchange().Response().OnStarting(func() error {
			return h.writeSession(ticket)
		})
	}
	return core.Success(ticket)
}

// PerformSignIn issues a session cookie for sc.Ticket. A "redirect_uri"
// property answers with a redirect to it.
func (h *Handler) PerformSignIn(ctx context.Context, sc *core.SignInContext) error {
	if sc.Ticket == nil {
		return ErrTicketNil
	}
	if h.Exchange().Response().HasStarted() {
		return ErrResponseStarted
	}

	ticket := *sc.Ticket
	ticket.Scheme = h.Options().SchemeName
	if err := h.writeSession(&ticket); err != nil {
		return err
	}
	h.redirect(sc.Properties[RedirectURIProperty])
	return nil
}

// PerformSignOut expires the session cookie.
func (h *Handler) PerformSignOut(ctx context.Context, sc *core.SignOutContext) error {
	resp := h.Exchange().Response()
	if resp.HasStarted() {
		return ErrResponseStarted
	}

	c := h.newCookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	resp.Header().Add("Set-Cookie", c.String())
	h.redirect(sc.Properties[RedirectURIProperty])
	return nil
}

// PerformChallenge redirects to the login path with the current request
// URI as the return URL.
func (h *Handler) PerformChallenge(ctx context.Context, cc *core.ChallengeContext) error {
	resp := h.Exchange().Response()
	if resp.HasStarted() {
		return ErrResponseStarted
	}

	opts := h.Options()
	returnURL := cc.Properties[RedirectURIProperty]
	if returnURL == "" {
		returnURL = h.Exchange().Request().URL.RequestURI()
	}

	sep := "?"
	if strings.Contains(opts.LoginPath, "?") {
		sep = "&"
	}
	location := opts.LoginPath + sep + opts.ReturnURLParameter + "=" + h.Encoder().Encode(returnURL)

	resp.Header().Set("Location", location)
	resp.WriteHeader(http.StatusFound)
	return nil
}

func (h *Handler) DescribeScheme(ctx context.Context) (core.SchemeDescription, error) {
	opts := h.Options()
	return core.SchemeDescription{
		Items: map[string]string{
			"cookie_name": opts.CookieName,
			"login_path":  opts.LoginPath,
		},
	}, nil
}

func (h *Handler) writeSession(ticket *core.Ticket) error {
	value, err := h.encode(ticket)
	if err != nil {
		return err
	}
	c := h.newCookie(value)
	c.Expires = h.Options().Clock().Add(h.Options().ExpireTimeSpan)
	h.Exchange().Response().Header().Add("Set-Cookie", c.String())
	return nil
}

func (h *Handler) redirect(location string) {
	if location == "" {
		return
	}
	resp := h.Exchange().Response()
	resp.Header().Set("Location", location)
	resp.WriteHeader(http.StatusFound)
}

func (h *Handler) newCookie(value string) *http.Cookie {
	opts := h.Options()
	return &http.Cookie{
		Name:     opts.CookieName,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: opts.SameSite,
	}
}

func (h *Handler) encode(ticket *core.Ticket) (string, error) {
	opts := h.Options()
	now := opts.Clock()

	claims := map[string]any{
		jwt.IssuerKey:     opts.Issuer,
		jwt.IssuedAtKey:   now,
		jwt.ExpirationKey: now.Add(opts.ExpireTimeSpan),
	}
	if ticket.Principal != nil {
		claims[principalClaim] = ticket.Principal
	}
	if len(ticket.Properties) > 0 {
		claims[propertiesClaim] = ticket.Properties
	}

	tok := jwt.New()
	for key, value := range claims {
		if err := tok.Set(key, value); err != nil {
			return "", fmt.Errorf("could not set claim %q: %w", key, err)
		}
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), opts.SigningKey))
	if err != nil {
		return "", fmt.Errorf("could not sign session: %w", err)
	}
	return string(signed), nil
}

func (h *Handler) decode(raw string) (*core.Ticket, time.Time, error) {
	opts := h.Options()

	tok, err := jwt.ParseString(raw,
		jwt.WithKey(jwa.HS256(), opts.SigningKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(opts.Issuer),
		jwt.WithClock(jwt.ClockFunc(opts.Clock)),
	)
	if err != nil {
		return nil, time.Time{}, err
	}

	var principal any
	if tok.Has(principalClaim) {
		if err := tok.Get(principalClaim, &principal); err != nil {
			return nil, time.Time{}, fmt.Errorf("could not read claim %q: %w", principalClaim, err)
		}
	}

	ticket := core.NewTicket(principal, opts.SchemeName)
	if tok.Has(propertiesClaim) {
		var props map[string]any
		if err := tok.Get(propertiesClaim, &props); err != nil {
			return nil, time.Time{}, fmt.Errorf("could not read claim %q: %w", propertiesClaim, err)
		}
		for k, v := range props {
			s, ok := v.(string)
			if !ok {
				return nil, time.Time{}, fmt.Errorf("property %q is not a string", k)
			}
			ticket.Properties[k] = s
		}
	}

	expires, _ := tok.Expiration()
	return ticket, expires, nil
}
