package authscheme

import (
	"context"
	"errors"
	"net/http"

	"github.com/auth0/go-authscheme/core"
)

var errBadCredential = errors.New("bad credential")

// fakeOptions configure a scheme that reads "X-Auth-<scheme>" headers:
// "good" authenticates, any other value is rejected.
type fakeOptions struct {
	core.Options

	attempts int
	invalid  bool
}

func (o *fakeOptions) Validate() error {
	if o.invalid {
		return errors.New("fake options are invalid")
	}
	return nil
}

type fakeHandler struct {
	*core.Base[*fakeOptions]
	core.UnimplementedHooks
}

func newFakeHandler() *fakeHandler {
	h := &fakeHandler{}
	h.Base = core.NewBase[*fakeOptions](h)
	return h
}

func (h *fakeHandler) PerformAuthenticate(context.Context) core.Result {
	opts := h.Options()
	opts.attempts++

	v := h.Exchange().Request().Header.Get("X-Auth-" + opts.SchemeName)
	switch v {
	case "":
		return core.NoResult()
	case "good":
		return core.Success(core.NewTicket("user-of-"+opts.SchemeName, opts.SchemeName))
	}
	return core.Fail(errBadCredential)
}

func (h *fakeHandler) PerformChallenge(_ context.Context, cc *core.ChallengeContext) error {
	resp := h.Exchange().Response()
	resp.Header().Set("WWW-Authenticate", h.Options().SchemeName)
	resp.WriteHeader(http.StatusUnauthorized)
	return nil
}

func (h *fakeHandler) PerformSignIn(_ context.Context, sc *core.SignInContext) error {
	h.Exchange().Response().Header().Set("X-Signed-In", sc.Ticket.Principal.(string))
	return nil
}

func (h *fakeHandler) PerformSignOut(context.Context, *core.SignOutContext) error {
	h.Exchange().Response().Header().Set("X-Signed-Out", h.Options().SchemeName)
	return nil
}

func (h *fakeHandler) DescribeScheme(context.Context) (core.SchemeDescription, error) {
	return core.SchemeDescription{Items: map[string]string{"kind": "fake"}}, nil
}

func fakeScheme(name string, automatic bool) (core.Registration, *fakeOptions) {
	opts := &fakeOptions{Options: core.Options{SchemeName: name, AutomaticAuthenticate: automatic}}
	return core.Register(opts, newFakeHandler), opts
}

func fakeRegistration(name string, automatic bool) core.Registration {
	reg, _ := fakeScheme(name, automatic)
	return reg
}
