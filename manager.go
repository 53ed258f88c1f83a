package authscheme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auth0/go-authscheme/core"
)

type registeredHandler struct {
	scheme    string
	automatic bool
	handler   core.Handler
}

// Manager is the per-request entry point to the handler chain. Operations
// start at the most recently registered handler and travel towards the
// first one. Like the handlers it wraps, a Manager serves one request.
type Manager struct {
	head     core.Handler
	handlers []registeredHandler
	logger   Logger
	metrics  Metrics
	tracer   Tracer
}

type managerKey struct{}

// WithManager stores the manager in ctx.
func WithManager(ctx context.Context, mgr *Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, mgr)
}

// ManagerFromContext returns the manager installed by CheckAuth.
func ManagerFromContext(ctx context.Context) (*Manager, bool) {
	mgr, ok := ctx.Value(managerKey{}).(*Manager)
	return mgr, ok && mgr != nil
}

// AuthenticateAutomatic gives every automatic handler, in registration
// order, a chance to authenticate a request that names no scheme. The first
// success wins; without one the first failure is returned so callers can
// tell rejected credentials from missing ones.
func (m *Manager) AuthenticateAutomatic(ctx context.Context) (core.Result, error) {
	var success, failure *core.Result

	for _, rh := range m.handlers {
		if !rh.automatic {
			continue
		}

		res, err := m.authenticate(ctx, rh.handler, rh.scheme, "")
		if err != nil {
			return core.Result{}, err
		}

		switch {
		case res.Succeeded() && success == nil:
			success = &res
		case res.Failed() && failure == nil:
			failure = &res
		}
	}

	switch {
	case success != nil:
		return *success, nil
	case failure != nil:
		return *failure, nil
	}
	return core.NoResult(), nil
}

// Authenticate asks the chain to authenticate the named scheme. A scheme's
// authentication runs at most once per request; repeated calls return the
// cached result.
//
// A handler answers with its cached result once it has attempted
// authentication, whatever scheme is asked for, so a named scheme is sent
// straight to the handler registered under that name. A name no handler is
// registered under yields NoResult without entering the chain. Empty names
// enter the chain at the newest handler.
func (m *Manager) Authenticate(ctx context.Context, scheme string) (core.Result, error) {
	if strings.TrimSpace(scheme) == "" {
		return m.authenticate(ctx, m.head, scheme, scheme)
	}
	for _, rh := range m.handlers {
		if rh.scheme == scheme {
			return m.authenticate(ctx, rh.handler, scheme, scheme)
		}
	}
	m.logger.Debug("no handler is registered for scheme", "scheme", scheme)
	return core.NoResult(), nil
}

func (m *Manager) authenticate(ctx context.Context, h core.Handler, label, scheme string) (core.Result, error) {
	ctx, span := m.tracer.StartSpan(ctx, "authscheme.authenticate")
	defer span.Finish()
	span.SetTag("scheme", label)

	start := time.Now()
	res, err := h.Authenticate(ctx, core.NewAuthenticateContext(scheme))
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		return res, err
	}

	span.SetTag("outcome", res.Outcome().String())
	m.metrics.IncCounter("authscheme_authenticate_total", map[string]string{
		"scheme":  label,
		"outcome": res.Outcome().String(),
	})
	m.metrics.ObserveHistogram("authscheme_authenticate_duration_seconds", duration.Seconds(), map[string]string{
		"scheme": label,
	})

	return res, nil
}

// Challenge asks the named scheme to challenge the request. Returns
// ErrUnhandledScheme when no handler in the chain is responsible.
func (m *Manager) Challenge(ctx context.Context, scheme string, properties map[string]string) error {
	ctx, span := m.tracer.StartSpan(ctx, "authscheme.challenge")
	defer span.Finish()
	span.SetTag("scheme", scheme)

	cc := core.NewChallengeContext(scheme, properties)
	if err := m.head.Challenge(ctx, cc); err != nil {
		span.RecordError(err)
		return err
	}

	m.metrics.IncCounter("authscheme_challenge_total", map[string]string{
		"scheme":  scheme,
		"handled": fmt.Sprint(cc.Handled()),
	})

	if !cc.Handled() {
		m.logger.Warn("no handler is configured to challenge scheme", "scheme", scheme)
		return unhandled(scheme)
	}
	return nil
}

// SignIn persists the ticket through the named scheme.
func (m *Manager) SignIn(ctx context.Context, scheme string, ticket *core.Ticket, properties map[string]string) error {
	if ticket == nil {
		return errors.New("ticket cannot be nil")
	}

	sc := core.NewSignInContext(scheme, ticket, properties)
	if err := m.head.SignIn(ctx, sc); err != nil {
		return err
	}
	if !sc.Handled() {
		return unhandled(scheme)
	}
	return nil
}

// SignOut removes any ticket persisted by the named scheme.
func (m *Manager) SignOut(ctx context.Context, scheme string, properties map[string]string) error {
	sc := core.NewSignOutContext(scheme, properties)
	if err := m.head.SignOut(ctx, sc); err != nil {
		return err
	}
	if !sc.Handled() {
		return unhandled(scheme)
	}
	return nil
}

// Describe lists every registered scheme, newest first.
func (m *Manager) Describe(ctx context.Context) ([]core.SchemeDescription, error) {
	dc := &core.DescribeContext{}
	if err := m.head.Describe(ctx, dc); err != nil {
		return nil, err
	}
	return dc.Descriptions(), nil
}

func unhandled(scheme string) error {
	return fmt.Errorf("%w: %q", ErrUnhandledScheme, scheme)
}
