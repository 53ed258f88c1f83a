package core

import (
	"context"
	"errors"
	"reflect"
)

// Handler is the capability set the pipeline requires from every scheme
// handler. A handler instance serves exactly one request and is not safe
// for concurrent use.
type Handler interface {
	Authenticate(ctx context.Context, ac *AuthenticateContext) (Result, error)
	Challenge(ctx context.Context, cc *ChallengeContext) error
	SignIn(ctx context.Context, sc *SignInContext) error
	SignOut(ctx context.Context, sc *SignOutContext) error
	Describe(ctx context.Context, dc *DescribeContext) error
}

// Hooks are the extension points a concrete scheme supplies. Base calls
// them only after it has decided the handler is responsible.
type Hooks interface {
	PerformAuthenticate(ctx context.Context) Result
	PerformChallenge(ctx context.Context, cc *ChallengeContext) error
	PerformSignIn(ctx context.Context, sc *SignInContext) error
	PerformSignOut(ctx context.Context, sc *SignOutContext) error
	DescribeScheme(ctx context.Context) (SchemeDescription, error)
}

// UnimplementedHooks can be embedded by schemes that only authenticate and
// challenge. Every hook fails with ErrNotImplemented.
type UnimplementedHooks struct{}

func (UnimplementedHooks) PerformAuthenticate(context.Context) Result {
	return Fail(ErrNotImplemented)
}

func (UnimplementedHooks) PerformChallenge(context.Context, *ChallengeContext) error {
	return ErrNotImplemented
}

func (UnimplementedHooks) PerformSignIn(context.Context, *SignInContext) error {
	return ErrNotImplemented
}

func (UnimplementedHooks) PerformSignOut(context.Context, *SignOutContext) error {
	return ErrNotImplemented
}

func (UnimplementedHooks) DescribeScheme(context.Context) (SchemeDescription, error) {
	return SchemeDescription{}, ErrNotImplemented
}

// Base implements Handler on top of a scheme's Hooks. It owns scheme
// matching, the one-attempt authentication cache and forwarding along the
// chain of earlier handlers. Concrete schemes embed *Base and pass
// themselves as the hooks:
//
//	type Handler struct {
//	    *core.Base[*Options]
//	    core.UnimplementedHooks
//	}
//
//	func New() *Handler {
//	    h := &Handler{}
//	    h.Base = core.NewBase[*Options](h)
//	    return h
//	}
type Base[O SchemeOptions] struct {
	hooks    Hooks
	options  O
	exchange Exchange
	logger   Logger
	encoder  Encoder
	prior    Handler

	initialized bool
	attempted   bool
	result      Result
}

// NewBase returns an uninitialized Base dispatching to hooks.
func NewBase[O SchemeOptions](hooks Hooks) *Base[O] {
	return &Base[O]{hooks: hooks}
}

// Initialize stores the configuration and request collaborators. It does no
// authentication work and may be called once.
func (b *Base[O]) Initialize(options O, exchange Exchange, logger Logger, encoder Encoder) error {
	if b.initialized {
		return NewOperationError(ErrorCodeAlreadyInitialized, b.schemeName(), "Initialize called twice", nil)
	}
	if b.hooks == nil {
		return NewOperationError(ErrorCodeConfigInvalid, "", "hooks are required (use NewBase)", nil)
	}
	if isNil(options) || options.AuthenticationOptions() == nil {
		return NewOperationError(ErrorCodeConfigInvalid, "", "options cannot be nil", nil)
	}
	if exchange == nil {
		return NewOperationError(ErrorCodeConfigInvalid, options.AuthenticationOptions().SchemeName, "exchange cannot be nil", nil)
	}
	if logger == nil {
		logger = NopLogger()
	}
	if encoder == nil {
		encoder = URLEncoder{}
	}

	b.options = options
	b.exchange = exchange
	b.logger = logger
	b.encoder = encoder
	b.initialized = true
	return nil
}

// SetPrior links this handler to the one registered before it. The link is
// a plain reference; the chain is built in registration order and never
// loops back.
func (b *Base[O]) SetPrior(prior Handler) { b.prior = prior }

// Prior returns the previously registered handler, or nil.
func (b *Base[O]) Prior() Handler { return b.prior }

// Options returns the scheme options.
func (b *Base[O]) Options() O { return b.options }

// Exchange returns the request collaborator.
func (b *Base[O]) Exchange() Exchange { return b.exchange }

// Logger returns the handler logger.
func (b *Base[O]) Logger() Logger { return b.logger }

// Encoder returns the URL encoder.
func (b *Base[O]) Encoder() Encoder { return b.encoder }

// Initialized reports whether Initialize succeeded.
func (b *Base[O]) Initialized() bool { return b.initialized }

// ShouldHandleScheme applies the match policy to this handler's options.
func (b *Base[O]) ShouldHandleScheme(requested string, handleAutomatic bool) bool {
	opts := b.options.AuthenticationOptions()
	return ShouldHandleScheme(opts.SchemeName, opts.AutomaticAuthenticate, requested, handleAutomatic)
}

// Authenticate runs the scheme's authentication at most once per handler.
//
// Once an attempt has been made the cached result is returned for every
// later call with no further matching. Otherwise the handler attempts
// authentication when the requested scheme matches explicitly or through
// the automatic path, and forwards to the prior handler when it does not.
// Rejected credentials are reported through the Result, never as an error.
func (b *Base[O]) Authenticate(ctx context.Context, ac *AuthenticateContext) (Result, error) {
	if err := b.ensureInitialized(); err != nil {
		return Result{}, err
	}

	if b.attempted {
		ac.Complete(b.result)
		return b.result, nil
	}

	if !b.ShouldHandleScheme(ac.Scheme, false) && !b.ShouldHandleScheme(ac.Scheme, true) {
		if b.prior != nil {
			return b.prior.Authenticate(ctx, ac)
		}
		return ac.Result(), nil
	}

	b.attempted = true
	b.result = b.hooks.PerformAuthenticate(ctx)

	switch b.result.Outcome() {
	case OutcomeSuccess:
		b.logger.Debug("authentication succeeded", "scheme", b.schemeName())
	case OutcomeFailure:
		b.logger.Warn("authentication failed", "scheme", b.schemeName(), "error", b.result.Failure())
	default:
		b.logger.Debug("no credentials for scheme", "scheme", b.schemeName())
	}

	ac.Complete(b.result)
	return b.result, nil
}

// Challenge emits this scheme's challenge when it is named explicitly, and
// otherwise hands the context to the prior handler. With no prior handler an
// unmatched challenge does nothing.
func (b *Base[O]) Challenge(ctx context.Context, cc *ChallengeContext) error {
	if err := b.ensureInitialized(); err != nil {
		return err
	}

	if b.ShouldHandleScheme(cc.Scheme, false) {
		if err := b.hooks.PerformChallenge(ctx, cc); err != nil {
			return b.wrap(err, "challenge failed")
		}
		cc.MarkHandled()
		b.logger.Debug("challenge issued", "scheme", b.schemeName())
		return nil
	}

	if b.prior != nil {
		return b.prior.Challenge(ctx, cc)
	}
	return nil
}

// SignIn follows the same explicit-match-or-forward rule as Challenge.
func (b *Base[O]) SignIn(ctx context.Context, sc *SignInContext) error {
	if err := b.ensureInitialized(); err != nil {
		return err
	}

	if b.ShouldHandleScheme(sc.Scheme, false) {
		if err := b.hooks.PerformSignIn(ctx, sc); err != nil {
			return b.wrap(err, "sign in failed")
		}
		sc.MarkHandled()
		return nil
	}

	if b.prior != nil {
		return b.prior.SignIn(ctx, sc)
	}
	return nil
}

// SignOut follows the same explicit-match-or-forward rule as Challenge.
func (b *Base[O]) SignOut(ctx context.Context, sc *SignOutContext) error {
	if err := b.ensureInitialized(); err != nil {
		return err
	}

	if b.ShouldHandleScheme(sc.Scheme, false) {
		if err := b.hooks.PerformSignOut(ctx, sc); err != nil {
			return b.wrap(err, "sign out failed")
		}
		sc.MarkHandled()
		return nil
	}

	if b.prior != nil {
		return b.prior.SignOut(ctx, sc)
	}
	return nil
}

// Describe adds this scheme's description and continues down the chain.
func (b *Base[O]) Describe(ctx context.Context, dc *DescribeContext) error {
	if err := b.ensureInitialized(); err != nil {
		return err
	}

	desc, err := b.hooks.DescribeScheme(ctx)
	if err != nil {
		return b.wrap(err, "describe failed")
	}
	if desc.Scheme == "" {
		desc.Scheme = b.schemeName()
	}
	if desc.DisplayName == "" {
		desc.DisplayName = b.options.AuthenticationOptions().DisplayName
	}
	desc.Automatic = b.options.AuthenticationOptions().AutomaticAuthenticate
	dc.Accept(desc)

	if b.prior != nil {
		return b.prior.Describe(ctx, dc)
	}
	return nil
}

func (b *Base[O]) ensureInitialized() error {
	if !b.initialized {
		return NewOperationError(ErrorCodeNotInitialized, "", "Initialize must be called before use", nil)
	}
	return nil
}

func (b *Base[O]) schemeName() string {
	if !b.initialized {
		return ""
	}
	return b.options.AuthenticationOptions().SchemeName
}

// wrap attaches the scheme to hook errors; ErrNotImplemented keeps its code.
func (b *Base[O]) wrap(err error, msg string) error {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	code := ""
	if errors.Is(err, ErrNotImplemented) {
		code = ErrorCodeNotImplemented
	}
	return NewOperationError(code, b.schemeName(), msg, err)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
