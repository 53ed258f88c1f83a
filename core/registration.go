package core

import "fmt"

// Initializer is implemented by handlers built on Base.
type Initializer[O SchemeOptions] interface {
	Handler
	Initialize(options O, exchange Exchange, logger Logger, encoder Encoder) error
	SetPrior(prior Handler)
}

// Registration turns shared scheme options into a fresh handler per request.
type Registration interface {
	// SchemeName returns the configured scheme name.
	SchemeName() string

	// Automatic reports whether the scheme authenticates requests that name no scheme.
	Automatic() bool

	// Validate checks the options once, before any request is served.
	Validate() error

	// Build creates, initializes and links a handler for one request.
	Build(exchange Exchange, logger Logger, encoder Encoder, prior Handler) (Handler, error)
}

// Validator is implemented by scheme options that can check themselves.
type Validator interface {
	Validate() error
}

type registration[O SchemeOptions, H Initializer[O]] struct {
	options    O
	newHandler func() H
}

// Register binds scheme options to a handler constructor. The options are
// shared by every handler the registration builds.
//
// Example:
//
//	reg := core.Register(&bearer.Options{...}, bearer.New)
func Register[O SchemeOptions, H Initializer[O]](options O, newHandler func() H) Registration {
	return &registration[O, H]{options: options, newHandler: newHandler}
}

func (r *registration[O, H]) SchemeName() string {
	return r.options.AuthenticationOptions().SchemeName
}

func (r *registration[O, H]) Automatic() bool {
	return r.options.AuthenticationOptions().AutomaticAuthenticate
}

// Validate runs the options' own Validate method when they have one.
func (r *registration[O, H]) Validate() error {
	if isNil(r.options) || r.options.AuthenticationOptions() == nil {
		return NewOperationError(ErrorCodeConfigInvalid, "", "options cannot be nil", nil)
	}
	if v, ok := any(r.options).(Validator); ok {
		if err := v.Validate(); err != nil {
			return NewOperationError(ErrorCodeConfigInvalid, r.SchemeName(), "invalid options", err)
		}
	}
	return nil
}

func (r *registration[O, H]) Build(exchange Exchange, logger Logger, encoder Encoder, prior Handler) (Handler, error) {
	h := r.newHandler()
	if err := h.Initialize(r.options, exchange, logger, encoder); err != nil {
		return nil, fmt.Errorf("initializing %q handler: %w", r.SchemeName(), err)
	}
	if prior != nil {
		h.SetPrior(prior)
	}
	return h, nil
}
