package core

import "context"

// AuthenticateContext carries one logical authenticate operation through the
// handler chain. It is created by the caller, passed by reference, and its
// result is written exactly once.
type AuthenticateContext struct {
	// Scheme is the requested scheme. Empty means "whichever handler is automatic".
	Scheme string

	result    Result
	completed bool
}

// NewAuthenticateContext returns a context requesting the given scheme.
func NewAuthenticateContext(scheme string) *AuthenticateContext {
	return &AuthenticateContext{Scheme: scheme}
}

// Complete records the result. Only the first call has an effect.
func (c *AuthenticateContext) Complete(result Result) {
	if c.completed {
		return
	}
	c.result = result
	c.completed = true
}

// Completed reports whether a result has been recorded.
func (c *AuthenticateContext) Completed() bool { return c.completed }

// Result returns the recorded result; NoResult until Complete is called.
func (c *AuthenticateContext) Result() Result { return c.result }

// Ticket is a shortcut for Result().Ticket().
func (c *AuthenticateContext) Ticket() *Ticket { return c.result.Ticket() }

// ChallengeContext carries one challenge operation through the handler chain.
type ChallengeContext struct {
	// Scheme is the scheme that should challenge. It must be named explicitly.
	Scheme string

	// Properties is passed through untouched to the handling scheme.
	Properties map[string]string

	handled bool
}

// NewChallengeContext returns a context challenging the given scheme.
func NewChallengeContext(scheme string, properties map[string]string) *ChallengeContext {
	return &ChallengeContext{Scheme: scheme, Properties: properties}
}

// MarkHandled records that a handler emitted a challenge.
func (c *ChallengeContext) MarkHandled() { c.handled = true }

// Handled reports whether any handler in the chain emitted a challenge.
func (c *ChallengeContext) Handled() bool { return c.handled }

// SignInContext asks the named scheme to persist a ticket.
type SignInContext struct {
	Scheme     string
	Ticket     *Ticket
	Properties map[string]string

	handled bool
}

// NewSignInContext returns a sign-in context for the ticket.
func NewSignInContext(scheme string, ticket *Ticket, properties map[string]string) *SignInContext {
	return &SignInContext{Scheme: scheme, Ticket: ticket, Properties: properties}
}

// MarkHandled records that a handler signed the ticket in.
func (c *SignInContext) MarkHandled() { c.handled = true }

// Handled reports whether a handler accepted the sign-in.
func (c *SignInContext) Handled() bool { return c.handled }

// SignOutContext asks the named scheme to drop any persisted ticket.
type SignOutContext struct {
	Scheme     string
	Properties map[string]string

	handled bool
}

// NewSignOutContext returns a sign-out context.
func NewSignOutContext(scheme string, properties map[string]string) *SignOutContext {
	return &SignOutContext{Scheme: scheme, Properties: properties}
}

// MarkHandled records that a handler signed out.
func (c *SignOutContext) MarkHandled() { c.handled = true }

// Handled reports whether a handler accepted the sign-out.
func (c *SignOutContext) Handled() bool { return c.handled }

// SchemeDescription describes one registered scheme.
type SchemeDescription struct {
	Scheme      string
	DisplayName string
	Automatic   bool
	Items       map[string]string
}

// DescribeContext collects descriptions from every handler in a chain.
type DescribeContext struct {
	descriptions []SchemeDescription
}

// Accept appends a description.
func (c *DescribeContext) Accept(d SchemeDescription) {
	c.descriptions = append(c.descriptions, d)
}

// Descriptions returns the descriptions collected so far, newest handler first.
func (c *DescribeContext) Descriptions() []SchemeDescription {
	return c.descriptions
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	ticketKey contextKey = iota
)

// SetTicket stores the authenticated ticket in ctx.
func SetTicket(ctx context.Context, ticket *Ticket) context.Context {
	return context.WithValue(ctx, ticketKey, ticket)
}

// GetTicket retrieves the ticket stored by SetTicket.
func GetTicket(ctx context.Context) (*Ticket, error) {
	ticket, ok := ctx.Value(ticketKey).(*Ticket)
	if !ok || ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// GetPrincipal retrieves the ticket principal with a type assertion.
//
// Example usage:
//
//	claims, err := core.GetPrincipal[map[string]any](ctx)
//	if err != nil {
//	    return err
//	}
func GetPrincipal[T any](ctx context.Context) (T, error) {
	var zero T

	ticket, err := GetTicket(ctx)
	if err != nil {
		return zero, err
	}

	principal, ok := ticket.Principal.(T)
	if !ok {
		return zero, NewOperationError(
			ErrorCodeTicketNotFound,
			ticket.Scheme,
			"principal type assertion failed",
			nil,
		)
	}

	return principal, nil
}

// HasTicket checks if a ticket exists in the context without retrieving it.
func HasTicket(ctx context.Context) bool {
	ticket, ok := ctx.Value(ticketKey).(*Ticket)
	return ok && ticket != nil
}
