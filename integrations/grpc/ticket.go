package grpc

import (
	"context"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
)

// GetTicket retrieves the ticket stored by the interceptor.
//
// Example:
//
//	ticket, err := authgrpc.GetTicket(ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "no identity")
//	}
func GetTicket(ctx context.Context) (*core.Ticket, error) {
	return core.GetTicket(ctx)
}

// GetPrincipal retrieves the ticket principal with a type assertion.
func GetPrincipal[T any](ctx context.Context) (T, error) {
	return core.GetPrincipal[T](ctx)
}

// HasTicket checks if a ticket exists in the context.
func HasTicket(ctx context.Context) bool {
	return core.HasTicket(ctx)
}

// ManagerFromContext returns the call's handler chain for explicit
// operations such as authenticating a non-automatic scheme.
func ManagerFromContext(ctx context.Context) (*authscheme.Manager, bool) {
	return authscheme.ManagerFromContext(ctx)
}
