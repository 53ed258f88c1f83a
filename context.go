package authscheme

import (
	"context"

	"github.com/auth0/go-authscheme/core"
)

// GetTicket retrieves the ticket stored in the request context by CheckAuth.
// Returns ErrTicketNotFound when the request was not authenticated.
//
// Example usage:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    ticket, err := authscheme.GetTicket(r.Context())
//	    if err != nil {
//	        http.Error(w, "unauthorized", http.StatusUnauthorized)
//	        return
//	    }
//	    fmt.Fprintf(w, "hello from %s", ticket.Scheme)
//	}
func GetTicket(ctx context.Context) (*core.Ticket, error) {
	return core.GetTicket(ctx)
}

// MustGetTicket is GetTicket for handlers that only run behind CheckAuth
// with credentials required. It panics when no ticket is present.
func MustGetTicket(ctx context.Context) *core.Ticket {
	ticket, err := core.GetTicket(ctx)
	if err != nil {
		panic(err)
	}
	return ticket
}

// GetPrincipal retrieves the ticket principal with a type assertion.
//
// Example usage:
//
//	claims, err := authscheme.GetPrincipal[*bearer.Claims](r.Context())
func GetPrincipal[T any](ctx context.Context) (T, error) {
	return core.GetPrincipal[T](ctx)
}

// HasTicket checks if a ticket exists in the context without retrieving it.
func HasTicket(ctx context.Context) bool {
	return core.HasTicket(ctx)
}
