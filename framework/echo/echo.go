// Package authecho runs an authscheme.Middleware inside an echo server.
package authecho

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
)

// DefaultTicketKey is the echo context key the ticket is stored under.
const DefaultTicketKey = "authscheme.ticket"

type config struct {
	errorHandler func(echo.Context, error) error
	ticketKey    string
}

// New returns an echo middleware running automatic authentication for
// every request. The response writer is wrapped for the length of the
// request so scheme callbacks run when headers are sent.
func New(m *authscheme.Middleware, opts ...Option) echo.MiddlewareFunc {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		ticketKey:    DefaultTicketKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if m.Excluded(req) {
				return next(c)
			}

			resp := c.Response()
			exchange, rw, complete := authscheme.NewExchange(resp.Writer, req, m.Logger())
			defer complete()
			resp.Writer = rw

			mgr, err := m.NewManager(exchange)
			if err != nil {
				return cfg.errorHandler(c, err)
			}

			ctx, handled, err := m.Authorize(req.Context(), mgr)
			c.SetRequest(req.WithContext(ctx))
			if handled {
				if err != nil {
					return cfg.errorHandler(c, err)
				}
				return nil
			}

			if ticket, err := core.GetTicket(ctx); err == nil {
				c.Set(cfg.ticketKey, ticket)
			}
			return next(c)
		}
	}
}

// GetTicket returns the ticket of an authenticated request.
func GetTicket(c echo.Context) (*core.Ticket, error) {
	return core.GetTicket(c.Request().Context())
}

func defaultErrorHandler(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, authscheme.ErrUnauthenticated) || errors.Is(err, authscheme.ErrCredentialsInvalid) {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, map[string]string{"message": err.Error()})
}
