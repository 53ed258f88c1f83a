// Package authgin runs an authscheme.Middleware inside a gin engine.
package authgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
)

// DefaultTicketKey is the gin context key the ticket is stored under.
const DefaultTicketKey = "authscheme.ticket"

type config struct {
	errorHandler func(*gin.Context, error)
	ticketKey    string
}

// New returns a gin middleware running automatic authentication for every
// request. A request the middleware answers itself (challenge or error) is
// aborted; otherwise the ticket, if any, is stored under the ticket key and
// in the request context.
func New(m *authscheme.Middleware, opts ...Option) gin.HandlerFunc {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		ticketKey:    DefaultTicketKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		if m.Excluded(c.Request) {
			c.Next()
			return
		}

		exchange, rw, complete := authscheme.NewExchange(c.Writer, c.Request, m.Logger())
		defer complete()

		w := &responseWriter{ResponseWriter: c.Writer, rw: rw}
		c.Writer = w

		mgr, err := m.NewManager(exchange)
		if err != nil {
			cfg.errorHandler(c, err)
			c.Abort()
			return
		}

		ctx, handled, err := m.Authorize(c.Request.Context(), mgr)
		c.Request = c.Request.WithContext(ctx)
		if handled {
			if err != nil {
				cfg.errorHandler(c, err)
			}
			c.Abort()
			return
		}

		if ticket, err := core.GetTicket(ctx); err == nil {
			c.Set(cfg.ticketKey, ticket)
		}
		c.Next()
		w.WriteHeaderNow()
	}
}

// GetTicket returns the ticket of an authenticated request.
func GetTicket(c *gin.Context) (*core.Ticket, error) {
	return core.GetTicket(c.Request.Context())
}

func defaultErrorHandler(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, authscheme.ErrUnauthenticated) || errors.Is(err, authscheme.ErrCredentialsInvalid) {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// responseWriter routes header writes through the exchange so callbacks
// registered by schemes run before gin sends the headers.
type responseWriter struct {
	gin.ResponseWriter
	rw http.ResponseWriter
}

func (w *responseWriter) WriteHeader(code int) { w.rw.WriteHeader(code) }

func (w *responseWriter) Write(b []byte) (int, error) { return w.rw.Write(b) }

func (w *responseWriter) WriteString(s string) (int, error) { return w.rw.Write([]byte(s)) }

func (w *responseWriter) WriteHeaderNow() {
	if !w.Written() {
		w.rw.WriteHeader(w.Status())
	}
	w.ResponseWriter.WriteHeaderNow()
}
