package authgin

import "github.com/gin-gonic/gin"

// Option configures the gin middleware.
type Option func(*config)

// WithErrorHandler sets the handler for rejected requests and pipeline
// errors. It should abort the context and write a response.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.errorHandler = handler
		}
	}
}

// WithTicketKey sets the gin context key for the ticket.
func WithTicketKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.ticketKey = key
		}
	}
}
