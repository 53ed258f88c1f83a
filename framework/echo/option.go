package authecho

import "github.com/labstack/echo/v4"

// Option configures the echo middleware.
type Option func(*config)

// WithErrorHandler sets the handler for rejected requests and pipeline
// errors. Its return value is returned from the middleware.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.errorHandler = handler
		}
	}
}

// WithTicketKey sets the echo context key for the ticket.
func WithTicketKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.ticketKey = key
		}
	}
}
