package authscheme

import (
	"context"
	"fmt"
	"net/http"

	"github.com/auth0/go-authscheme/core"
)

// Middleware runs the registered authentication schemes for every request.
type Middleware struct {
	schemes             []core.Registration
	errorHandler        ErrorHandler
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	encoder             core.Encoder
	metrics             Metrics
	tracer              Tracer

	credentialsOptional    bool
	defaultChallengeScheme string
}

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should skip authentication entirely.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new Middleware instance with the supplied options.
// At least one scheme must be registered with WithScheme.
//
// Example:
//
//	middleware, err := authscheme.New(
//	    authscheme.WithScheme(bearer.Register(bearerOpts)),
//	    authscheme.WithScheme(basic.Register(basicOpts)),
//	    authscheme.WithDefaultChallengeScheme("Bearer"),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		credentialsOptional: false, // Credentials required by default
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", err)
	}

	m.applyDefaults()

	return m, nil
}

// validate ensures all required fields are set
func (m *Middleware) validate() error {
	if len(m.schemes) == 0 {
		return ErrNoSchemes
	}
	if m.defaultChallengeScheme != "" && !m.hasScheme(m.defaultChallengeScheme) {
		return fmt.Errorf("%w: %q", ErrUnknownChallengeScheme, m.defaultChallengeScheme)
	}
	return nil
}

// applyDefaults sets default values for optional fields
func (m *Middleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.logger == nil {
		m.logger = core.NopLogger()
	}
	if m.encoder == nil {
		m.encoder = core.URLEncoder{}
	}
	if m.metrics == nil {
		m.metrics = &NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = &NoopTracer{}
	}
}

func (m *Middleware) hasScheme(name string) bool {
	for _, reg := range m.schemes {
		if reg.SchemeName() == name {
			return true
		}
	}
	return false
}

// Schemes returns the registered scheme names in registration order.
func (m *Middleware) Schemes() []string {
	names := make([]string, 0, len(m.schemes))
	for _, reg := range m.schemes {
		names = append(names, reg.SchemeName())
	}
	return names
}

// Excluded reports whether r skips authentication (see WithExclusionUrls).
func (m *Middleware) Excluded(r *http.Request) bool {
	return m.exclusionURLHandler != nil && m.exclusionURLHandler(r)
}

// Logger returns the configured logger.
func (m *Middleware) Logger() Logger { return m.logger }

// NewManager builds the per-request handler chain for an exchange.
// Adapters that do not go through CheckAuth use it directly.
func (m *Middleware) NewManager(exchange core.Exchange) (*Manager, error) {
	mgr := &Manager{
		logger:  m.logger,
		metrics: m.metrics,
		tracer:  m.tracer,
	}

	var prior core.Handler
	for _, reg := range m.schemes {
		h, err := reg.Build(exchange, m.logger, m.encoder, prior)
		if err != nil {
			return nil, err
		}
		mgr.handlers = append(mgr.handlers, registeredHandler{
			scheme:    reg.SchemeName(),
			automatic: reg.Automatic(),
			handler:   h,
		})
		prior = h
	}
	mgr.head = prior

	return mgr, nil
}

// Authorize runs automatic authentication and the credentials policy for
// one exchange. It returns the context for the rest of the request. When
// handled is true a response (challenge or error) has already been decided
// and the request must not continue; err is then the reason, or nil when a
// scheme wrote its own challenge.
func (m *Middleware) Authorize(ctx context.Context, mgr *Manager) (out context.Context, handled bool, err error) {
	ctx = WithManager(ctx, mgr)

	res, err := mgr.AuthenticateAutomatic(ctx)
	if err != nil {
		m.logger.Error("automatic authentication failed", "error", err)
		return ctx, true, err
	}

	if ticket := res.Ticket(); ticket != nil {
		m.logger.Debug("request authenticated", "scheme", ticket.Scheme)
		return core.SetTicket(ctx, ticket), false, nil
	}

	if m.credentialsOptional {
		m.logger.Debug("no ticket, continuing without identity (credentials optional)")
		return ctx, false, nil
	}

	if m.defaultChallengeScheme != "" {
		if err := mgr.Challenge(ctx, m.defaultChallengeScheme, nil); err != nil {
			return ctx, true, err
		}
		return ctx, true, nil
	}

	if res.Failed() {
		return ctx, true, invalidError{details: res.Failure()}
	}
	return ctx, true, ErrUnauthenticated
}

// CheckAuth is the main Middleware function. Each request gets fresh
// handlers for every registered scheme, automatic schemes authenticate it,
// and the ticket (if any) is stored in the request context for next.
func (m *Middleware) CheckAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Excluded(r) {
			m.logger.Debug("skipping authentication for excluded URL",
				"method", r.Method,
				"path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		rw := newResponseWriter(w, m.logger)
		defer rw.complete()

		exchange := &httpExchange{req: r, resp: rw}
		mgr, err := m.NewManager(exchange)
		if err != nil {
			m.logger.Error("failed to build handler chain",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path)
			m.errorHandler(rw, r, err)
			return
		}

		ctx, handled, err := m.Authorize(r.Context(), mgr)
		r = r.WithContext(ctx)
		exchange.req = r

		if handled {
			if err != nil {
				m.logger.Warn("request rejected",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
				m.errorHandler(rw, r, err)
			}
			return
		}

		next.ServeHTTP(rw, r)
	})
}
