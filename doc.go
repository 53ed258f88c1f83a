/*
Package authscheme provides HTTP middleware that authenticates requests
through a chain of pluggable authentication schemes.

Several schemes (bearer tokens, basic credentials, session cookies, or your
own) are registered on one Middleware. For every request each scheme gets a
fresh handler that points back at the handler registered before it. Automatic
schemes try to authenticate the request, and the resulting ticket is stored in
the request context. Requests without a ticket are challenged or rejected
according to the configured policy.

The package follows the Core-Adapter pattern: the core package decides which
handler is responsible for an operation, the scheme packages implement the
hooks, and this package is the net/http adapter. The framework/gin,
framework/echo and integrations/grpc packages adapt the same pipeline to
other transports.

# Quick Start

	import (
	    "github.com/auth0/go-authscheme"
	    "github.com/auth0/go-authscheme/core"
	    "github.com/auth0/go-authscheme/jwks"
	    "github.com/auth0/go-authscheme/schemes/bearer"
	    "github.com/auth0/go-authscheme/validator"
	)

	func main() {
	    issuerURL, _ := url.Parse("https://your-domain.auth0.com/")
	    provider, err := jwks.NewCachingProvider(jwks.WithIssuerURL(issuerURL))
	    if err != nil {
	        log.Fatal(err)
	    }

	    tokenValidator, err := validator.New(
	        validator.WithKeySet(provider.KeySet),
	        validator.WithAlgorithm(validator.RS256),
	        validator.WithIssuer(issuerURL.String()),
	        validator.WithAudience("your-api-identifier"),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    middleware, err := authscheme.New(
	        authscheme.WithScheme(bearer.Register(&bearer.Options{
	            Options:   core.Options{AutomaticAuthenticate: true},
	            Validator: tokenValidator,
	            Realm:     "api",
	        })),
	        authscheme.WithDefaultChallengeScheme(bearer.SchemeName),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.Handle("/api/", middleware.CheckAuth(apiHandler))
	    http.ListenAndServe(":8080", nil)
	}

# Accessing the Ticket

A successful authentication produces a core.Ticket naming the scheme and
carrying its principal:

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    claims, err := authscheme.GetPrincipal[*validator.ValidatedClaims](r.Context())
	    if err != nil {
	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
	        return
	    }
	    fmt.Fprintf(w, "Hello, %s!", claims.RegisteredClaims.Subject)
	}

Check if a ticket exists without retrieving it:

	if authscheme.HasTicket(r.Context()) {
	    // authenticated
	}

# Several Schemes

Schemes are chained in registration order. Automatic schemes are all given
a chance to authenticate the request; the first success wins, otherwise the
first failure is reported. Non-automatic schemes only run when asked for by
name through the Manager:

	middleware, err := authscheme.New(
	    authscheme.WithScheme(cookie.Register(&cookie.Options{
	        Options:    core.Options{AutomaticAuthenticate: true},
	        SigningKey: sessionKey,
	    })),
	    authscheme.WithScheme(basic.Register(&basic.Options{
	        Validator: basic.NewBcryptStore(hashes),
	    })),
	)

	func login(w http.ResponseWriter, r *http.Request) {
	    mgr, _ := authscheme.ManagerFromContext(r.Context())
	    res, err := mgr.Authenticate(r.Context(), basic.SchemeName)
	    if err != nil || !res.Succeeded() {
	        _ = mgr.Challenge(r.Context(), basic.SchemeName, nil)
	        return
	    }
	    _ = mgr.SignIn(r.Context(), cookie.SchemeName, res.Ticket(), map[string]string{
	        cookie.RedirectURIProperty: "/",
	    })
	}

# Configuration Options

All options are passed to New():

	middleware, err := authscheme.New(
	    authscheme.WithScheme(reg),                   // Required, at least once
	    authscheme.WithCredentialsOptional(false),    // Optional
	    authscheme.WithDefaultChallengeScheme("..."), // Optional
	    authscheme.WithErrorHandler(customHandler),   // Optional
	    authscheme.WithExclusionUrls([]string{"/health"}),
	    authscheme.WithLogger(slog.Default()),
	    authscheme.WithMetrics(authscheme.NewPrometheusMetrics(nil)),
	    authscheme.WithTracer(authscheme.NewOpenTelemetryTracer(tracer)),
	)

Scheme options are validated by New(), so misconfiguration is reported at
startup rather than on the first request.

# Error Handling

Requests without a ticket while credentials are required end in the error
handler unless a default challenge scheme is configured. The default handler
responds with:

  - 401 for ErrUnauthenticated (nothing presented)
  - 401 for ErrCredentialsInvalid (an automatic scheme rejected the credentials)
  - 500 for everything else

Scheme and configuration errors are *core.OperationError values carrying a
machine-readable code:

	var opErr *core.OperationError
	if errors.As(err, &opErr) && opErr.Code == core.ErrorCodeNotImplemented {
	    // the scheme does not support the operation
	}

# Logging, Metrics and Tracing

The Logger interface matches *slog.Logger. NewZapLogger, NewZerologLogger and
NewLogrusLogger adapt the other common loggers. PrometheusMetrics records
authenticate outcomes, durations and challenges; OpenTelemetryTracer wraps
authenticate and challenge operations in spans.

# Configuration Files

The config package builds a Middleware from YAML and AUTHSCHEME_*
environment variables, for services that prefer declarative setup.
*/
package authscheme
