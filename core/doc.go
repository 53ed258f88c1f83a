/*
Package core provides the framework-agnostic logic that decides which
authentication scheme handler acts on a request.

Several schemes (bearer tokens, basic credentials, cookies) can be registered
on the same pipeline. For every request each scheme gets a fresh handler,
and each handler points back at the one registered before it. The core
decides, per operation, whether a handler is responsible, runs its
authentication at most once, and forwards what it is not responsible for
down the chain.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, gRPC, Gin, Echo)                │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core (THIS PACKAGE)                │
	│  • Scheme match policy                      │
	│  • One-attempt authentication cache         │
	│  • Chain forwarding                         │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Scheme Hooks                       │
	│  (PerformAuthenticate, PerformChallenge...) │
	└─────────────────────────────────────────────┘

# Matching

A handler configured for scheme S answers:

  - explicitly, when the request names S exactly (case-sensitive);
  - automatically, when AutomaticAuthenticate is set and the request names
    no scheme at all (empty or whitespace).

The two paths never merge: an automatic handler asked for its own scheme
name in automatic mode does not match. Challenges, sign-in and sign-out
only use the explicit path. Authenticate accepts either.

# Writing a Scheme

	type Options struct {
	    core.Options
	    Realm string
	}

	type Handler struct {
	    *core.Base[*Options]
	    core.UnimplementedHooks
	}

	func New() *Handler {
	    h := &Handler{}
	    h.Base = core.NewBase[*Options](h)
	    return h
	}

	func (h *Handler) PerformAuthenticate(ctx context.Context) core.Result {
	    // inspect h.Exchange().Request()
	}

	func (h *Handler) PerformChallenge(ctx context.Context, cc *core.ChallengeContext) error {
	    h.Exchange().Response().WriteHeader(http.StatusUnauthorized)
	    return nil
	}

Register it so a pipeline can build one handler per request:

	reg := core.Register(&Options{Options: core.Options{SchemeName: "Custom"}}, New)

# Error Handling

Rejected credentials are data, not errors:

	res, err := h.Authenticate(ctx, core.NewAuthenticateContext("Bearer"))
	if err != nil {
	    // programming error, e.g. core.ErrNotInitialized
	}
	if res.Failed() {
	    // res.Failure() says why
	}

Hooks a scheme does not support return ErrNotImplemented. A challenge that
no handler in the chain is responsible for is a silent no-op; check
ChallengeContext.Handled to find out.

# Concurrency

A handler serves a single request. It holds no locks and must not be shared
between goroutines.
*/
package core
