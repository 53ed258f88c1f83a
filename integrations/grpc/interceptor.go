package grpc

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc"

	"github.com/auth0/go-authscheme"
)

// Interceptor runs an authscheme.Middleware for gRPC calls.
type Interceptor struct {
	middleware      *authscheme.Middleware
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          authscheme.Logger
}

// New creates the interceptors for m. The middleware's schemes, credentials
// policy and default challenge scheme apply unchanged; its HTTP error
// handler and URL exclusions do not.
func New(m *authscheme.Middleware, opts ...Option) (*Interceptor, error) {
	if m == nil {
		return nil, errors.New("middleware cannot be nil")
	}

	i := &Interceptor{
		middleware:      m,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
		logger:          m.Logger(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// UnaryServerInterceptor authenticates unary calls. Headers written by
// schemes are sent as header metadata once the handler returns.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.excludedMethods[info.FullMethod] {
			i.logger.Debug("skipping authentication for excluded method", "method", info.FullMethod)
			return handler(ctx, req)
		}

		authCtx, resp, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		defer i.finish(ctx, resp)

		return handler(authCtx, req)
	}
}

// StreamServerInterceptor authenticates streaming calls. Header metadata is
// set before the handler runs.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			i.logger.Debug("skipping authentication for excluded method", "method", info.FullMethod)
			return handler(srv, ss)
		}

		authCtx, resp, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		i.finish(ss.Context(), resp)

		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

// authenticate runs automatic authentication for one call. A challenge
// decided by the pipeline comes back as an error built from the recorded
// response, with its headers already set as metadata.
func (i *Interceptor) authenticate(ctx context.Context, method string) (context.Context, *metadataResponse, error) {
	exchange, err := newMetadataExchange(ctx, method, i.logger)
	if err != nil {
		i.logger.Warn("invalid request metadata", "error", err, "method", method)
		return ctx, nil, i.errorHandler(err)
	}

	mgr, err := i.middleware.NewManager(exchange)
	if err != nil {
		i.logger.Error("failed to build handler chain", "error", err, "method", method)
		return ctx, nil, i.errorHandler(err)
	}

	authCtx, handled, err := i.middleware.Authorize(ctx, mgr)
	if handled {
		if err == nil {
			err = newChallengeError(exchange.resp)
		}
		i.logger.Warn("call rejected", "error", err, "method", method)
		i.finish(ctx, exchange.resp)
		return ctx, nil, i.errorHandler(err)
	}

	return authCtx, exchange.resp, nil
}

// finish starts the recorded response, forwards its headers and runs the
// completion callbacks.
func (i *Interceptor) finish(ctx context.Context, resp *metadataResponse) {
	if !resp.HasStarted() {
		resp.WriteHeader(http.StatusOK)
	}
	if md := resp.headerMetadata(); md.Len() > 0 {
		if err := grpc.SetHeader(ctx, md); err != nil {
			i.logger.Debug("could not set header metadata", "error", err)
		}
	}
	resp.complete()
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the authenticated context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
