package grpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
)

// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
var ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

// metadataExchange presents an incoming gRPC call as a core.Exchange.
// Metadata becomes request headers; the response collects headers and a
// status that the interceptor turns into header metadata and a gRPC status.
type metadataExchange struct {
	ctx  context.Context
	req  *http.Request
	resp *metadataResponse
}

func newMetadataExchange(ctx context.Context, method string, logger authscheme.Logger) (*metadataExchange, error) {
	req, err := newRequest(ctx, method)
	if err != nil {
		return nil, err
	}
	return &metadataExchange{
		ctx:  ctx,
		req:  req,
		resp: &metadataResponse{header: make(http.Header), logger: logger},
	}, nil
}

func (e *metadataExchange) Context() context.Context { return e.ctx }
func (e *metadataExchange) Request() *http.Request   { return e.req }
func (e *metadataExchange) Response() core.Response  { return e.resp }

// newRequest builds a POST request for the full method name carrying the
// incoming metadata as headers. Binary ("-bin") entries are skipped.
func newRequest(ctx context.Context, method string) (*http.Request, error) {
	header := make(http.Header)
	host := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if len(md.Get("authorization")) > 1 {
			return nil, ErrMultipleAuthHeaders
		}
		if v := md.Get(":authority"); len(v) > 0 {
			host = v[0]
		}
		for key, values := range md {
			if strings.HasSuffix(key, "-bin") || strings.HasPrefix(key, ":") {
				continue
			}
			for _, v := range values {
				header.Add(key, v)
			}
		}
	}

	u, err := url.Parse(method)
	if err != nil {
		return nil, fmt.Errorf("invalid method name %q: %w", method, err)
	}
	req := &http.Request{
		Method:     http.MethodPost,
		URL:        u,
		Proto:      "HTTP/2.0",
		ProtoMajor: 2,
		Header:     header,
		Host:       host,
		RequestURI: method,
	}
	return req.WithContext(ctx), nil
}

// metadataResponse records what schemes write. Bodies are discarded.
type metadataResponse struct {
	logger      authscheme.Logger
	header      http.Header
	status      int
	started     bool
	onStarting  []func() error
	onCompleted []func() error
}

func (r *metadataResponse) Header() http.Header { return r.header }

func (r *metadataResponse) WriteHeader(statusCode int) {
	if r.started {
		return
	}
	r.start()
	r.status = statusCode
}

func (r *metadataResponse) Write(b []byte) (int, error) {
	if !r.started {
		r.WriteHeader(http.StatusOK)
	}
	return len(b), nil
}

func (r *metadataResponse) StatusCode() int  { return r.status }
func (r *metadataResponse) HasStarted() bool { return r.started }

func (r *metadataResponse) OnStarting(fn func() error) {
	if r.started || fn == nil {
		return
	}
	r.onStarting = append(r.onStarting, fn)
}

func (r *metadataResponse) OnCompleted(fn func() error) {
	if fn != nil {
		r.onCompleted = append(r.onCompleted, fn)
	}
}

func (r *metadataResponse) start() {
	r.started = true
	for i := len(r.onStarting) - 1; i >= 0; i-- {
		if err := r.onStarting[i](); err != nil {
			r.logger.Error("response starting callback failed", "error", err)
		}
	}
	r.onStarting = nil
}

func (r *metadataResponse) complete() {
	for i := len(r.onCompleted) - 1; i >= 0; i-- {
		if err := r.onCompleted[i](); err != nil {
			r.logger.Error("response completed callback failed", "error", err)
		}
	}
	r.onCompleted = nil
}

// headerMetadata returns the response headers as lowercase metadata.
func (r *metadataResponse) headerMetadata() metadata.MD {
	md := metadata.MD{}
	for key, values := range r.header {
		md.Append(strings.ToLower(key), values...)
	}
	return md
}
