package authscheme

import (
	"context"
	"net/http"

	"github.com/auth0/go-authscheme/core"
)

// httpExchange adapts a net/http request to core.Exchange.
type httpExchange struct {
	req  *http.Request
	resp *responseWriter
}

func (e *httpExchange) Context() context.Context { return e.req.Context() }
func (e *httpExchange) Request() *http.Request   { return e.req }
func (e *httpExchange) Response() core.Response  { return e.resp }

// NewExchange wraps w and r for adapters that build their own handler chain.
// complete must be called once the response is finished so OnCompleted
// callbacks run; it writes a 200 header when nothing was written.
func NewExchange(w http.ResponseWriter, r *http.Request, logger Logger) (exchange core.Exchange, rw http.ResponseWriter, complete func()) {
	if logger == nil {
		logger = core.NopLogger()
	}
	resp := newResponseWriter(w, logger)
	return &httpExchange{req: r, resp: resp}, resp, resp.complete
}

// responseWriter tracks whether headers went out and runs the callbacks
// schemes register around that moment.
type responseWriter struct {
	http.ResponseWriter

	logger      Logger
	status      int
	started     bool
	completed   bool
	onStarting  []func() error
	onCompleted []func() error
}

func newResponseWriter(w http.ResponseWriter, logger Logger) *responseWriter {
	return &responseWriter{ResponseWriter: w, logger: logger}
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.started {
		return
	}
	w.start()
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *responseWriter) StatusCode() int  { return w.status }
func (w *responseWriter) HasStarted() bool { return w.started }

func (w *responseWriter) OnStarting(fn func() error) {
	if w.started || fn == nil {
		return
	}
	w.onStarting = append(w.onStarting, fn)
}

func (w *responseWriter) OnCompleted(fn func() error) {
	if fn == nil {
		return
	}
	w.onCompleted = append(w.onCompleted, fn)
}

// start runs OnStarting callbacks, last registered first.
func (w *responseWriter) start() {
	w.started = true
	for i := len(w.onStarting) - 1; i >= 0; i-- {
		if err := w.onStarting[i](); err != nil {
			w.logger.Error("response starting callback failed", "error", err)
		}
	}
	w.onStarting = nil
}

// complete runs OnCompleted callbacks, last registered first. A response
// nothing was written to is started with 200 first, so OnStarting callbacks
// still reach the headers.
func (w *responseWriter) complete() {
	if w.completed {
		return
	}
	w.completed = true
	if !w.started {
		w.WriteHeader(http.StatusOK)
	}
	for i := len(w.onCompleted) - 1; i >= 0; i-- {
		if err := w.onCompleted[i](); err != nil {
			w.logger.Error("response completed callback failed", "error", err)
		}
	}
	w.onCompleted = nil
}
