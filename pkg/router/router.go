// Package router maps (method, path pattern) pairs to handlers.
//
// Patterns are '/'-separated segments; a segment written ":name" captures
// one non-empty path segment. Routes are tried in registration order and
// the first match wins. Registering the same method and pattern shape
// again replaces the handler in place, so the last registration wins.
//
// Registration must finish before serving. The server calls Freeze before
// accepting connections, after which the table is read without locks.
package router

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/shapestone/shape-httpd/pkg/http"
)

// Handler maps a request to a response or a failure.
type Handler interface {
	ServeHTTP(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// ServeHTTP calls f(ctx, req).
func (f HandlerFunc) ServeHTTP(ctx context.Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}

// Route describes a registered route.
type Route struct {
	Method  http.Method
	Pattern string
	Params  []string
}

type route struct {
	method  http.Method
	pattern *pattern
	handler Handler
}

// Router is a registry of routes.
type Router struct {
	routes   []*route
	frozen   atomic.Bool
	log      zerolog.Logger
	notFound Handler
}

// New returns an empty router.
func New(opts ...Option) *Router {
	r := &Router{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a route. It returns a *PatternError for an invalid pattern
// and ErrFrozen after Freeze.
func (r *Router) Register(method http.Method, pattern string, h Handler) error {
	if r.frozen.Load() {
		return ErrFrozen
	}
	if _, ok := http.ParseMethod(string(method)); !ok {
		return fmt.Errorf("router: unknown method %q", method)
	}
	if h == nil {
		return fmt.Errorf("router: nil handler for %s %s", method, pattern)
	}
	p, err := compilePattern(pattern)
	if err != nil {
		return err
	}

	for _, rt := range r.routes {
		if rt.method == method && rt.pattern.shape == p.shape {
			r.log.Debug().
				Str("method", string(method)).
				Str("pattern", pattern).
				Str("replaces", rt.pattern.raw).
				Msg("route replaced")
			rt.pattern = p
			rt.handler = h
			return nil
		}
	}
	r.routes = append(r.routes, &route{method: method, pattern: p, handler: h})
	return nil
}

// Handle registers h and panics if the pattern is invalid.
func (r *Router) Handle(method http.Method, pattern string, h Handler) {
	if err := r.Register(method, pattern, h); err != nil {
		panic(err)
	}
}

// HandleFunc registers f and panics if the pattern is invalid.
func (r *Router) HandleFunc(method http.Method, pattern string, f func(ctx context.Context, req *http.Request) (*http.Response, error)) {
	r.Handle(method, pattern, HandlerFunc(f))
}

// Routes returns the registered routes in match order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	for i, rt := range r.routes {
		out[i] = Route{Method: rt.method, Pattern: rt.pattern.raw, Params: rt.pattern.paramNames()}
	}
	return out
}

// Freeze stops further registration. It is safe to call more than once.
func (r *Router) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

// Match returns the handler and parameters of the first route matching
// method and path.
func (r *Router) Match(method http.Method, path string) (Handler, Params, bool) {
	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}
		if params, ok := rt.pattern.match(path); ok {
			return rt.handler, params, true
		}
	}
	return nil, nil, false
}

// Dispatch routes req and always returns a response:
//
//   - match: the handler's response (204 No Content if it returned nil)
//   - handler error or panic: 500 with the error text as a text/plain body
//   - no match: 404 "Not Found"
//   - ctx done before the handler returns: 503
//
// Path parameters are attached to req before the handler runs.
func (r *Router) Dispatch(ctx context.Context, req *http.Request) *http.Response {
	log := r.logger(ctx).With().
		Str("method", string(req.Method)).
		Str("path", req.Path).
		Logger()
	start := time.Now()

	h, params, ok := r.Match(req.Method, req.Path)
	if !ok {
		if r.notFound != nil {
			resp, err := r.invoke(ctx, r.notFound, req)
			if err == nil && resp != nil {
				log.Info().Int("status", resp.StatusCode).Msg("route not found")
				return resp
			}
			log.Error().Err(err).Msg("not-found handler failed")
		}
		log.Info().Int("status", http.StatusNotFound).Msg("route not found")
		return http.Text(http.StatusNotFound, "Not Found")
	}
	if len(params) > 0 {
		req.Attach(paramsKey{}, params)
	}

	resp, err := r.invoke(ctx, h, req)
	switch {
	case err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()):
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("handler timed out")
		return http.Text(http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
	case err != nil:
		ev := log.Error().Err(err).Dur("elapsed", time.Since(start))
		var pe *PanicError
		if errors.As(err, &pe) {
			ev = ev.Str("stack", pe.stack)
		}
		ev.Msg("handler failed")
		return http.Text(http.StatusInternalServerError, err.Error())
	case resp == nil:
		resp = http.NewResponse(http.StatusNoContent, nil)
	}

	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("handled")
	return resp
}

// invoke runs h, converting a panic into a *PanicError. When ctx can be
// cancelled the handler runs in its own goroutine so Dispatch can return
// as soon as ctx is done; the handler is expected to observe ctx as well.
func (r *Router) invoke(ctx context.Context, h Handler, req *http.Request) (*http.Response, error) {
	if ctx.Done() == nil {
		return call(ctx, h, req)
	}

	type result struct {
		resp *http.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := call(ctx, h, req)
		done <- result{resp, err}
	}()

	select {
	case res := <-done:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func call(ctx context.Context, h Handler, req *http.Request) (resp *http.Response, err error) {
	defer func() {
		if v := recover(); v != nil {
			resp, err = nil, &PanicError{Value: v, stack: string(debug.Stack())}
		}
	}()
	return h.ServeHTTP(ctx, req)
}

func (r *Router) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &r.log
}
