// Copyright 2026 The Strada Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package strada

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServeHTTP implements http.Handler. The first request freezes the
// router (see Warmup), making configuration and serving mutually
// exclusive phases.
//
// Per request: BeforeRouting fires, the matcher resolves the path
// (exact match, then trailing-slash redirect, then 405, then group
// fallback), the composed chain runs inside a recovery boundary, and
// AfterRouting fires regardless of the outcome.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Warmup()

	start := time.Now()
	ctx := req.Context()

	var obsState any
	if r.observability != nil {
		enriched, state := r.observability.OnRequestStart(ctx, req)
		if enriched != ctx {
			ctx = enriched
			req = req.WithContext(ctx)
		}
		obsState = state
		if obsState != nil {
			w = r.observability.WrapResponseWriter(w, obsState)
		}
	}
	rw := wrapResponseWriter(w)

	r.emitBeforeRouting(BeforeRoutingEvent{Request: req})

	c := acquireContext()
	defer releaseContext(c)
	c.initForRequest(rw, req, r)

	res := r.resolve(req.Method, req.URL.Path, req.Host, c.scratch)

	var route *Route
	switch res.Kind {
	case MatchFound:
		route = res.Route
		for i := range res.Params {
			c.setParam(res.Params[i].Name, res.Params[i].Value)
		}
		c.scratch = res.Params[:0]
		c.route = route
		c.routePattern = route.pattern.Raw()
		c.handlers = route.chain
		if r.observability != nil {
			c.logger = r.observability.BuildRequestLogger(ctx, req, c.routePattern)
		}

		r.emitRouteMatched(RouteMatchedEvent{Request: req, Route: route})
		r.runChain(c, rw, req, route)

	case MatchRedirect:
		target := res.RedirectPath
		if q := req.URL.RawQuery; q != "" {
			target += "?" + q
		}
		code := http.StatusMovedPermanently
		if req.Method != http.MethodGet {
			// Preserve method and body across the redirect.
			code = http.StatusPermanentRedirect
		}
		http.Redirect(rw, req, target, code)

	case MatchMethodNotAllowed:
		rw.Header().Set("Allow", strings.Join(res.Allowed, ", "))
		http.Error(rw, "405 method not allowed", http.StatusMethodNotAllowed)

	case MatchNotFound:
		r.emitRouteNotFound(RouteNotFoundEvent{Request: req})
		if res.Fallback != nil {
			c.handlers = res.Fallback.fallbackChain
			r.runChain(c, rw, req, nil)
		} else {
			http.NotFound(rw, req)
		}
	}

	r.emitAfterRouting(AfterRoutingEvent{Request: req, Route: route, Duration: time.Since(start)})

	if r.observability != nil && obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, rw, c.routePattern)
	}
}

// runChain executes the handler chain behind the router's recovery
// boundary. A panic that no middleware caught becomes a 500, a
// RoutingError event, and a log line; details reach the body only in
// debug mode.
func (r *Router) runChain(c *Context, rw *responseWriter, req *http.Request, route *Route) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		r.emitRoutingError(RoutingErrorEvent{Request: req, Route: route, Recovered: rec})
		r.logger.Error("panic in handler chain",
			"method", req.Method,
			"path", req.URL.Path,
			"panic", rec,
		)

		if rw.wroteHeader {
			return // response already started, nothing safe to write
		}
		if r.debug {
			http.Error(rw, fmt.Sprintf("500 internal server error: %v", rec), http.StatusInternalServerError)
		} else {
			http.Error(rw, "500 internal server error", http.StatusInternalServerError)
		}
	}()

	c.Next()
}

// Serve starts an HTTP server on addr and blocks until it exits. The
// server carries production-safe timeouts (see WithServerTimeouts)
// and, when WithH2C is set, an HTTP/2 cleartext upgrade handler. Use
// Shutdown from another goroutine for graceful termination.
func (r *Router) Serve(addr string) error {
	h := http.Handler(r)
	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
		r.logger.Warn("h2c enabled; use only in development or behind a trusted load balancer")
	}

	srv := r.newServer(addr, h)

	return srv.ListenAndServe()
}

// ServeTLS starts an HTTPS server on addr and blocks until it exits.
// HTTP/2 is negotiated via ALPN.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	srv := r.newServer(addr, r)

	return srv.ListenAndServeTLS(certFile, keyFile)
}

func (r *Router) newServer(addr string, h http.Handler) *http.Server {
	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	r.serverMu.Lock()
	r.server = srv
	r.serverMu.Unlock()

	return srv
}

// Shutdown gracefully stops a server started by Serve or ServeTLS,
// following the http.Server.Shutdown contract. Returns nil when no
// server is running.
func (r *Router) Shutdown(ctx context.Context) error {
	r.serverMu.Lock()
	srv := r.server
	r.server = nil
	r.serverMu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
