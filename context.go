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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strada-dev/strada/pattern"
)

// HandlerFunc handles one request. Middleware and handlers share the
// signature; middleware calls c.Next to run the rest of the chain and
// may run code after it returns, onion style.
type HandlerFunc func(*Context)

// maxParams is the fixed parameter capacity before spilling to a map.
// Sized for typical REST paths; deeper patterns still work.
const maxParams = 8

// noopLogger discards everything. Shared by all routers without a
// configured logger.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Context carries one request through the middleware chain. Contexts
// are pooled; handlers must not retain one past the request.
//
// Route parameters are bound by the matcher and read-only afterwards.
// Request-scoped state that handlers want to share goes in the
// attribute bag (Set/Get), never in the parameters.
type Context struct {
	Request  *http.Request
	Response http.ResponseWriter

	handlers []HandlerFunc
	index    int
	aborted  bool

	router       *Router
	route        *Route
	routePattern string

	// Fixed-size parameter storage with map overflow, avoiding
	// allocation for typical routes.
	paramKeys   [maxParams]string
	paramValues [maxParams]string
	paramCount  int
	paramExtra  map[string]string

	// scratch backs parameter binding during matching, reused across
	// candidates and requests.
	scratch []pattern.Binding

	keys   map[string]any
	errs   []error
	logger *slog.Logger
}

// Next runs the remaining handlers in the chain. Middleware calls it
// to hand off control; code after the call runs once the rest of the
// chain returned. Advancing stops when a handler aborts or the
// request's context is cancelled.
func (c *Context) Next() {
	c.index++
	for c.index < len(c.handlers) {
		if c.aborted {
			return
		}
		if c.Request != nil && c.Request.Context().Err() != nil {
			return
		}
		c.handlers[c.index](c)
		c.index++
	}
}

// Abort stops the chain after the current handler returns. It does not
// write a response.
func (c *Context) Abort() {
	c.aborted = true
}

// AbortWithStatus writes a status code and stops the chain.
func (c *Context) AbortWithStatus(code int) {
	c.Status(code)
	c.Abort()
}

// IsAborted reports whether the chain was aborted.
func (c *Context) IsAborted() bool {
	return c.aborted
}

// Route returns the matched route, or nil on fallback and error paths.
func (c *Context) Route() *Route { return c.route }

// RoutePattern returns the matched route's template, e.g.
// "/users/{id:int}". Empty when no route matched. Use it, not the raw
// path, as a metric label.
func (c *Context) RoutePattern() string { return c.routePattern }

// Logger returns the request logger.
func (c *Context) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}

	return noopLogger
}

// RequestContext returns the request's context.Context.
func (c *Context) RequestContext() context.Context {
	if c.Request == nil {
		return context.Background()
	}

	return c.Request.Context()
}

// Err proxies the request context's cancellation state.
func (c *Context) Err() error {
	return c.RequestContext().Err()
}

// Done proxies the request context's cancellation channel.
func (c *Context) Done() <-chan struct{} {
	return c.RequestContext().Done()
}

// Param returns the raw string value of a route parameter, or "" when
// the parameter was not bound. An omitted optional parameter is not
// bound.
func (c *Context) Param(name string) string {
	for i := 0; i < c.paramCount; i++ {
		if c.paramKeys[i] == name {
			return c.paramValues[i]
		}
	}
	if c.paramExtra != nil {
		return c.paramExtra[name]
	}

	return ""
}

// HasParam reports whether the parameter was bound by the match.
func (c *Context) HasParam(name string) bool {
	for i := 0; i < c.paramCount; i++ {
		if c.paramKeys[i] == name {
			return true
		}
	}
	if c.paramExtra != nil {
		_, ok := c.paramExtra[name]

		return ok
	}

	return false
}

// Params returns a copy of all bound parameters.
func (c *Context) Params() map[string]string {
	params := make(map[string]string, c.paramCount+len(c.paramExtra))
	for i := 0; i < c.paramCount; i++ {
		params[c.paramKeys[i]] = c.paramValues[i]
	}
	for k, v := range c.paramExtra {
		params[k] = v
	}

	return params
}

// setParam binds one parameter. Matcher use only.
func (c *Context) setParam(name, value string) {
	if c.paramCount < maxParams {
		c.paramKeys[c.paramCount] = name
		c.paramValues[c.paramCount] = value
		c.paramCount++

		return
	}
	if c.paramExtra == nil {
		c.paramExtra = make(map[string]string, 4)
	}
	c.paramExtra[name] = value
}

// Set stores a request-scoped attribute. The bag is the mutable
// counterpart to the read-only route parameters.
func (c *Context) Set(key string, value any) {
	if c.keys == nil {
		c.keys = make(map[string]any, 8)
	}
	c.keys[key] = value
}

// Get returns a request-scoped attribute.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.keys[key]

	return v, ok
}

// MustGet is Get that panics when the key is absent.
func (c *Context) MustGet(key string) any {
	if v, ok := c.keys[key]; ok {
		return v
	}
	panic(fmt.Sprintf("strada: attribute %q not set", key))
}

// GetString returns a string attribute, or "" when absent or not a
// string.
func (c *Context) GetString(key string) string {
	if v, ok := c.keys[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}

// Query returns the first query value for key.
func (c *Context) Query(key string) string {
	return c.Request.URL.Query().Get(key)
}

// QueryDefault returns the first query value for key, or def when
// absent.
func (c *Context) QueryDefault(key, def string) string {
	if values, ok := c.Request.URL.Query()[key]; ok && len(values) > 0 {
		return values[0]
	}

	return def
}

// FormValue returns the first form value for key, parsing the form on
// first use.
func (c *Context) FormValue(key string) string {
	return c.Request.FormValue(key)
}

// ClientIP returns the client address, honoring X-Forwarded-For and
// X-Real-IP set by trusted proxies, falling back to RemoteAddr.
func (c *Context) ClientIP() string {
	if fwd := c.Request.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}

		return strings.TrimSpace(fwd)
	}
	if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}

	return c.Request.RemoteAddr
}

// Status writes the response status code.
func (c *Context) Status(code int) {
	c.Response.WriteHeader(code)
}

// Header sets a response header. CR and LF are stripped from the value
// to block header injection from user-derived input.
func (c *Context) Header(key, value string) {
	if strings.ContainsAny(value, "\r\n") {
		value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	}
	c.Response.Header().Set(key, value)
}

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, obj any) {
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Response.WriteHeader(code)
	if err := json.NewEncoder(c.Response).Encode(obj); err != nil {
		c.Error(fmt.Errorf("encoding json response: %w", err))
	}
}

// IndentedJSON writes pretty-printed JSON. Prefer JSON outside of
// development; indentation costs bytes and CPU.
func (c *Context) IndentedJSON(code int, obj any) {
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Response.WriteHeader(code)
	enc := json.NewEncoder(c.Response)
	enc.SetIndent("", "    ")
	if err := enc.Encode(obj); err != nil {
		c.Error(fmt.Errorf("encoding json response: %w", err))
	}
}

// YAML writes a YAML response with the given status code.
func (c *Context) YAML(code int, obj any) {
	c.Response.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	c.Response.WriteHeader(code)
	enc := yaml.NewEncoder(c.Response)
	if err := enc.Encode(obj); err != nil {
		c.Error(fmt.Errorf("encoding yaml response: %w", err))
	}
	if err := enc.Close(); err != nil {
		c.Error(fmt.Errorf("closing yaml encoder: %w", err))
	}
}

// String writes a plain text response.
func (c *Context) String(code int, s string) {
	c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(code)
	if _, err := io.WriteString(c.Response, s); err != nil {
		c.Error(fmt.Errorf("writing string response: %w", err))
	}
}

// Stringf writes a formatted plain text response.
func (c *Context) Stringf(code int, format string, args ...any) {
	c.String(code, fmt.Sprintf(format, args...))
}

// HTML writes an HTML response.
func (c *Context) HTML(code int, html string) {
	c.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response.WriteHeader(code)
	if _, err := io.WriteString(c.Response, html); err != nil {
		c.Error(fmt.Errorf("writing html response: %w", err))
	}
}

// Data writes raw bytes with an explicit content type.
func (c *Context) Data(code int, contentType string, data []byte) {
	if contentType != "" {
		c.Response.Header().Set("Content-Type", contentType)
	}
	c.Response.WriteHeader(code)
	if _, err := c.Response.Write(data); err != nil {
		c.Error(fmt.Errorf("writing data response: %w", err))
	}
}

// Redirect writes an HTTP redirect to location.
func (c *Context) Redirect(code int, location string) {
	http.Redirect(c.Response, c.Request, location, code)
}

// SetCookie adds a Set-Cookie header.
func (c *Context) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.Response, cookie)
}

// Cookie returns the named request cookie's value.
func (c *Context) Cookie(name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", err
	}

	return cookie.Value, nil
}

// Error records a request-scoped error for middleware (an access
// logger, say) to inspect. Returns the error for one-line use:
//
//	return c.Error(err)
func (c *Context) Error(err error) error {
	if err != nil {
		c.errs = append(c.errs, err)
	}

	return err
}

// Errors returns the errors recorded on this request.
func (c *Context) Errors() []error { return c.errs }

// HasErrors reports whether any error was recorded.
func (c *Context) HasErrors() bool { return len(c.errs) > 0 }

// reset clears the context for reuse. Keeps allocated maps' backing
// storage out of the next request by dropping them.
func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.handlers = nil
	c.index = -1
	c.aborted = false
	c.router = nil
	c.route = nil
	c.routePattern = ""
	c.paramCount = 0
	c.paramExtra = nil
	c.scratch = c.scratch[:0]
	c.keys = nil
	c.errs = nil
	c.logger = nil
}

// initForRequest prepares a pooled context for dispatch.
func (c *Context) initForRequest(w http.ResponseWriter, req *http.Request, r *Router) {
	c.Request = req
	c.Response = w
	c.router = r
	c.index = -1
	c.logger = r.logger
}
