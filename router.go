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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/strada-dev/strada/pattern"
)

// Router matches HTTP requests against registered routes and runs
// their middleware chains. Create one with New or MustNew, register
// routes and groups, then serve. The first request (or an explicit
// Warmup call) freezes the router: chains are composed, lookup
// structures are built, and further registration panics. Configuration
// and serving are mutually exclusive phases, so matching never takes a
// lock.
type Router struct {
	root   *Group
	groups []*Group
	routes []*Route

	middleware  []HandlerFunc
	namedRoutes map[string]*Route
	types       *pattern.TypeRegistry
	logger      *slog.Logger
	events      eventBus

	// lookup structures, built at freeze
	static         map[string]*Route
	staticBloom    *pattern.BloomFilter
	dynamic        []*Route
	fallbackGroups []*Group
	allowMethods   []string

	redirectTrailingSlash  bool
	handleMethodNotAllowed bool
	debug                  bool
	enableH2C              bool
	serverTimeouts         *serverTimeouts
	bloomFilterSize        uint64
	bloomHashFunctions     int
	observability          ObservabilityRecorder

	frozen     atomic.Bool
	warmupOnce sync.Once

	server   *http.Server
	serverMu sync.Mutex
}

// Option configures a Router during New.
type Option func(*Router)

// New creates a router with the given options and validates the
// resulting configuration.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		namedRoutes:            make(map[string]*Route),
		types:                  pattern.Default,
		logger:                 noopLogger,
		redirectTrailingSlash:  true,
		handleMethodNotAllowed: true,
		bloomFilterSize:        1000,
		bloomHashFunctions:     3,
	}
	r.root = &Group{router: r}
	r.groups = []*Group{r.root}

	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// MustNew is New that panics on error.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return r
}

func (r *Router) validate() error {
	if r.bloomFilterSize == 0 {
		return ErrBloomFilterSizeZero
	}
	if r.bloomHashFunctions <= 0 {
		return ErrBloomHashFunctionsInvalid
	}
	if r.logger == nil {
		return fmt.Errorf("%w: logger", ErrNilHandler)
	}

	return nil
}

// checkMutable panics when configuration is attempted after freeze.
func (r *Router) checkMutable(action string) {
	if r.frozen.Load() {
		panic(fmt.Sprintf("strada: %v: cannot %s while serving", ErrRouterFrozen, action))
	}
}

// Use appends global middleware, run first for every route.
func (r *Router) Use(middleware ...HandlerFunc) *Router {
	r.checkMutable("add global middleware")
	r.middleware = append(r.middleware, middleware...)

	return r
}

// Group creates a route group under the given prefix.
func (r *Router) Group(prefix string, middleware ...HandlerFunc) *Group {
	return r.root.Group(prefix, middleware...)
}

// Handle registers a route for an arbitrary HTTP method.
func (r *Router) Handle(method, path string, handler HandlerFunc) *Route {
	return r.addRoute(r.root, method, path, handler)
}

// GET registers a route for GET requests.
func (r *Router) GET(path string, handler HandlerFunc) *Route {
	return r.Handle(http.MethodGet, path, handler)
}

// POST registers a route for POST requests.
func (r *Router) POST(path string, handler HandlerFunc) *Route {
	return r.Handle(http.MethodPost, path, handler)
}

// PUT registers a route for PUT requests.
func (r *Router) PUT(path string, handler HandlerFunc) *Route {
	return r.Handle(http.MethodPut, path, handler)
}

// DELETE registers a route for DELETE requests.
func (r *Router) DELETE(path string, handler HandlerFunc) *Route {
	return r.Handle(http.MethodDelete, path, handler)
}

// PATCH registers a route for PATCH requests.
func (r *Router) PATCH(path string, handler HandlerFunc) *Route {
	return r.Handle(http.MethodPatch, path, handler)
}

// OPTIONS registers a route for OPTIONS requests.
func (r *Router) OPTIONS(path string, handler HandlerFunc) *Route {
	return r.Handle(http.MethodOptions, path, handler)
}

// HEAD registers a route for HEAD requests.
func (r *Router) HEAD(path string, handler HandlerFunc) *Route {
	return r.Handle(http.MethodHead, path, handler)
}

// NoRoute sets the router-wide fallback handler, equivalent to a
// fallback on the root group.
func (r *Router) NoRoute(handler HandlerFunc) *Router {
	r.root.Fallback(handler)

	return r
}

// addRoute compiles the template and records the route. Template
// mistakes are configuration bugs, so they panic here rather than
// surfacing per request.
func (r *Router) addRoute(g *Group, method, path string, handler HandlerFunc) *Route {
	r.checkMutable("register route")
	if handler == nil {
		panic(fmt.Sprintf("strada: %v: %s %s", ErrNilHandler, method, path))
	}

	full := joinPaths(g.prefix, path)
	if full == "" {
		full = "/"
	}
	p, err := pattern.Compile(full, r.types)
	if err != nil {
		panic(fmt.Sprintf("strada: %s %s: %v", method, path, err))
	}

	rt := &Route{
		router:  r,
		group:   g,
		method:  method,
		pattern: p,
		handler: handler,
		index:   len(r.routes),
	}
	r.routes = append(r.routes, rt)

	return rt
}

// Warmup freezes the router and builds its lookup structures: the
// static table with its bloom filter, the specificity-sorted dynamic
// list, composed middleware chains, and group fallback chains. Safe to
// call concurrently; work happens once. ServeHTTP calls it on the
// first request when it was not called explicitly.
func (r *Router) Warmup() {
	r.warmupOnce.Do(r.doWarmup)
}

func (r *Router) doWarmup() {
	r.frozen.Store(true)
	r.types.Freeze()

	r.static = make(map[string]*Route)
	r.staticBloom = pattern.NewBloomFilter(r.bloomFilterSize, r.bloomHashFunctions)

	// Literal paths that also carry a host-constrained sibling must stay
	// dynamic, otherwise the static table would answer before the
	// sibling gets its registration-order turn.
	hostShadowed := make(map[string]bool)
	seenMethods := make(map[string]bool)
	for _, rt := range r.routes {
		if rt.host != nil && rt.pattern.IsStatic() {
			hostShadowed[rt.method+" "+rt.pattern.Raw()] = true
		}
		if !seenMethods[rt.method] {
			seenMethods[rt.method] = true
			r.allowMethods = append(r.allowMethods, rt.method)
		}
	}
	// Sorted once here so Allow sets come out sorted for free.
	sort.Strings(r.allowMethods)

	for _, rt := range r.routes {
		if err := rt.pattern.Resolve(); err != nil {
			panic(fmt.Sprintf("strada: %s %s: %v", rt.method, rt.pattern.Raw(), err))
		}
		rt.compose(r.middleware)

		if key := rt.staticKey(); key != "" && !hostShadowed[key] {
			// First registration wins, matching dynamic tie-breaking.
			if _, dup := r.static[key]; !dup {
				r.static[key] = rt
				r.staticBloom.Add(key)
			}

			continue
		}
		r.dynamic = append(r.dynamic, rt)
	}

	// Specificity order, registration order on ties. The slice is in
	// registration order already, so a stable sort preserves ties.
	sort.SliceStable(r.dynamic, func(i, j int) bool {
		return pattern.Compare(r.dynamic[i].pattern, r.dynamic[j].pattern) < 0
	})

	for _, g := range r.groups {
		g.composeFallback(r.middleware)
		if g.fallback != nil {
			r.fallbackGroups = append(r.fallbackGroups, g)
		}
	}
	// Deepest prefix first so fallback resolution is a scan.
	sort.SliceStable(r.fallbackGroups, func(i, j int) bool {
		return len(r.fallbackGroups[i].prefix) > len(r.fallbackGroups[j].prefix)
	})
}

// Frozen reports whether the router has started serving.
func (r *Router) Frozen() bool { return r.frozen.Load() }

// URL builds a concrete path for a named route. Parameter values are
// percent-encoded and validated against the route's declared types and
// Where constraints; missing required parameters are an error.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	rt, ok := r.namedRoutes[name]
	if !ok {
		return "", fmt.Errorf("%w: no route named %q", ErrRouteNotFound, name)
	}

	for i := range rt.constraints {
		con := &rt.constraints[i]
		if value, ok := params[con.name]; ok && !con.re.MatchString(value) {
			return "", fmt.Errorf("%w: %q=%q rejected by route constraint", pattern.ErrParameterValue, con.name, value)
		}
	}

	path, err := rt.pattern.Build(params)
	if err != nil {
		if errors.Is(err, pattern.ErrMissingParameter) {
			err = fmt.Errorf("%w: %v", ErrMissingRouteParameter, err)
		}

		return "", fmt.Errorf("route %q: %w", name, err)
	}

	return path, nil
}

// Lookup returns the named route, if registered.
func (r *Router) Lookup(name string) (*Route, bool) {
	rt, ok := r.namedRoutes[name]

	return rt, ok
}

// RouteInfo describes a registered route for introspection.
type RouteInfo struct {
	Method  string
	Pattern string
	Name    string
}

// Routes lists all registered routes in registration order.
func (r *Router) Routes() []RouteInfo {
	infos := make([]RouteInfo, 0, len(r.routes))
	for _, rt := range r.routes {
		infos = append(infos, RouteInfo{Method: rt.method, Pattern: rt.pattern.Raw(), Name: rt.name})
	}

	return infos
}

// Types returns the parameter type registry this router compiles
// against.
func (r *Router) Types() *pattern.TypeRegistry { return r.types }

// Logger returns the router's logger.
func (r *Router) Logger() *slog.Logger { return r.logger }
