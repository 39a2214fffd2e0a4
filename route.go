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
	"fmt"
	"regexp"
	"strings"

	"github.com/strada-dev/strada/pattern"
)

// Route is a registered route. The fluent methods (Name, Where,
// WhereHost, Use, WithoutMiddleware) configure it until the router
// freezes; after that the route is immutable and any further
// configuration panics.
type Route struct {
	router *Router
	group  *Group

	method  string
	pattern *pattern.Pattern
	handler HandlerFunc
	name    string
	index   int // registration order, breaks specificity ties

	middleware   []HandlerFunc
	excludeNames map[string]bool
	excludeFuncs map[uintptr]bool
	constraints  []routeConstraint
	host         *regexp.Regexp

	// chain is the composed pipeline: global middleware, group
	// middleware root to leaf, route middleware, handler. Built once
	// at freeze, minus exclusions.
	chain []HandlerFunc
}

// routeConstraint is an extra per-parameter regex from Where. It is
// checked in addition to the parameter's declared type.
type routeConstraint struct {
	name string
	re   *regexp.Regexp
}

// Method returns the route's HTTP method.
func (rt *Route) Method() string { return rt.method }

// Pattern returns the route's template text, e.g. "/users/{id:int}".
func (rt *Route) Pattern() string { return rt.pattern.Raw() }

// RouteName returns the route's name, or "" when unnamed.
func (rt *Route) RouteName() string { return rt.name }

// Name assigns a unique name to the route for reverse URL generation.
// A group name prefix, when set, is prepended. Panics on a duplicate
// name or after the router froze.
func (rt *Route) Name(name string) *Route {
	rt.router.checkMutable("name route")

	if rt.group != nil && rt.group.namePrefix != "" {
		name = rt.group.namePrefix + name
	}
	if prev, ok := rt.router.namedRoutes[name]; ok && prev != rt {
		panic(fmt.Sprintf("strada: %v: %q already names %s %s", ErrDuplicateRouteName, name, prev.method, prev.pattern.Raw()))
	}
	if rt.name != "" {
		delete(rt.router.namedRoutes, rt.name)
	}
	rt.name = name
	rt.router.namedRoutes[name] = rt

	return rt
}

// Where adds a regex constraint for a named parameter, checked on top
// of the parameter's declared type. The expression is anchored. Panics
// on an invalid expression or an unknown parameter name.
func (rt *Route) Where(param, expr string) *Route {
	rt.router.checkMutable("constrain route")

	if !rt.hasParam(param) {
		panic(fmt.Sprintf("strada: route %s %s has no parameter %q", rt.method, rt.pattern.Raw(), param))
	}
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		panic(fmt.Sprintf("strada: invalid constraint for %q on %s %s: %v", param, rt.method, rt.pattern.Raw(), err))
	}
	rt.constraints = append(rt.constraints, routeConstraint{name: param, re: re})

	return rt
}

// WhereHost restricts the route to requests whose Host header (port
// stripped) matches the anchored expression.
//
//	r.GET("/", tenantHome).WhereHost(`[a-z0-9-]+\.example\.com`)
func (rt *Route) WhereHost(expr string) *Route {
	rt.router.checkMutable("constrain route")

	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		panic(fmt.Sprintf("strada: invalid host constraint on %s %s: %v", rt.method, rt.pattern.Raw(), err))
	}
	rt.host = re

	return rt
}

// Use appends route-level middleware, run after global and group
// middleware.
func (rt *Route) Use(middleware ...HandlerFunc) *Route {
	rt.router.checkMutable("add route middleware")
	rt.middleware = append(rt.middleware, middleware...)

	return rt
}

// WithoutMiddleware removes middleware tagged with the given names
// (see Named) from this route's inherited chain. The stored chain is
// rewritten when the router freezes; there is no per-request cost.
func (rt *Route) WithoutMiddleware(names ...string) *Route {
	rt.router.checkMutable("exclude route middleware")

	if rt.excludeNames == nil {
		rt.excludeNames = make(map[string]bool, len(names))
	}
	for _, name := range names {
		rt.excludeNames[name] = true
	}

	return rt
}

// WithoutMiddlewareFunc removes the given middleware functions from
// this route's inherited chain, matched by function identity.
func (rt *Route) WithoutMiddlewareFunc(fns ...HandlerFunc) *Route {
	rt.router.checkMutable("exclude route middleware")

	if rt.excludeFuncs == nil {
		rt.excludeFuncs = make(map[uintptr]bool, len(fns))
	}
	for _, fn := range fns {
		if fn != nil {
			rt.excludeFuncs[handlerPointer(fn)] = true
		}
	}

	return rt
}

func (rt *Route) hasParam(name string) bool {
	for _, p := range rt.pattern.ParamNames() {
		if p == name {
			return true
		}
	}

	return false
}

// excluded reports whether a middleware is filtered out of this
// route's chain, by tagged name or by function identity.
func (rt *Route) excluded(fn HandlerFunc) bool {
	if len(rt.excludeNames) == 0 && len(rt.excludeFuncs) == 0 {
		return false
	}
	ptr := handlerPointer(fn)
	if rt.excludeFuncs[ptr] {
		return true
	}
	if len(rt.excludeNames) > 0 {
		if name, ok := MiddlewareName(fn); ok && rt.excludeNames[name] {
			return true
		}
	}

	return false
}

// compose builds the final handler chain. Called once at freeze.
func (rt *Route) compose(global []HandlerFunc) {
	var groupChain []HandlerFunc
	if rt.group != nil {
		groupChain = rt.group.chain()
	}

	chain := make([]HandlerFunc, 0, len(global)+len(groupChain)+len(rt.middleware)+1)
	for _, fn := range global {
		if !rt.excluded(fn) {
			chain = append(chain, fn)
		}
	}
	for _, fn := range groupChain {
		if !rt.excluded(fn) {
			chain = append(chain, fn)
		}
	}
	for _, fn := range rt.middleware {
		if !rt.excluded(fn) {
			chain = append(chain, fn)
		}
	}
	rt.chain = append(chain, rt.handler)
}

// checkConstraints validates Where constraints against bound values.
// An unbound parameter (an omitted optional) passes; a bound value
// that misses its constraint is an ordinary non-match and the
// dispatcher continues probing.
func (rt *Route) checkConstraints(bindings []pattern.Binding) bool {
	for i := range rt.constraints {
		con := &rt.constraints[i]
		for j := range bindings {
			if bindings[j].Name == con.name {
				if !con.re.MatchString(bindings[j].Value) {
					return false
				}

				break
			}
		}
	}

	return true
}

// matchesHost checks the domain constraint against a Host header,
// ignoring any port.
func (rt *Route) matchesHost(host string) bool {
	if rt.host == nil {
		return true
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}

	return rt.host.MatchString(host)
}

// staticKey returns the static-table key for fully literal routes, or
// "" when the route needs dynamic matching (parameters, host
// constraint).
func (rt *Route) staticKey() string {
	if !rt.pattern.IsStatic() || rt.host != nil {
		return ""
	}

	return rt.method + " " + rt.pattern.Raw()
}
