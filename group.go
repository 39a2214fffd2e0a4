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
	"net/http"
	"strings"
)

// Group organizes routes under a shared path prefix with shared
// middleware. Groups nest: a child's effective prefix is the
// concatenation of its ancestors' prefixes plus its own, and its
// routes inherit middleware parent-first, global middleware included.
//
//	api := r.Group("/api", rateLimit)
//	v1 := api.Group("/v1")
//	v1.GET("/users/{id:int}", showUser) // GET /api/v1/users/{id:int}
//
// A group may carry a fallback handler for requests under its prefix
// that match no route; the deepest matching group's fallback wins.
type Group struct {
	router *Router
	parent *Group

	prefix     string // full prefix from the root
	middleware []HandlerFunc
	namePrefix string
	fallback   HandlerFunc

	// fallbackChain is composed at freeze: global middleware, this
	// group's inherited middleware, then the fallback handler.
	fallbackChain []HandlerFunc
}

// Group creates a nested group under this one.
func (g *Group) Group(prefix string, middleware ...HandlerFunc) *Group {
	g.router.checkMutable("create group")

	child := &Group{
		router:     g.router,
		parent:     g,
		prefix:     joinPaths(g.prefix, prefix),
		middleware: middleware,
		namePrefix: g.namePrefix,
	}
	g.router.groups = append(g.router.groups, child)

	return child
}

// Use appends middleware to this group. It applies to routes
// registered afterwards as well as before; chains are composed when
// the router freezes, not at registration.
func (g *Group) Use(middleware ...HandlerFunc) *Group {
	g.router.checkMutable("add group middleware")
	g.middleware = append(g.middleware, middleware...)

	return g
}

// SetNamePrefix sets the prefix prepended to names of routes
// registered through this group and its descendants created after the
// call.
//
//	api := r.Group("/api").SetNamePrefix("api.")
//	api.GET("/users", listUsers).Name("users") // named "api.users"
func (g *Group) SetNamePrefix(prefix string) *Group {
	g.router.checkMutable("set group name prefix")
	g.namePrefix = prefix

	return g
}

// Fallback registers the handler run for requests under this group's
// prefix that match no route. Resolution picks the deepest group with
// a fallback whose prefix covers the request path.
func (g *Group) Fallback(handler HandlerFunc) *Group {
	g.router.checkMutable("set group fallback")
	if handler == nil {
		panic("strada: Fallback called with nil handler")
	}
	g.fallback = handler

	return g
}

// Prefix returns the group's full path prefix.
func (g *Group) Prefix() string { return g.prefix }

// Handle registers a route for an arbitrary HTTP method.
func (g *Group) Handle(method, path string, handler HandlerFunc) *Route {
	return g.router.addRoute(g, method, path, handler)
}

// GET registers a route for GET requests.
func (g *Group) GET(path string, handler HandlerFunc) *Route {
	return g.Handle(http.MethodGet, path, handler)
}

// POST registers a route for POST requests.
func (g *Group) POST(path string, handler HandlerFunc) *Route {
	return g.Handle(http.MethodPost, path, handler)
}

// PUT registers a route for PUT requests.
func (g *Group) PUT(path string, handler HandlerFunc) *Route {
	return g.Handle(http.MethodPut, path, handler)
}

// DELETE registers a route for DELETE requests.
func (g *Group) DELETE(path string, handler HandlerFunc) *Route {
	return g.Handle(http.MethodDelete, path, handler)
}

// PATCH registers a route for PATCH requests.
func (g *Group) PATCH(path string, handler HandlerFunc) *Route {
	return g.Handle(http.MethodPatch, path, handler)
}

// OPTIONS registers a route for OPTIONS requests.
func (g *Group) OPTIONS(path string, handler HandlerFunc) *Route {
	return g.Handle(http.MethodOptions, path, handler)
}

// HEAD registers a route for HEAD requests.
func (g *Group) HEAD(path string, handler HandlerFunc) *Route {
	return g.Handle(http.MethodHead, path, handler)
}

// chain returns the group's inherited middleware, ancestors first.
// The root group's own middleware is the router's global middleware
// and is handled separately, so it is skipped here.
func (g *Group) chain() []HandlerFunc {
	if g.parent == nil {
		return nil
	}
	parent := g.parent.chain()
	if len(g.middleware) == 0 {
		return parent
	}
	chain := make([]HandlerFunc, 0, len(parent)+len(g.middleware))
	chain = append(chain, parent...)
	chain = append(chain, g.middleware...)

	return chain
}

// covers reports whether path falls under the group's prefix on a
// segment boundary.
func (g *Group) covers(path string) bool {
	if g.prefix == "" || g.prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, g.prefix) {
		return false
	}

	return len(path) == len(g.prefix) || path[len(g.prefix)] == '/'
}

// composeFallback builds the fallback chain at freeze time.
func (g *Group) composeFallback(global []HandlerFunc) {
	if g.fallback == nil {
		return
	}
	inherited := g.chain()
	chain := make([]HandlerFunc, 0, len(global)+len(inherited)+1)
	chain = append(chain, global...)
	chain = append(chain, inherited...)
	g.fallbackChain = append(chain, g.fallback)
}

// joinPaths concatenates two path fragments, normalizing slashes. The
// result never ends in a slash unless it is the bare root.
func joinPaths(base, add string) string {
	if add == "" {
		return base
	}
	if !strings.HasPrefix(add, "/") {
		add = "/" + add
	}

	var b strings.Builder
	b.Grow(len(base) + len(add))
	prevSlash := false
	for _, s := range []string{base, add} {
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c == '/' {
				if prevSlash {
					continue
				}
				prevSlash = true
			} else {
				prevSlash = false
			}
			b.WriteByte(c)
		}
	}

	joined := b.String()
	if len(joined) > 1 && joined[len(joined)-1] == '/' {
		joined = joined[:len(joined)-1]
	}

	return joined
}
