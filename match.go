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
	"github.com/strada-dev/strada/pattern"
)

// MatchKind discriminates the outcome of a match.
type MatchKind uint8

const (
	// MatchNotFound means no route matched; Fallback carries the
	// resolved group fallback chain when one covers the path.
	MatchNotFound MatchKind = iota

	// MatchFound means a route matched; Route and Params are set.
	MatchFound

	// MatchMethodNotAllowed means the path exists under other methods;
	// Allowed carries the sorted method set for the Allow header.
	MatchMethodNotAllowed

	// MatchRedirect means the trailing-slash-toggled path matches;
	// RedirectPath carries the target.
	MatchRedirect
)

// MatchResult is the outcome of routing one request. Callers branch on
// Kind; the other fields are populated per kind as documented on the
// constants.
type MatchResult struct {
	Kind         MatchKind
	Route        *Route
	Params       []pattern.Binding
	Allowed      []string
	RedirectPath string
	Fallback     *Group
}

// Match routes a method/path/host triple without dispatching it.
// Freezes the router on first use, like ServeHTTP.
func (r *Router) Match(method, path, host string) MatchResult {
	r.Warmup()

	return r.resolve(method, path, host, nil)
}

// resolve runs the full decision ladder. Trailing-slash resolution
// comes before method matching: an exact match wins, then a redirect
// for the toggled path, then 405, then fallback. scratch, when non-nil,
// is reused for parameter bindings to keep the hot path allocation
// free.
func (r *Router) resolve(method, path, host string, scratch []pattern.Binding) MatchResult {
	if rt, bindings, ok := r.matchRoute(method, path, host, scratch); ok {
		return MatchResult{Kind: MatchFound, Route: rt, Params: bindings}
	}

	if r.redirectTrailingSlash && path != "/" {
		toggled := toggleTrailingSlash(path)
		if _, _, ok := r.matchRoute(method, toggled, host, scratch); ok {
			return MatchResult{Kind: MatchRedirect, RedirectPath: toggled}
		}
	}

	if r.handleMethodNotAllowed {
		if allowed := r.allowedMethods(method, path, host, scratch); len(allowed) > 0 {
			return MatchResult{Kind: MatchMethodNotAllowed, Allowed: allowed}
		}
	}

	return MatchResult{Kind: MatchNotFound, Fallback: r.resolveFallback(path)}
}

// matchRoute probes the static table, then the dynamic candidates in
// specificity order. A candidate whose structure fits but whose type,
// Where constraint, or host constraint rejects the request does not
// stop the search.
func (r *Router) matchRoute(method, path, host string, scratch []pattern.Binding) (*Route, []pattern.Binding, bool) {
	key := method + " " + path
	if r.staticBloom.Test(key) {
		if rt, ok := r.static[key]; ok {
			return rt, scratch[:0], true
		}
	}

	for _, rt := range r.dynamic {
		if rt.method != method {
			continue
		}
		bindings, ok := rt.pattern.Match(path, scratch[:0])
		if !ok {
			continue
		}
		if !rt.checkConstraints(bindings) || !rt.matchesHost(host) {
			continue
		}

		return rt, bindings, true
	}

	return nil, nil, false
}

// allowedMethods collects methods other than the requested one that
// can serve the exact path, sorted for the Allow header. The probe set
// is every method the router has a route for, collected at freeze, so
// routes registered via Handle with a non-standard method appear too.
func (r *Router) allowedMethods(method, path, host string, scratch []pattern.Binding) []string {
	var allowed []string
	for _, probe := range r.allowMethods {
		if probe == method {
			continue
		}
		if _, _, ok := r.matchRoute(probe, path, host, scratch); ok {
			allowed = append(allowed, probe)
		}
	}

	return allowed
}

// resolveFallback returns the deepest group with a fallback whose
// prefix covers path. fallbackGroups is sorted deepest first at
// freeze.
func (r *Router) resolveFallback(path string) *Group {
	for _, g := range r.fallbackGroups {
		if g.covers(path) {
			return g
		}
	}

	return nil
}

func toggleTrailingSlash(path string) string {
	if len(path) > 1 && path[len(path)-1] == '/' {
		return path[:len(path)-1]
	}

	return path + "/"
}
