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
	"time"
)

// Routing lifecycle events. Listeners run synchronously, in
// registration order, on the request goroutine. A panicking listener
// is recovered and logged; the remaining listeners and the request
// itself proceed. Listeners must not retain the request.

// BeforeRoutingEvent fires before route resolution.
type BeforeRoutingEvent struct {
	Request *http.Request
}

// RouteMatchedEvent fires after a route matched, before its chain
// runs.
type RouteMatchedEvent struct {
	Request *http.Request
	Route   *Route
}

// RouteNotFoundEvent fires when no route matched, before the fallback
// or 404 response.
type RouteNotFoundEvent struct {
	Request *http.Request
}

// RoutingErrorEvent fires when a panic escapes the handler chain and
// reaches the router's recovery boundary. Route is nil when the panic
// happened outside a matched route's chain.
type RoutingErrorEvent struct {
	Request   *http.Request
	Route     *Route
	Recovered any
}

// AfterRoutingEvent fires after the response is written, whether the
// request matched, fell back, redirected, or panicked. Route is nil
// when nothing matched.
type AfterRoutingEvent struct {
	Request  *http.Request
	Route    *Route
	Duration time.Duration
}

// eventBus holds the per-router listener lists.
type eventBus struct {
	beforeRouting []func(BeforeRoutingEvent)
	routeMatched  []func(RouteMatchedEvent)
	routeNotFound []func(RouteNotFoundEvent)
	routingError  []func(RoutingErrorEvent)
	afterRouting  []func(AfterRoutingEvent)
}

// OnBeforeRouting registers a listener for BeforeRoutingEvent.
func (r *Router) OnBeforeRouting(fn func(BeforeRoutingEvent)) *Router {
	r.checkMutable("register event listener")
	r.events.beforeRouting = append(r.events.beforeRouting, fn)

	return r
}

// OnRouteMatched registers a listener for RouteMatchedEvent.
func (r *Router) OnRouteMatched(fn func(RouteMatchedEvent)) *Router {
	r.checkMutable("register event listener")
	r.events.routeMatched = append(r.events.routeMatched, fn)

	return r
}

// OnRouteNotFound registers a listener for RouteNotFoundEvent.
func (r *Router) OnRouteNotFound(fn func(RouteNotFoundEvent)) *Router {
	r.checkMutable("register event listener")
	r.events.routeNotFound = append(r.events.routeNotFound, fn)

	return r
}

// OnRoutingError registers a listener for RoutingErrorEvent.
func (r *Router) OnRoutingError(fn func(RoutingErrorEvent)) *Router {
	r.checkMutable("register event listener")
	r.events.routingError = append(r.events.routingError, fn)

	return r
}

// OnAfterRouting registers a listener for AfterRoutingEvent.
func (r *Router) OnAfterRouting(fn func(AfterRoutingEvent)) *Router {
	r.checkMutable("register event listener")
	r.events.afterRouting = append(r.events.afterRouting, fn)

	return r
}

// emit runs one listener with panic isolation. A broken listener must
// not take the request down with it.
func emit[E any](r *Router, event string, fn func(E), e E) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event listener panicked",
				"event", event,
				"panic", rec,
			)
		}
	}()
	fn(e)
}

func (r *Router) emitBeforeRouting(e BeforeRoutingEvent) {
	for _, fn := range r.events.beforeRouting {
		emit(r, "BeforeRouting", fn, e)
	}
}

func (r *Router) emitRouteMatched(e RouteMatchedEvent) {
	for _, fn := range r.events.routeMatched {
		emit(r, "RouteMatched", fn, e)
	}
}

func (r *Router) emitRouteNotFound(e RouteNotFoundEvent) {
	for _, fn := range r.events.routeNotFound {
		emit(r, "RouteNotFound", fn, e)
	}
}

func (r *Router) emitRoutingError(e RoutingErrorEvent) {
	for _, fn := range r.events.routingError {
		emit(r, "RoutingError", fn, e)
	}
}

func (r *Router) emitAfterRouting(e AfterRoutingEvent) {
	for _, fn := range r.events.afterRouting {
		emit(r, "AfterRouting", fn, e)
	}
}
