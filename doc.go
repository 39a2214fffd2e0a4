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

// Package strada routes HTTP requests and dispatches middleware
// chains.
//
// Routes are declared with a template mini-language over path
// segments:
//
//	r := strada.MustNew()
//	r.GET("/users/{id:int}", showUser).Name("users.show")
//	r.GET("/files/{*path}", serveFile)
//	r.GET("/archive/{year?}", archive)
//
// Parameters carry types from a process-wide registry (int, double,
// uuid, slug, and friends; see the pattern subpackage), optional
// segments form a trailing run, and a wildcard binds the rest of the
// path. Template mistakes panic at registration, never at request
// time.
//
// Groups nest under shared prefixes and middleware, inherited parent
// first. Middleware and handlers share one signature and compose onion
// style around Context.Next; the full chain per route is flattened
// once, when the router freezes on its first request.
//
//	api := r.Group("/api", strada.Named("auth", authMW))
//	api.GET("/me", me)
//	api.GET("/health", health).WithoutMiddleware("auth")
//	api.Fallback(apiNotFound)
//
// Matching prefers static routes, then dynamic candidates ordered by
// specificity: literal segments beat typed parameters beat untyped
// parameters beat wildcards, left to right, registration order on
// ties. A candidate rejected by a type, Where constraint, or host
// constraint just yields to the next. Misses resolve to a
// trailing-slash redirect, a 405 with an Allow header, or the deepest
// covering group fallback, in that order.
//
// Lifecycle events (BeforeRouting, RouteMatched, RouteNotFound,
// RoutingError, AfterRouting) run listeners synchronously with panic
// isolation. Telemetry plugs in via ObservabilityRecorder; the metrics
// subpackage ships an OpenTelemetry implementation with Prometheus
// export.
package strada
