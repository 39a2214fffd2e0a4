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
	"log/slog"
	"net/http"
)

// ObservabilityRecorder hooks a telemetry implementation into the
// request lifecycle. The router calls the trio once per request:
// OnRequestStart before routing, WrapResponseWriter so the recorder
// can capture status and size, and OnRequestEnd after the response.
//
// routeTemplate is the matched route's template ("/users/{id:int}"),
// or "" when nothing matched. Label metrics with it, never with the
// raw path, or cardinality grows with traffic.
//
// The metrics subpackage provides an OpenTelemetry implementation.
type ObservabilityRecorder interface {
	// OnRequestStart may enrich the request context (spans, baggage)
	// and returns opaque per-request state handed back to the other
	// hooks. Returning nil state skips WrapResponseWriter.
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)

	// WrapResponseWriter may replace the writer, typically to capture
	// status and size. The returned writer should expose them via
	// ResponseInfo.
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter

	// OnRequestEnd closes out the request. w is the possibly wrapped
	// writer from WrapResponseWriter.
	OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routeTemplate string)

	// BuildRequestLogger returns the logger handed to handlers via
	// Context.Logger, usually enriched with trace correlation fields.
	BuildRequestLogger(ctx context.Context, req *http.Request, routeTemplate string) *slog.Logger
}

// ResponseInfo exposes the written status and body size of a wrapped
// response writer. The router's own writer implements it; recorder
// wrappers should too.
type ResponseInfo interface {
	StatusCode() int
	Size() int
}
