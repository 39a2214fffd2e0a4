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

package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// requestState is the opaque per-request state handed back through the
// recorder hooks.
type requestState struct {
	start  time.Time
	method string
	writer *sizeWriter
}

// OnRequestStart begins timing and bumps the in-flight gauge.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	r.activeRequests.Add(ctx, 1, metric.WithAttributes(r.serviceAttrs...))

	return ctx, &requestState{start: time.Now(), method: req.Method}
}

// WrapResponseWriter captures status and size for OnRequestEnd.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	st, ok := state.(*requestState)
	if !ok {
		return w
	}
	st.writer = &sizeWriter{ResponseWriter: w, status: http.StatusOK}

	return st.writer
}

// OnRequestEnd records duration, count, and response size. Metrics are
// labeled with the route template, never the raw path, so route
// parameters cannot explode label cardinality.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routeTemplate string) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}
	if routeTemplate == "" {
		routeTemplate = "_unmatched"
	}

	status := http.StatusOK
	size := 0
	if st.writer != nil {
		status = st.writer.status
		size = st.writer.size
	} else if info, ok := w.(interface{ StatusCode() int }); ok {
		status = info.StatusCode()
	}

	attrs := make([]attribute.KeyValue, 0, len(r.serviceAttrs)+3)
	attrs = append(attrs, r.serviceAttrs...)
	attrs = append(attrs,
		attribute.String("http.request.method", st.method),
		attribute.String("http.route", routeTemplate),
		attribute.Int("http.response.status_code", status),
	)
	set := metric.WithAttributes(attrs...)

	r.requestDuration.Record(ctx, time.Since(st.start).Seconds(), set)
	r.requestCount.Add(ctx, 1, set)
	if size > 0 {
		r.responseSize.Record(ctx, int64(size), set)
	}
	r.activeRequests.Add(ctx, -1, metric.WithAttributes(r.serviceAttrs...))
}

// BuildRequestLogger enriches the logger with the route template.
func (r *Recorder) BuildRequestLogger(ctx context.Context, req *http.Request, routeTemplate string) *slog.Logger {
	return r.logger.With(
		"http.request.method", req.Method,
		"http.route", routeTemplate,
	)
}

// sizeWriter captures status and written byte count.
type sizeWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *sizeWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *sizeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n

	return n, err
}

// StatusCode implements strada.ResponseInfo.
func (w *sizeWriter) StatusCode() int { return w.status }

// Size implements strada.ResponseInfo.
func (w *sizeWriter) Size() int { return w.size }

// Unwrap supports http.ResponseController.
func (w *sizeWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
