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

// Package metrics records router request telemetry with OpenTelemetry.
//
// Recorder plugs into a router via strada.WithObservability and
// records request count, duration, response size, and in-flight
// requests, labeled by method, route template, and status code:
//
//	rec := metrics.MustNew(metrics.WithServiceName("orders"))
//	r := strada.MustNew(strada.WithObservability(rec))
//	r.GET("/metrics", func(c *strada.Context) {
//	    rec.Handler().ServeHTTP(c.Response, c.Request)
//	})
//
// The default provider exposes a private Prometheus registry through
// Handler. WithStdout prints metrics periodically for development, and
// WithMeterProvider hands instrument creation to an existing
// OpenTelemetry setup.
package metrics
