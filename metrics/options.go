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
	"log/slog"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
)

// Option configures a Recorder during New.
type Option func(*Recorder)

// WithServiceName sets the service.name attribute on every metric.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version attribute on every
// metric.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithPrometheus selects the Prometheus pull provider, the default.
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithPrometheusRegistry uses a caller-owned registry instead of a
// private one, for binaries that already expose Prometheus metrics.
func WithPrometheusRegistry(registry *promclient.Registry) Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.prometheusRegistry = registry
	}
}

// WithStdout selects the stdout provider, printing metrics every
// export interval. Development only.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithExportInterval sets the push interval for periodic providers.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithMeterProvider plugs in an existing meter provider. The recorder
// then builds no exporter of its own and Shutdown is a no-op.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = mp
	}
}

// WithDurationBuckets overrides the request duration histogram
// boundaries, in seconds.
func WithDurationBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithLogger sets the base logger returned by BuildRequestLogger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}
