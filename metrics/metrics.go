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
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Provider selects how recorded metrics leave the process.
type Provider string

const (
	// PrometheusProvider exposes a pull endpoint via Handler (default).
	PrometheusProvider Provider = "prometheus"

	// StdoutProvider prints metrics periodically, for development.
	StdoutProvider Provider = "stdout"
)

// DefaultDurationBuckets are histogram boundaries for request duration
// in seconds, sub-millisecond through 10s.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// DefaultSizeBuckets are histogram boundaries for response size in
// bytes, 100B through 10MB.
var DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}

// Recorder implements strada.ObservabilityRecorder on OpenTelemetry.
// It records request count, duration, response size, and in-flight
// requests, labeled by method, route template, and status class. All
// methods are safe for concurrent use.
//
// The recorder does not touch the global OpenTelemetry meter provider,
// so several instances can coexist in one process.
type Recorder struct {
	provider           Provider
	meterProvider      metric.MeterProvider
	ownedProvider      *sdkmetric.MeterProvider // shutdown target when we built it
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	responseSize    metric.Int64Histogram
	activeRequests  metric.Int64UpDownCounter

	serviceAttrs []attribute.KeyValue

	serviceName     string
	serviceVersion  string
	exportInterval  time.Duration
	durationBuckets []float64
	sizeBuckets     []float64
	logger          *slog.Logger
}

// New creates a Recorder. The default configuration uses a private
// Prometheus registry; serve Handler() to expose it.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:        PrometheusProvider,
		serviceName:     "strada-service",
		serviceVersion:  "0.0.0",
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.serviceName == "" {
		return nil, fmt.Errorf("metrics: service name cannot be empty")
	}
	r.serviceAttrs = []attribute.KeyValue{
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	}

	if err := r.initProvider(); err != nil {
		return nil, fmt.Errorf("metrics: initializing provider: %w", err)
	}
	if err := r.initInstruments(); err != nil {
		return nil, fmt.Errorf("metrics: creating instruments: %w", err)
	}

	return r, nil
}

// MustNew is New that panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return r
}

func (r *Recorder) initProvider() error {
	if r.meterProvider != nil {
		return nil // user supplied, nothing to build
	}

	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(r.serviceName),
		semconv.ServiceVersion(r.serviceVersion),
	)

	switch r.provider {
	case PrometheusProvider:
		if r.prometheusRegistry == nil {
			r.prometheusRegistry = promclient.NewRegistry()
		}
		exporter, err := otelprom.New(otelprom.WithRegisterer(r.prometheusRegistry))
		if err != nil {
			return err
		}
		r.ownedProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exporter),
			sdkmetric.WithResource(res),
		)
		r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})

	case StdoutProvider:
		exporter, err := stdoutmetric.New()
		if err != nil {
			return err
		}
		reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
		r.ownedProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(reader),
			sdkmetric.WithResource(res),
		)

	default:
		return fmt.Errorf("unsupported provider %q", r.provider)
	}

	r.meterProvider = r.ownedProvider

	return nil
}

func (r *Recorder) initInstruments() error {
	meter := r.meterProvider.Meter("github.com/strada-dev/strada/metrics")

	var err error
	if r.requestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	); err != nil {
		return err
	}
	if r.requestCount, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("HTTP requests served"),
	); err != nil {
		return err
	}
	if r.responseSize, err = meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("HTTP response body size"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	); err != nil {
		return err
	}
	if r.activeRequests, err = meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("In-flight HTTP requests"),
	); err != nil {
		return err
	}

	return nil
}

// Handler returns the Prometheus scrape handler, or nil for other
// providers.
func (r *Recorder) Handler() http.Handler {
	return r.prometheusHandler
}

// Shutdown flushes and stops a recorder-owned meter provider. A
// user-supplied provider is left alone.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.ownedProvider == nil {
		return nil
	}

	return r.ownedProvider.Shutdown(ctx)
}
