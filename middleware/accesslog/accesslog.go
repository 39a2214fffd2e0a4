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

// Package accesslog writes one structured log line per request after
// the handler finishes, so the outcome (status, size, duration) is
// known when the sampling decision is made. Errors and slow requests
// always log; healthy traffic can be sampled down or excluded by
// path.
package accesslog

import (
	"crypto/sha256"
	"encoding/binary"
	"log/slog"
	"strings"
	"time"

	"github.com/strada-dev/strada"
	"github.com/strada-dev/strada/middleware"
)

// statusSizer is the capability the router's response writer exposes
// for status and size, kept structural to avoid import cycles.
type statusSizer interface {
	StatusCode() int
	Size() int
}

// Option configures the accesslog middleware.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	slowThreshold   time.Duration
	sampleRate      float64
	errorsOnly      bool
}

func defaultConfig() *config {
	return &config{
		excludePaths: make(map[string]bool),
		sampleRate:   1.0,
	}
}

// WithLogger sets the destination logger. Without one the middleware
// is a no-op.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithExcludePaths skips logging for exact paths, health checks and
// scrape endpoints typically.
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips logging for paths under the prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.excludePrefixes = append(cfg.excludePrefixes, prefixes...)
	}
}

// WithSlowThreshold marks requests at or over the threshold as slow,
// logging them at warn level regardless of sampling.
func WithSlowThreshold(threshold time.Duration) Option {
	return func(cfg *config) {
		cfg.slowThreshold = threshold
	}
}

// WithSampleRate samples healthy requests at the given rate in [0, 1].
// The decision hashes the request ID, so one request logs on all
// replicas or none. Errors and slow requests bypass sampling.
func WithSampleRate(rate float64) Option {
	return func(cfg *config) {
		cfg.sampleRate = rate
	}
}

// WithErrorsOnly logs only error and slow requests.
func WithErrorsOnly(enable bool) Option {
	return func(cfg *config) {
		cfg.errorsOnly = enable
	}
}

// New returns the access log middleware.
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r.Use(accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health", "/metrics"),
//	))
func New(opts ...Option) strada.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return strada.Named("accesslog", func(c *strada.Context) {
		path := c.Request.URL.Path
		if cfg.logger == nil || cfg.excludePaths[path] {
			c.Next()

			return
		}
		for _, prefix := range cfg.excludePrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()

				return
			}
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status, size := 0, 0
		if ss, ok := c.Response.(statusSizer); ok {
			status = ss.StatusCode()
			size = ss.Size()
		}

		isError := status >= 400
		isSlow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold

		if !isError && !isSlow {
			if cfg.errorsOnly {
				return
			}
			if cfg.sampleRate < 1.0 && !sampleByHash(requestID(c), cfg.sampleRate) {
				return
			}
		}

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"bytes_sent", size,
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if route := c.RoutePattern(); route != "" {
			fields = append(fields, "route", route)
		}
		if id := requestID(c); id != "" {
			fields = append(fields, "request_id", id)
		}
		if isSlow {
			fields = append(fields, "slow", true)
		}

		switch {
		case status >= 500:
			cfg.logger.Error("access", fields...)
		case isError || isSlow:
			cfg.logger.Warn("access", fields...)
		default:
			cfg.logger.Info("access", fields...)
		}
	})
}

func requestID(c *strada.Context) string {
	if id, ok := c.Request.Context().Value(middleware.RequestIDKey).(string); ok {
		return id
	}

	return ""
}

// sampleByHash makes a deterministic keep/drop decision from the ID so
// the same request samples identically across replicas.
func sampleByHash(id string, rate float64) bool {
	if id == "" || rate >= 1 {
		return true
	}
	if rate <= 0 {
		return false
	}
	h := sha256.Sum256([]byte(id))
	value := binary.BigEndian.Uint64(h[:8])

	return float64(value) <= rate*float64(^uint64(0))
}
