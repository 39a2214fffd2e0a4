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
	"log/slog"
	"time"

	"github.com/strada-dev/strada/pattern"
)

// WithLogger sets the router's logger. Event listener panics,
// recovered handler panics, and serve lifecycle messages go through
// it. The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithTypeRegistry makes the router compile patterns against the
// given registry instead of the process-wide default. Useful for
// routers with conflicting custom types in one process, and for
// tests.
func WithTypeRegistry(reg *pattern.TypeRegistry) Option {
	return func(r *Router) {
		if reg != nil {
			r.types = reg
		}
	}
}

// WithRedirectTrailingSlash controls trailing-slash resolution. When
// enabled (the default), a request whose path misses but matches with
// the trailing slash toggled is answered with a redirect: 301 for GET,
// 308 for other methods so the body and method survive.
func WithRedirectTrailingSlash(enable bool) Option {
	return func(r *Router) {
		r.redirectTrailingSlash = enable
	}
}

// WithMethodNotAllowed controls 405 handling. When enabled (the
// default), a path registered under other methods answers 405 with an
// Allow header instead of 404.
func WithMethodNotAllowed(enable bool) Option {
	return func(r *Router) {
		r.handleMethodNotAllowed = enable
	}
}

// WithDebug includes recovered panic values in 500 response bodies.
// Keep it off in production; panic values can leak internals.
func WithDebug(enable bool) Option {
	return func(r *Router) {
		r.debug = enable
	}
}

// WithObservability installs a recorder that sees every request:
// start, response writer wrapping, and end with the matched route
// template. The template, not the raw path, is meant for metric
// labels.
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}

// WithH2C enables HTTP/2 cleartext on Serve. Only for development or
// behind a trusted load balancer; never on a public listener without
// TLS.
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithServerTimeouts overrides the timeouts Serve and ServeTLS apply.
//
// Defaults:
//
//	ReadHeaderTimeout: 5s
//	ReadTimeout:       15s
//	WriteTimeout:      30s
//	IdleTimeout:       60s
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

// WithBloomFilterSize sets the bit count of the static table's bloom
// filter. Default 1000; size it at 2-3x the static route count. Must
// be greater than zero.
func WithBloomFilterSize(size uint64) Option {
	return func(r *Router) {
		r.bloomFilterSize = size
	}
}

// WithBloomFilterHashFunctions sets the bloom filter hash function
// count, clamped to [1, 10]. Default 3.
func WithBloomFilterHashFunctions(n int) Option {
	return func(r *Router) {
		r.bloomHashFunctions = max(1, min(n, 10))
	}
}

// serverTimeouts carries the http.Server timeout set.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}
