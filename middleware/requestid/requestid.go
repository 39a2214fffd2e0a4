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

// Package requestid assigns each request a unique ID for log and
// trace correlation. The ID is echoed in a response header and stored
// in the request context.
package requestid

import (
	"context"

	"github.com/google/uuid"

	"github.com/strada-dev/strada"
	"github.com/strada-dev/strada/middleware"
)

// Option configures the requestid middleware.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     uuid.NewString,
		allowClientID: true,
	}
}

// WithHeader changes the request/response header carrying the ID.
// Default "X-Request-ID".
func WithHeader(name string) Option {
	return func(cfg *config) {
		cfg.headerName = name
	}
}

// WithGenerator replaces the ID generator. Default is a random UUID.
func WithGenerator(fn func() string) Option {
	return func(cfg *config) {
		cfg.generator = fn
	}
}

// WithAllowClientID controls whether an ID supplied by the client in
// the header is trusted and reused. Default true; disable on public
// edges where clients should not pick their own IDs.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) {
		cfg.allowClientID = allow
	}
}

// New returns the request ID middleware.
//
//	r := strada.MustNew()
//	r.Use(requestid.New())
func New(opts ...Option) strada.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return strada.Named("requestid", func(c *strada.Context) {
		var id string
		if cfg.allowClientID {
			id = c.Request.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		c.Response.Header().Set(cfg.headerName, id)
		ctx := context.WithValue(c.Request.Context(), middleware.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	})
}

// Get returns the request's ID, or "" when the middleware did not run.
func Get(c *strada.Context) string {
	if id, ok := c.Request.Context().Value(middleware.RequestIDKey).(string); ok {
		return id
	}

	return ""
}
