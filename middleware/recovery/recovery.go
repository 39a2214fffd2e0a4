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

// Package recovery provides panic-recovery middleware. Panics become a
// 500 response and a log line instead of reaching the router's own
// recovery boundary, which lets applications customize the response
// and keeps the request's trace span marked correctly.
package recovery

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/strada-dev/strada"
)

// Option configures the recovery middleware.
type Option func(*config)

type config struct {
	stackTrace bool
	stackSize  int
	logger     func(c *strada.Context, err any, stack []byte)
	handler    func(c *strada.Context, err any)
}

func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10,
		logger:     defaultLogger,
		handler:    defaultHandler,
	}
}

func defaultLogger(c *strada.Context, err any, stack []byte) {
	c.Logger().Error("panic recovered",
		"panic", err,
		"stack", string(stack),
	)
}

func defaultHandler(c *strada.Context, _ any) {
	c.JSON(http.StatusInternalServerError, map[string]any{
		"error": "internal server error",
	})
}

// WithStackTrace enables or disables stack capture. Default on.
func WithStackTrace(enable bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enable
	}
}

// WithStackSize caps the captured stack in bytes. Default 4KB.
func WithStackSize(size int) Option {
	return func(cfg *config) {
		cfg.stackSize = size
	}
}

// WithLogger replaces the panic logger.
func WithLogger(fn func(c *strada.Context, err any, stack []byte)) Option {
	return func(cfg *config) {
		cfg.logger = fn
	}
}

// WithSlogLogger logs panics through the given slog logger.
func WithSlogLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = func(_ *strada.Context, err any, stack []byte) {
			logger.Error("panic recovered", "panic", err, "stack", string(stack))
		}
	}
}

// WithHandler replaces the response written after a panic.
func WithHandler(fn func(c *strada.Context, err any)) Option {
	return func(cfg *config) {
		cfg.handler = fn
	}
}

// New returns panic-recovery middleware. Register it first so it
// wraps the rest of the chain.
//
//	r := strada.MustNew()
//	r.Use(recovery.New())
func New(opts ...Option) strada.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return strada.Named("recovery", func(c *strada.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}

			if span := trace.SpanFromContext(c.RequestContext()); span.SpanContext().IsValid() {
				span.SetStatus(codes.Error, "panic recovered")
				span.SetAttributes(
					attribute.Bool("exception.escaped", true),
					attribute.String("exception.type", fmt.Sprintf("%T", err)),
					attribute.String("exception.message", fmt.Sprintf("%v", err)),
				)
				if actualErr, ok := err.(error); ok {
					span.RecordError(actualErr)
				}
			}

			var stack []byte
			if cfg.stackTrace {
				stack = debug.Stack()
				if len(stack) > cfg.stackSize {
					stack = stack[:cfg.stackSize]
				}
			}

			if cfg.logger != nil {
				cfg.logger(c, err, stack)
			}
			if cfg.handler != nil {
				cfg.handler(c, err)
			}
			c.Abort()
		}()

		c.Next()
	})
}
