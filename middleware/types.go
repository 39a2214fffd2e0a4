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

// Package middleware holds the shared context keys used by the
// middleware subpackages.
package middleware

// ContextKey is the type for request context keys, preventing
// collisions with string keys from other packages.
type ContextKey string

const (
	// RequestIDKey carries the request ID set by the requestid
	// middleware and read by the accesslog middleware.
	RequestIDKey ContextKey = "middleware.request_id"
)
