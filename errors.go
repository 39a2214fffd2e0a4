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

import "errors"

var (
	// ErrRouteNotFound is returned when reverse URL generation is asked
	// for a route name that was never registered.
	ErrRouteNotFound = errors.New("route not found")

	// ErrDuplicateRouteName is the cause of the panic raised when two
	// routes claim the same name. Route names are unique across the
	// whole router, groups included.
	ErrDuplicateRouteName = errors.New("duplicate route name")

	// ErrRouterFrozen is the cause of the panic raised when routes,
	// middleware, or listeners are registered after the router started
	// serving.
	ErrRouterFrozen = errors.New("router is frozen")

	// ErrNilHandler is returned by New when an option or registration
	// supplies a nil handler.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrMissingRouteParameter is returned by URL when the params map
	// lacks a required parameter of the route template.
	ErrMissingRouteParameter = errors.New("missing route parameter")

	// ErrParamMissing is returned by typed parameter accessors when the
	// named parameter was not bound by the matched route.
	ErrParamMissing = errors.New("parameter not found")

	// ErrParamInvalid is returned by typed parameter accessors when the
	// bound value cannot be converted to the requested representation.
	ErrParamInvalid = errors.New("parameter value invalid")

	// ErrParamKind is returned by typed parameter accessors when the
	// requested representation disagrees with the parameter's declared
	// type, e.g. ParamInt on a {name:uuid} parameter.
	ErrParamKind = errors.New("parameter kind mismatch")

	// ErrBloomFilterSizeZero is returned by New when the configured
	// bloom filter size is zero.
	ErrBloomFilterSizeZero = errors.New("bloom filter size must be greater than zero")

	// ErrBloomHashFunctionsInvalid is returned by New when the number
	// of bloom hash functions is not positive.
	ErrBloomHashFunctionsInvalid = errors.New("bloom hash functions must be positive")
)
