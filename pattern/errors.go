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

package pattern

import "errors"

var (
	// ErrInvalidPattern is the base error for route template syntax
	// problems. Use errors.Is to test for it; the concrete error is a
	// *PatternError carrying position and detail.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrUnknownType is returned when a pattern references a parameter
	// type that is not in the registry.
	ErrUnknownType = errors.New("unknown parameter type")

	// ErrInvalidTypeExpr is returned when a type registration carries
	// an uncompilable regular expression.
	ErrInvalidTypeExpr = errors.New("invalid parameter type expression")

	// ErrRegistryFrozen is returned when a type is registered after the
	// registry started serving.
	ErrRegistryFrozen = errors.New("type registry is frozen")

	// ErrMissingParameter is returned by Build when a required
	// parameter has no value.
	ErrMissingParameter = errors.New("missing route parameter")

	// ErrParameterValue is returned by Build when a supplied value does
	// not satisfy the parameter's declared type.
	ErrParameterValue = errors.New("route parameter value rejected")
)
