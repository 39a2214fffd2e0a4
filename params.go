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
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/strada-dev/strada/pattern"
)

// Typed parameter accessors. The declared type wins: asking for an
// integer from a parameter declared {name:uuid} is an ErrParamKind
// error even if the value happens to parse, because the route contract
// says otherwise. Untyped parameters convert freely.

func (c *Context) typedParam(name string, want pattern.ValueKind) (string, error) {
	if !c.HasParam(name) {
		return "", fmt.Errorf("%w: %q", ErrParamMissing, name)
	}
	// Only declared types enforce a kind; untyped parameters convert freely.
	if c.route != nil && c.route.pattern.TypeName(name) != "" {
		if kind, ok := c.route.pattern.Kind(name); ok && kind != want {
			return "", fmt.Errorf("%w: %q is declared %q", ErrParamKind, name, c.route.pattern.TypeName(name))
		}
	}

	return c.Param(name), nil
}

// ParamInt returns a route parameter converted to int.
func (c *Context) ParamInt(name string) (int, error) {
	raw, err := c.typedParam(name, pattern.KindInt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q=%q is not an integer", ErrParamInvalid, name, raw)
	}

	return v, nil
}

// ParamInt64 returns a route parameter converted to int64.
func (c *Context) ParamInt64(name string) (int64, error) {
	raw, err := c.typedParam(name, pattern.KindInt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q=%q is not an integer", ErrParamInvalid, name, raw)
	}

	return v, nil
}

// ParamUint returns a route parameter converted to uint.
func (c *Context) ParamUint(name string) (uint, error) {
	raw, err := c.typedParam(name, pattern.KindInt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %q=%q is not an unsigned integer", ErrParamInvalid, name, raw)
	}

	return uint(v), nil
}

// ParamFloat64 returns a route parameter converted to float64.
func (c *Context) ParamFloat64(name string) (float64, error) {
	raw, err := c.typedParam(name, pattern.KindFloat)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q=%q is not a number", ErrParamInvalid, name, raw)
	}

	return v, nil
}

// ParamUUID returns a route parameter parsed as a UUID.
func (c *Context) ParamUUID(name string) (uuid.UUID, error) {
	if !c.HasParam(name) {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrParamMissing, name)
	}
	raw := c.Param(name)
	v, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q=%q is not a uuid", ErrParamInvalid, name, raw)
	}

	return v, nil
}

// ParamIntDefault returns ParamInt's value, or def on any error.
func (c *Context) ParamIntDefault(name string, def int) int {
	if v, err := c.ParamInt(name); err == nil {
		return v
	}

	return def
}
