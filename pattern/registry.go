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

import (
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
)

// ValueKind classifies the Go-side representation of a parameter type.
// It drives the typed accessors on the request context: a parameter
// declared {id:int} converts to integers, {price:double} to floats,
// and everything else stays a string.
type ValueKind uint8

const (
	// KindString is the kind of untyped parameters and of every
	// registered type without a numeric representation.
	KindString ValueKind = iota

	// KindInt marks parameters whose declared type is "int".
	KindInt

	// KindFloat marks parameters whose declared type is "double".
	KindFloat
)

// ParamType is a named, compiled parameter validator. Instances are
// immutable; the registry hands out the current definition for a name.
type ParamType struct {
	name string
	expr string
	kind ValueKind
	re   *regexp.Regexp
}

// Name returns the registered type name.
func (t *ParamType) Name() string { return t.name }

// Expr returns the raw regular expression fragment the type was
// registered with, without anchoring.
func (t *ParamType) Expr() string { return t.expr }

// Kind returns the value kind used by typed parameter accessors.
func (t *ParamType) Kind() ValueKind { return t.kind }

// Validate reports whether value matches the type's expression.
// The expression is anchored: the whole value must match.
func (t *ParamType) Validate(value string) bool { return t.re.MatchString(value) }

// TypeRegistry maps parameter type names to validation expressions.
// Registration is last-write-wins, including for the built-in types.
// Freeze is called by the router when it starts serving; registration
// afterwards fails so that route matching semantics cannot change
// under live traffic.
type TypeRegistry struct {
	mu     sync.RWMutex
	types  map[string]*ParamType
	frozen atomic.Bool
}

// Built-in parameter types. "string" doubles as the definition of an
// untyped {name} segment.
var builtinTypes = map[string]string{
	"int":    `\d+`,
	"double": `\d+\.\d+`,
	"uuid":   `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"slug":   `[a-z0-9]+(?:-[a-z0-9]+)*`,
	"email":  `[^@/\s]+@[^@/\s]+\.[^@/\s]+`,
	"url":    `https?://[^\s]+`,
	"ip":     `\d{1,3}(?:\.\d{1,3}){3}`,
	"word":   `\w+`,
	"string": `[^/]+`,
}

// NewTypeRegistry returns a registry preloaded with the built-in types.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]*ParamType, len(builtinTypes))}
	for name, expr := range builtinTypes {
		t, err := newParamType(name, expr)
		if err != nil {
			panic(fmt.Sprintf("pattern: built-in type %q: %v", name, err))
		}
		r.types[name] = t
	}

	return r
}

func newParamType(name, expr string) (*ParamType, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: type %q: %v", ErrInvalidTypeExpr, name, err)
	}

	return &ParamType{name: name, expr: expr, kind: kindForName(name), re: re}, nil
}

// kindForName keeps the numeric kinds pinned to the names "int" and
// "double" even when their expressions are overridden, so typed
// accessors stay consistent with the declared type.
func kindForName(name string) ValueKind {
	switch name {
	case "int":
		return KindInt
	case "double":
		return KindFloat
	default:
		return KindString
	}
}

// Register adds or replaces a parameter type. The expression is a
// regular expression fragment; it is anchored automatically so the
// whole segment value must match. Returns ErrRegistryFrozen once the
// registry is serving and ErrInvalidTypeExpr for an uncompilable
// expression.
func (r *TypeRegistry) Register(name, expr string) error {
	if name == "" {
		return fmt.Errorf("%w: empty type name", ErrInvalidTypeExpr)
	}
	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot register type %q", ErrRegistryFrozen, name)
	}

	t, err := newParamType(name, expr)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.types[name] = t
	r.mu.Unlock()

	return nil
}

// MustRegister is Register that panics on error. Intended for
// program-init registration of custom types.
func (r *TypeRegistry) MustRegister(name, expr string) {
	if err := r.Register(name, expr); err != nil {
		panic(err)
	}
}

// Lookup returns the current definition of a type name.
func (r *TypeRegistry) Lookup(name string) (*ParamType, bool) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()

	return t, ok
}

// Freeze blocks further registration. Idempotent.
func (r *TypeRegistry) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether the registry has been frozen.
func (r *TypeRegistry) Frozen() bool {
	return r.frozen.Load()
}

// Default is the process-wide registry used by routers unless
// overridden with a router option.
var Default = NewTypeRegistry()

// Register adds or replaces a parameter type in the default registry.
func Register(name, expr string) error {
	return Default.Register(name, expr)
}

// MustRegister is Register on the default registry, panicking on error.
func MustRegister(name, expr string) {
	Default.MustRegister(name, expr)
}
