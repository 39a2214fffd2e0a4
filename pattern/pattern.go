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
	"net/url"
	"strings"
)

// Kind identifies what a compiled segment matches.
type Kind uint8

const (
	// KindLiteral matches the segment text exactly.
	KindLiteral Kind = iota

	// KindParam binds one path segment to a named parameter.
	KindParam

	// KindOptional is a parameter segment that may be absent. Optional
	// segments are only valid as a trailing run.
	KindOptional

	// KindWildcard binds the remainder of the path, including slashes.
	// Always the final segment.
	KindWildcard
)

// Segment is one element of a compiled route template.
type Segment struct {
	Kind    Kind
	Literal string // segment text for KindLiteral
	Name    string // parameter name for the other kinds
	Type    string // declared type name, "" for untyped parameters

	typ *ParamType // resolved validator, set by Resolve
}

// typeName returns the registry name backing this segment's validation.
func (s *Segment) typeName() string {
	if s.Type == "" {
		return "string"
	}

	return s.Type
}

// PatternError describes a route template rejected at compile time.
// It satisfies errors.Is(err, ErrInvalidPattern).
type PatternError struct {
	Pattern string // the full template
	Segment int    // zero-based index of the offending segment
	Detail  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q: %s (segment %d)", e.Pattern, e.Detail, e.Segment)
}

// Is makes PatternError match ErrInvalidPattern.
func (e *PatternError) Is(target error) bool { return target == ErrInvalidPattern }

// Binding is a matched parameter name/value pair.
type Binding struct {
	Name  string
	Value string
}

// Pattern is a compiled route template. Compilation happens once, at
// route registration; matching a request never re-parses the template.
type Pattern struct {
	raw      string
	segments []Segment
	params   []string
	reg      *TypeRegistry

	static   bool
	wildcard bool
	required int // segments that must be present
}

// Compile parses a route template against the given type registry.
// A nil registry means the package default. Templates are segment
// based: each slash-separated element is either literal text or one of
// {name}, {name:type}, {name?}, {name:type?}, {*name}.
func Compile(raw string, reg *TypeRegistry) (*Pattern, error) {
	if reg == nil {
		reg = Default
	}
	if raw == "" || raw[0] != '/' {
		return nil, &PatternError{Pattern: raw, Detail: "must begin with /"}
	}

	p := &Pattern{raw: raw, reg: reg, static: true}

	// "/" compiles to zero segments and matches only the root path.
	if raw == "/" {
		return p, nil
	}

	seen := make(map[string]bool)
	optionalRun := false
	for i, text := range strings.Split(raw[1:], "/") {
		if text == "" {
			return nil, &PatternError{Pattern: raw, Segment: i, Detail: "empty segment"}
		}
		if p.wildcard {
			return nil, &PatternError{Pattern: raw, Segment: i, Detail: "wildcard must be the final segment"}
		}

		if text[0] != '{' {
			if strings.ContainsAny(text, "{}") {
				return nil, &PatternError{Pattern: raw, Segment: i, Detail: "parameter must span the whole segment"}
			}
			if optionalRun {
				return nil, &PatternError{Pattern: raw, Segment: i, Detail: "required segment after optional segment"}
			}
			p.segments = append(p.segments, Segment{Kind: KindLiteral, Literal: text})
			p.required++

			continue
		}

		seg, err := parseParamSegment(raw, i, text, reg)
		if err != nil {
			return nil, err
		}
		if seen[seg.Name] {
			return nil, &PatternError{Pattern: raw, Segment: i, Detail: fmt.Sprintf("duplicate parameter %q", seg.Name)}
		}
		seen[seg.Name] = true
		p.static = false

		switch seg.Kind {
		case KindOptional:
			optionalRun = true
		case KindWildcard:
			if optionalRun {
				return nil, &PatternError{Pattern: raw, Segment: i, Detail: "wildcard cannot follow optional segments"}
			}
			p.wildcard = true
		default:
			if optionalRun {
				return nil, &PatternError{Pattern: raw, Segment: i, Detail: "required segment after optional segment"}
			}
			p.required++
		}

		p.segments = append(p.segments, seg)
		p.params = append(p.params, seg.Name)
	}

	return p, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(raw string, reg *TypeRegistry) *Pattern {
	p, err := Compile(raw, reg)
	if err != nil {
		panic(err)
	}

	return p
}

func parseParamSegment(raw string, idx int, text string, reg *TypeRegistry) (Segment, error) {
	if text[len(text)-1] != '}' || strings.Count(text, "{") != 1 || strings.Count(text, "}") != 1 {
		return Segment{}, &PatternError{Pattern: raw, Segment: idx, Detail: "unbalanced braces"}
	}

	inner := text[1 : len(text)-1]

	if strings.HasPrefix(inner, "*") {
		name := inner[1:]
		if !validParamName(name) {
			return Segment{}, &PatternError{Pattern: raw, Segment: idx, Detail: fmt.Sprintf("invalid wildcard name %q", name)}
		}

		return Segment{Kind: KindWildcard, Name: name}, nil
	}

	kind := KindParam
	if strings.HasSuffix(inner, "?") {
		kind = KindOptional
		inner = inner[:len(inner)-1]
	}

	name, typeName := inner, ""
	if colon := strings.IndexByte(inner, ':'); colon >= 0 {
		name, typeName = inner[:colon], inner[colon+1:]
		if typeName == "" {
			return Segment{}, &PatternError{Pattern: raw, Segment: idx, Detail: "empty type name"}
		}
		if _, ok := reg.Lookup(typeName); !ok {
			return Segment{}, &PatternError{
				Pattern: raw,
				Segment: idx,
				Detail:  fmt.Sprintf("%v: %q", ErrUnknownType, typeName),
			}
		}
	}
	if !validParamName(name) {
		return Segment{}, &PatternError{Pattern: raw, Segment: idx, Detail: fmt.Sprintf("invalid parameter name %q", name)}
	}

	return Segment{Kind: kind, Name: name, Type: typeName}, nil
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// Resolve snapshots the current type definitions into the pattern so
// matching no longer consults the registry. Routers call this when
// they freeze; until then matching looks types up live, which keeps
// last-write-wins registration semantics.
func (p *Pattern) Resolve() error {
	for i := range p.segments {
		seg := &p.segments[i]
		if seg.Kind == KindLiteral || seg.Kind == KindWildcard {
			continue
		}
		t, ok := p.reg.Lookup(seg.typeName())
		if !ok {
			return fmt.Errorf("%w: %q in pattern %q", ErrUnknownType, seg.Type, p.raw)
		}
		seg.typ = t
	}

	return nil
}

func (p *Pattern) validator(seg *Segment) *ParamType {
	if seg.typ != nil {
		return seg.typ
	}
	t, _ := p.reg.Lookup(seg.typeName())

	return t
}

// Raw returns the template text the pattern was compiled from.
func (p *Pattern) Raw() string { return p.raw }

// String returns the template text.
func (p *Pattern) String() string { return p.raw }

// Segments returns the compiled segment program.
func (p *Pattern) Segments() []Segment { return p.segments }

// ParamNames returns the declared parameter names in template order.
func (p *Pattern) ParamNames() []string { return p.params }

// IsStatic reports whether the pattern contains no parameters and can
// be matched with a plain string comparison.
func (p *Pattern) IsStatic() bool { return p.static }

// HasWildcard reports whether the pattern ends in a wildcard segment.
func (p *Pattern) HasWildcard() bool { return p.wildcard }

// TypeName returns the declared type name for the named parameter, or
// "" for untyped and wildcard parameters.
func (p *Pattern) TypeName(name string) string {
	for i := range p.segments {
		seg := &p.segments[i]
		if seg.Name == name && seg.Kind != KindLiteral && seg.Kind != KindWildcard {
			return seg.Type
		}
	}

	return ""
}

// Kind returns the value kind declared for the named parameter, and
// whether the parameter exists in this pattern.
func (p *Pattern) Kind(name string) (ValueKind, bool) {
	for i := range p.segments {
		seg := &p.segments[i]
		if seg.Name != name || seg.Kind == KindLiteral {
			continue
		}
		if seg.Kind == KindWildcard {
			return KindString, true
		}
		if t := p.validator(seg); t != nil {
			return t.Kind(), true
		}

		return KindString, true
	}

	return KindString, false
}

// Match reports whether path satisfies the pattern and appends one
// Binding per bound parameter to dst. dst is returned so callers can
// reuse a scratch slice across attempts. A structural match whose
// value fails the declared type's expression reports false; the
// caller is expected to continue with the next candidate.
func (p *Pattern) Match(path string, dst []Binding) ([]Binding, bool) {
	if len(path) == 0 || path[0] != '/' {
		return dst, false
	}
	if len(p.segments) == 0 {
		return dst, path == "/"
	}

	mark := len(dst)
	pos := 1 // past the leading slash

	for si := range p.segments {
		seg := &p.segments[si]

		if seg.Kind == KindWildcard {
			rest := ""
			if pos <= len(path) {
				rest = path[pos:]
			}

			return append(dst, Binding{Name: seg.Name, Value: rest}), true
		}

		if pos > len(path) {
			// Path exhausted: only a run of optionals may remain.
			if seg.Kind == KindOptional {
				continue
			}

			return dst[:mark], false
		}

		// Slice out the next path segment without strings.Split.
		end := strings.IndexByte(path[pos:], '/')
		var value string
		if end < 0 {
			value = path[pos:]
			pos = len(path) + 1
		} else {
			value = path[pos : pos+end]
			pos += end + 1
		}
		if value == "" {
			// The root path leaves an empty remainder; a trailing run
			// of optionals is simply omitted.
			if seg.Kind == KindOptional && path == "/" {
				continue
			}

			return dst[:mark], false
		}

		switch seg.Kind {
		case KindLiteral:
			if value != seg.Literal {
				return dst[:mark], false
			}
		case KindParam, KindOptional:
			if t := p.validator(seg); t != nil && !t.Validate(value) {
				return dst[:mark], false
			}
			dst = append(dst, Binding{Name: seg.Name, Value: value})
		}
	}

	// Pattern exhausted: the path must be too.
	if pos <= len(path) {
		return dst[:mark], false
	}

	return dst, true
}

// Build substitutes params into the template and returns a concrete
// path. Values are percent-encoded and validated against the declared
// types. Missing required parameters and type-rejected values are
// errors; absent optional parameters truncate the path.
func (p *Pattern) Build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	b.Grow(len(p.raw))

	for si := range p.segments {
		seg := &p.segments[si]

		switch seg.Kind {
		case KindLiteral:
			b.WriteByte('/')
			b.WriteString(seg.Literal)
		case KindParam, KindOptional:
			value, ok := params[seg.Name]
			if !ok {
				if seg.Kind == KindOptional {
					if b.Len() == 0 {
						return "/", nil
					}

					return b.String(), nil
				}

				return "", fmt.Errorf("%w: %q in pattern %q", ErrMissingParameter, seg.Name, p.raw)
			}
			if t := p.validator(seg); t != nil && !t.Validate(value) {
				return "", fmt.Errorf("%w: %q=%q does not satisfy type %q", ErrParameterValue, seg.Name, value, seg.typeName())
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(value))
		case KindWildcard:
			value := params[seg.Name]
			if value != "" {
				b.WriteByte('/')
				// Wildcards span segments; keep slashes, escape the rest.
				parts := strings.Split(value, "/")
				for i, part := range parts {
					if i > 0 {
						b.WriteByte('/')
					}
					b.WriteString(url.PathEscape(part))
				}
			}
		}
	}
	if b.Len() == 0 {
		return "/", nil
	}

	return b.String(), nil
}

// segmentRank orders segment kinds for specificity comparison. Lower
// is more specific.
func segmentRank(seg *Segment) int {
	switch seg.Kind {
	case KindLiteral:
		return 0
	case KindWildcard:
		return 3
	default:
		if seg.Type != "" {
			return 1 // typed parameter
		}

		return 2 // untyped parameter
	}
}

// Compare orders two patterns by matching specificity: segment kinds
// are compared left to right with literal before typed parameter
// before untyped parameter before wildcard. A pattern that ends while
// the other continues is the more specific of the two. Returns a
// negative value when a is more specific, positive when b is, and
// zero on a tie (callers break ties by registration order).
func Compare(a, b *Pattern) int {
	an, bn := len(a.segments), len(b.segments)
	for i := 0; i < an || i < bn; i++ {
		ar, br := -1, -1
		if i < an {
			ar = segmentRank(&a.segments[i])
		}
		if i < bn {
			br = segmentRank(&b.segments[i])
		}
		if ar != br {
			return ar - br
		}
	}

	return 0
}
