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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileValid(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()

	tests := []struct {
		name     string
		raw      string
		params   []string
		static   bool
		wildcard bool
	}{
		{name: "root", raw: "/", params: nil, static: true},
		{name: "static", raw: "/users/all", params: nil, static: true},
		{name: "untyped param", raw: "/users/{id}", params: []string{"id"}},
		{name: "typed param", raw: "/users/{id:int}", params: []string{"id"}},
		{name: "optional run", raw: "/archive/{year?}/{month?}", params: []string{"year", "month"}},
		{name: "typed optional", raw: "/archive/{year:int?}", params: []string{"year"}},
		{name: "wildcard", raw: "/files/{*path}", params: []string{"path"}, wildcard: true},
		{name: "mixed", raw: "/api/v1/{tenant:slug}/items/{id:uuid}", params: []string{"tenant", "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Compile(tt.raw, reg)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, p.Raw())
			assert.Equal(t, tt.params, p.ParamNames())
			assert.Equal(t, tt.static, p.IsStatic())
			assert.Equal(t, tt.wildcard, p.HasWildcard())
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "no leading slash", raw: "users/{id}"},
		{name: "empty", raw: ""},
		{name: "empty segment", raw: "/users//posts"},
		{name: "unbalanced open", raw: "/users/{id"},
		{name: "unbalanced close", raw: "/users/id}"},
		{name: "nested braces", raw: "/users/{{id}}"},
		{name: "empty name", raw: "/users/{}"},
		{name: "empty type", raw: "/users/{id:}"},
		{name: "unknown type", raw: "/users/{id:bignum}"},
		{name: "duplicate name", raw: "/{id}/{id}"},
		{name: "required after optional", raw: "/a/{b?}/c"},
		{name: "param after optional", raw: "/a/{b?}/{c}"},
		{name: "wildcard not terminal", raw: "/files/{*path}/meta"},
		{name: "wildcard after optional", raw: "/a/{b?}/{*rest}"},
		{name: "partial segment param", raw: "/file-{id}"},
		{name: "bad name", raw: "/users/{9id}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compile(tt.raw, reg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPattern)

			var perr *PatternError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.raw, perr.Pattern)
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()

	tests := []struct {
		name   string
		raw    string
		path   string
		ok     bool
		params map[string]string
	}{
		{name: "root", raw: "/", path: "/", ok: true},
		{name: "root rejects other", raw: "/", path: "/x", ok: false},
		{name: "static", raw: "/users/all", path: "/users/all", ok: true},
		{name: "static trailing slash misses", raw: "/users/all", path: "/users/all/", ok: false},
		{name: "untyped binds", raw: "/users/{id}", path: "/users/abc", ok: true, params: map[string]string{"id": "abc"}},
		{name: "untyped rejects slash spill", raw: "/users/{id}", path: "/users/a/b", ok: false},
		{name: "int accepts digits", raw: "/users/{id:int}", path: "/users/42", ok: true, params: map[string]string{"id": "42"}},
		{name: "int rejects letters", raw: "/users/{id:int}", path: "/users/abc", ok: false},
		{name: "int rejects negative", raw: "/users/{id:int}", path: "/users/-1", ok: false},
		{name: "double", raw: "/price/{p:double}", path: "/price/19.99", ok: true, params: map[string]string{"p": "19.99"}},
		{name: "double rejects int", raw: "/price/{p:double}", path: "/price/19", ok: false},
		{name: "uuid", raw: "/obj/{id:uuid}", path: "/obj/a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11", ok: true, params: map[string]string{"id": "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11"}},
		{name: "slug", raw: "/posts/{s:slug}", path: "/posts/hello-world-2", ok: true, params: map[string]string{"s": "hello-world-2"}},
		{name: "slug rejects caps", raw: "/posts/{s:slug}", path: "/posts/Hello", ok: false},
		{name: "optional present", raw: "/archive/{year?}", path: "/archive/2024", ok: true, params: map[string]string{"year": "2024"}},
		{name: "optional absent", raw: "/archive/{year?}", path: "/archive", ok: true, params: map[string]string{}},
		{name: "optional run partial", raw: "/archive/{year?}/{month?}", path: "/archive/2024", ok: true, params: map[string]string{"year": "2024"}},
		{name: "optional run full", raw: "/archive/{year?}/{month?}", path: "/archive/2024/06", ok: true, params: map[string]string{"year": "2024", "month": "06"}},
		{name: "all optional present", raw: "/{page?}", path: "/about", ok: true, params: map[string]string{"page": "about"}},
		{name: "all optional omitted", raw: "/{page?}", path: "/", ok: true, params: map[string]string{}},
		{name: "all optional run omitted", raw: "/{section?}/{page?}", path: "/", ok: true, params: map[string]string{}},
		{name: "wildcard binds rest", raw: "/files/{*path}", path: "/files/docs/a.txt", ok: true, params: map[string]string{"path": "docs/a.txt"}},
		{name: "wildcard empty rest", raw: "/files/{*path}", path: "/files", ok: true, params: map[string]string{"path": ""}},
		{name: "extra segment misses", raw: "/users/{id}", path: "/users/1/posts", ok: false},
		{name: "short path misses", raw: "/users/{id}/posts", path: "/users/1", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := MustCompile(tt.raw, reg)
			bindings, ok := p.Match(tt.path, nil)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}

			got := make(map[string]string, len(bindings))
			for _, b := range bindings {
				got[b.Name] = b.Value
			}
			if tt.params == nil {
				tt.params = map[string]string{}
			}
			assert.Equal(t, tt.params, got)
		})
	}
}

func TestMatchReusesScratch(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()
	p := MustCompile("/users/{id}/posts/{post}", reg)

	scratch := make([]Binding, 0, 8)
	bindings, ok := p.Match("/users/1/posts/2", scratch)
	require.True(t, ok)
	require.Len(t, bindings, 2)

	// A failed match must not leave stale bindings behind.
	bindings, ok = p.Match("/users/1/posts", bindings[:0])
	assert.False(t, ok)
	assert.Empty(t, bindings)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()
	compile := func(raw string) *Pattern { return MustCompile(raw, reg) }

	tests := []struct {
		name string
		more string // expected more specific
		less string
	}{
		{name: "literal beats typed", more: "/users/admin", less: "/users/{id:int}"},
		{name: "typed beats untyped", more: "/users/{id:int}", less: "/users/{id}"},
		{name: "untyped beats wildcard", more: "/users/{name}", less: "/users/{*rest}"},
		{name: "left to right", more: "/a/{x}/c", less: "/a/{x}/{y}"},
		{name: "ending beats optional tail", more: "/a/{b}", less: "/a/{b}/{c?}"},
		{name: "ending beats wildcard tail", more: "/files", less: "/files/{*rest}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, b := compile(tt.more), compile(tt.less)
			assert.Negative(t, Compare(a, b))
			assert.Positive(t, Compare(b, a))
		})
	}

	assert.Zero(t, Compare(compile("/x/{a}"), compile("/x/{b}")))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()

	t.Run("substitutes and escapes", func(t *testing.T) {
		t.Parallel()

		p := MustCompile("/users/{id:int}/notes/{title}", reg)
		path, err := p.Build(map[string]string{"id": "42", "title": "a b"})
		require.NoError(t, err)
		assert.Equal(t, "/users/42/notes/a%20b", path)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()

		p := MustCompile("/users/{id:int}", reg)
		_, err := p.Build(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingParameter)
	})

	t.Run("type rejected", func(t *testing.T) {
		t.Parallel()

		p := MustCompile("/users/{id:int}", reg)
		_, err := p.Build(map[string]string{"id": "abc"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParameterValue)
	})

	t.Run("optional truncates", func(t *testing.T) {
		t.Parallel()

		p := MustCompile("/archive/{year?}/{month?}", reg)

		path, err := p.Build(map[string]string{"year": "2024"})
		require.NoError(t, err)
		assert.Equal(t, "/archive/2024", path)

		path, err = p.Build(nil)
		require.NoError(t, err)
		assert.Equal(t, "/archive", path)
	})

	t.Run("all optional omitted yields root", func(t *testing.T) {
		t.Parallel()

		p := MustCompile("/{page?}", reg)

		path, err := p.Build(nil)
		require.NoError(t, err)
		assert.Equal(t, "/", path)

		path, err = p.Build(map[string]string{"page": "about"})
		require.NoError(t, err)
		assert.Equal(t, "/about", path)
	})

	t.Run("wildcard keeps slashes", func(t *testing.T) {
		t.Parallel()

		p := MustCompile("/files/{*path}", reg)
		path, err := p.Build(map[string]string{"path": "docs/a b.txt"})
		require.NoError(t, err)
		assert.Equal(t, "/files/docs/a%20b.txt", path)
	})

	t.Run("root", func(t *testing.T) {
		t.Parallel()

		p := MustCompile("/", reg)
		path, err := p.Build(nil)
		require.NoError(t, err)
		assert.Equal(t, "/", path)
	})
}

func TestBuildMatchRoundTrip(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()
	p := MustCompile("/api/{tenant:slug}/users/{id:int}", reg)

	params := map[string]string{"tenant": "acme-co", "id": "7"}
	path, err := p.Build(params)
	require.NoError(t, err)

	bindings, ok := p.Match(path, nil)
	require.True(t, ok)
	got := make(map[string]string, len(bindings))
	for _, b := range bindings {
		got[b.Name] = b.Value
	}
	assert.Equal(t, params, got)
}

func TestResolveUnknownType(t *testing.T) {
	t.Parallel()

	reg := NewTypeRegistry()
	require.NoError(t, reg.Register("ticket", `T-\d+`))
	p := MustCompile("/tickets/{id:ticket}", reg)
	require.NoError(t, p.Resolve())

	_, ok := p.Match("/tickets/T-99", nil)
	assert.True(t, ok)
	_, ok = p.Match("/tickets/99", nil)
	assert.False(t, ok)
}

func TestPatternErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := Compile("/a/{b?}/c", NewTypeRegistry())
	require.Error(t, err)

	var perr *PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Segment)
	assert.Contains(t, perr.Error(), "/a/{b?}/c")
}
