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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecificityOrdering(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/users/{name}", func(c *Context) { c.String(http.StatusOK, "untyped") })
	r.GET("/users/admin", func(c *Context) { c.String(http.StatusOK, "literal") })
	r.GET("/users/{id:int}", func(c *Context) { c.String(http.StatusOK, "typed") })
	r.GET("/users/{*rest}", func(c *Context) { c.String(http.StatusOK, "wildcard") })

	w := performRequest(r, http.MethodGet, "/users/admin")
	assert.Equal(t, "literal", w.Body.String())

	w = performRequest(r, http.MethodGet, "/users/42")
	assert.Equal(t, "typed", w.Body.String())

	w = performRequest(r, http.MethodGet, "/users/alice")
	assert.Equal(t, "untyped", w.Body.String())

	w = performRequest(r, http.MethodGet, "/users/a/b")
	assert.Equal(t, "wildcard", w.Body.String())
}

func TestSpecificityRegistrationTiebreak(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/items/{a}", func(c *Context) { c.String(http.StatusOK, "first") })
	r.GET("/items/{b}", func(c *Context) { c.String(http.StatusOK, "second") })

	w := performRequest(r, http.MethodGet, "/items/x")
	assert.Equal(t, "first", w.Body.String())
}

func TestConstraintFailureContinuesSearch(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/v/{id}", func(c *Context) { c.String(http.StatusOK, "digits") }).
		Where("id", `\d+`)
	r.GET("/v/{name}", func(c *Context) { c.String(http.StatusOK, "fallback") })

	w := performRequest(r, http.MethodGet, "/v/123")
	assert.Equal(t, "digits", w.Body.String())

	// Constraint miss on the first candidate moves on to the next.
	w = performRequest(r, http.MethodGet, "/v/abc")
	assert.Equal(t, "fallback", w.Body.String())
}

func TestHostConstraints(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/dash", func(c *Context) { c.String(http.StatusOK, "admin") }).
		WhereHost(`admin\.example\.com`)
	r.GET("/dash", func(c *Context) { c.String(http.StatusOK, "public") })

	req := httptest.NewRequest(http.MethodGet, "/dash", nil)
	req.Host = "admin.example.com:8080"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "admin", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/dash", nil)
	req.Host = "www.example.com"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "public", w.Body.String())
}

func TestMatchAPI(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/users/{id:int}", func(c *Context) {}).Name("users.show")
	r.POST("/users", func(c *Context) {})

	res := r.Match(http.MethodGet, "/users/42", "")
	require.Equal(t, MatchFound, res.Kind)
	require.NotNil(t, res.Route)
	assert.Equal(t, "users.show", res.Route.RouteName())
	require.Len(t, res.Params, 1)
	assert.Equal(t, "id", res.Params[0].Name)
	assert.Equal(t, "42", res.Params[0].Value)

	res = r.Match(http.MethodDelete, "/users", "")
	assert.Equal(t, MatchMethodNotAllowed, res.Kind)
	assert.Equal(t, []string{"POST"}, res.Allowed)

	res = r.Match(http.MethodGet, "/users/42/", "")
	assert.Equal(t, MatchRedirect, res.Kind)
	assert.Equal(t, "/users/42", res.RedirectPath)

	res = r.Match(http.MethodGet, "/nope", "")
	assert.Equal(t, MatchNotFound, res.Kind)
}

func TestStaticBeatsDynamicOnSamePath(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/health/{probe}", func(c *Context) { c.String(http.StatusOK, "dyn") })
	r.GET("/health/live", func(c *Context) { c.String(http.StatusOK, "static") })

	w := performRequest(r, http.MethodGet, "/health/live")
	assert.Equal(t, "static", w.Body.String())
}

func TestDeeperLiteralPrefixWins(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/api/{section}/{id}", func(c *Context) { c.String(http.StatusOK, "shallow") })
	r.GET("/api/users/{id}", func(c *Context) { c.String(http.StatusOK, "deep") })

	w := performRequest(r, http.MethodGet, "/api/users/7")
	assert.Equal(t, "deep", w.Body.String())

	w = performRequest(r, http.MethodGet, "/api/posts/7")
	assert.Equal(t, "shallow", w.Body.String())
}
