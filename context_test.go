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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttributeBag(t *testing.T) {
	t.Parallel()

	c := NewTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := c.Get("user")
	assert.False(t, ok)

	c.Set("user", "alice")
	v, ok := c.Get("user")
	require.True(t, ok)
	assert.Equal(t, "alice", v)
	assert.Equal(t, "alice", c.GetString("user"))
	assert.Equal(t, "alice", c.MustGet("user"))

	c.Set("count", 3)
	assert.Equal(t, "", c.GetString("count"))

	assert.Panics(t, func() { c.MustGet("missing") })
}

func TestContextParams(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/a/{x}/{y?}", func(c *Context) {
		assert.Equal(t, "1", c.Param("x"))
		assert.True(t, c.HasParam("x"))
		assert.False(t, c.HasParam("y"))
		assert.Equal(t, "", c.Param("y"))
		assert.Equal(t, map[string]string{"x": "1"}, c.Params())
		c.Status(http.StatusOK)
	})

	w := performRequest(r, http.MethodGet, "/a/1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContextParamOverflow(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/{a}/{b}/{c}/{d}/{e}/{f}/{g}/{h}/{i}/{j}", func(c *Context) {
		// Ten parameters exceed the inline array, spilling to the map.
		assert.Equal(t, "1", c.Param("a"))
		assert.Equal(t, "10", c.Param("j"))
		assert.True(t, c.HasParam("j"))
		assert.Len(t, c.Params(), 10)
		c.Status(http.StatusOK)
	})

	w := performRequest(r, http.MethodGet, "/1/2/3/4/5/6/7/8/9/10")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTypedParams(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/n/{id:int}", func(c *Context) {
		id, err := c.ParamInt("id")
		require.NoError(t, err)
		assert.Equal(t, 42, id)

		id64, err := c.ParamInt64("id")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id64)

		u, err := c.ParamUint("id")
		require.NoError(t, err)
		assert.Equal(t, uint(42), u)

		_, err = c.ParamInt("missing")
		assert.ErrorIs(t, err, ErrParamMissing)

		c.Status(http.StatusOK)
	})

	w := performRequest(r, http.MethodGet, "/n/42")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTypedParamKindMismatch(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/u/{id:uuid}", func(c *Context) {
		// The route declares uuid, so integer access is a kind error.
		_, err := c.ParamInt("id")
		assert.ErrorIs(t, err, ErrParamKind)

		u, err := c.ParamUUID("id")
		require.NoError(t, err)
		assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", u.String())

		c.Status(http.StatusOK)
	})

	w := performRequest(r, http.MethodGet, "/u/123e4567-e89b-12d3-a456-426614174000")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTypedParamUntypedConverts(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/f/{v}", func(c *Context) {
		f, err := c.ParamFloat64("v")
		require.NoError(t, err)
		assert.InDelta(t, 2.5, f, 1e-9)

		_, err = c.ParamInt("v")
		assert.ErrorIs(t, err, ErrParamInvalid)

		c.Status(http.StatusOK)
	})

	w := performRequest(r, http.MethodGet, "/f/2.5")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParamIntDefault(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/p/{page?}", func(c *Context) {
		c.Stringf(http.StatusOK, "%d", c.ParamIntDefault("page", 1))
	})

	w := performRequest(r, http.MethodGet, "/p")
	assert.Equal(t, "1", w.Body.String())

	w = performRequest(r, http.MethodGet, "/p/7")
	assert.Equal(t, "7", w.Body.String())
}

func TestContextResponses(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.GET("/json", func(c *Context) {
		c.JSON(http.StatusCreated, map[string]int{"n": 1})
	})
	r.GET("/yaml", func(c *Context) {
		c.YAML(http.StatusOK, map[string]string{"name": "strada"})
	})
	r.GET("/html", func(c *Context) {
		c.HTML(http.StatusOK, "<h1>hi</h1>")
	})
	r.GET("/data", func(c *Context) {
		c.Data(http.StatusOK, "application/octet-stream", []byte{0x1, 0x2})
	})
	r.GET("/redirect", func(c *Context) {
		c.Redirect(http.StatusFound, "/elsewhere")
	})

	w := performRequest(r, http.MethodGet, "/json")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())

	w = performRequest(r, http.MethodGet, "/yaml")
	assert.Equal(t, "application/yaml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "name: strada")

	w = performRequest(r, http.MethodGet, "/html")
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	w = performRequest(r, http.MethodGet, "/data")
	assert.Equal(t, []byte{0x1, 0x2}, w.Body.Bytes())

	w = performRequest(r, http.MethodGet, "/redirect")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/elsewhere", w.Header().Get("Location"))
}

func TestHeaderStripsCRLF(t *testing.T) {
	t.Parallel()

	c := NewTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	c.Header("X-Test", "clean\r\nInjected: oops")

	w := c.Response.(*httptest.ResponseRecorder)
	assert.Equal(t, "cleanInjected: oops", w.Header().Get("X-Test"))
}

func TestContextErrorCollection(t *testing.T) {
	t.Parallel()

	c := NewTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, c.HasErrors())

	errBoom := errors.New("boom")
	assert.Equal(t, errBoom, c.Error(errBoom))
	assert.NoError(t, c.Error(nil))

	require.True(t, c.HasErrors())
	assert.Equal(t, []error{errBoom}, c.Errors())
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "203.0.113.9:4123",
			want:       "203.0.113.9",
		},
		{
			name:       "x-forwarded-for first entry",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"},
			want:       "198.51.100.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.8"},
			want:       "198.51.100.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			c := NewTestContext(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, c.ClientIP())
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?q=go&empty=", nil)
	c := NewTestContext(httptest.NewRecorder(), req)

	assert.Equal(t, "go", c.Query("q"))
	assert.Equal(t, "", c.Query("missing"))
	assert.Equal(t, "fallback", c.QueryDefault("missing", "fallback"))
	assert.Equal(t, "", c.QueryDefault("empty", "fallback"))
}
