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

package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strada-dev/strada"
	"github.com/strada-dev/strada/pattern"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	assert.NotNil(t, r.Handler())
}

func TestNewRejectsEmptyServiceName(t *testing.T) {
	t.Parallel()

	_, err := New(WithServiceName(""))
	require.Error(t, err)
}

func TestRecorderLabelsRouteTemplate(t *testing.T) {
	t.Parallel()

	registry := promclient.NewRegistry()
	rec, err := New(
		WithServiceName("metrics-test"),
		WithPrometheusRegistry(registry),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	router := strada.MustNew(
		strada.WithTypeRegistry(pattern.NewTypeRegistry()),
		strada.WithObservability(rec),
	)
	router.GET("/users/{id:int}", func(c *strada.Context) {
		c.String(http.StatusOK, "hello")
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var sawTemplate bool
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "http_route" {
					// The label is the template, not the concrete path.
					assert.Equal(t, "/users/{id:int}", lp.GetValue())
					sawTemplate = true
				}
				assert.NotEqual(t, "/users/42", lp.GetValue())
			}
		}
	}
	assert.True(t, sawTemplate, "expected an http_route label on gathered metrics")
}

func TestRecorderUnmatchedRoute(t *testing.T) {
	t.Parallel()

	registry := promclient.NewRegistry()
	rec, err := New(
		WithServiceName("metrics-test"),
		WithPrometheusRegistry(registry),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	router := strada.MustNew(
		strada.WithTypeRegistry(pattern.NewTypeRegistry()),
		strada.WithObservability(rec),
	)

	req := httptest.NewRequest(http.MethodGet, "/definitely/missing", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	families, err := registry.Gather()
	require.NoError(t, err)

	var sawUnmatched bool
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "http_route" && lp.GetValue() == "_unmatched" {
					sawUnmatched = true
				}
			}
		}
	}
	assert.True(t, sawUnmatched, "unmatched requests should record under the _unmatched label")
}

func TestBuildRequestLogger(t *testing.T) {
	t.Parallel()

	rec, err := New(WithServiceName("metrics-test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	logger := rec.BuildRequestLogger(context.Background(), req, "/users/{id:int}")
	assert.NotNil(t, logger)
}
