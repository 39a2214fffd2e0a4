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
	"sync"
)

// contextPool recycles Contexts across requests. Shared by all routers
// in the process; a Context carries its router reference per request.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{index: -1}
	},
}

// acquireContext takes a reset Context from the pool.
func acquireContext() *Context {
	return contextPool.Get().(*Context)
}

// releaseContext returns a Context to the pool. Callers must not touch
// the Context afterwards.
func releaseContext(c *Context) {
	c.reset()
	contextPool.Put(c)
}

// NewTestContext returns an unpooled Context bound to the given
// request and writer, for exercising handlers in tests without a
// router.
func NewTestContext(w http.ResponseWriter, req *http.Request) *Context {
	c := &Context{index: -1}
	c.Request = req
	c.Response = w
	c.logger = noopLogger

	return c
}
