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
	"reflect"
	"sync"
)

// middlewareNames maps a middleware function's code pointer to the
// name it was tagged with via Named. Process-wide: names are a
// property of the middleware function, not of a particular router.
var middlewareNames sync.Map // uintptr -> string

// Named tags a middleware function with a name so routes can exclude
// it with Route.WithoutMiddleware. The function is returned unchanged.
//
// The tag attaches to the function's code pointer. Closures created
// from the same literal share a pointer; give each distinct middleware
// its own function or literal when it needs its own name.
//
//	auth := strada.Named("auth", authMiddleware(cfg))
//	r.Use(auth)
//	r.GET("/health", health).WithoutMiddleware("auth")
func Named(name string, fn HandlerFunc) HandlerFunc {
	if fn == nil {
		panic("strada: Named called with nil middleware")
	}
	middlewareNames.Store(handlerPointer(fn), name)

	return fn
}

// MiddlewareName returns the name a handler was tagged with, if any.
func MiddlewareName(fn HandlerFunc) (string, bool) {
	if fn == nil {
		return "", false
	}
	if v, ok := middlewareNames.Load(handlerPointer(fn)); ok {
		return v.(string), true
	}

	return "", false
}

func handlerPointer(fn HandlerFunc) uintptr {
	return reflect.ValueOf(fn).Pointer()
}
