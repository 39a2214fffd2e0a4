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

import "net/http"

// Static serves files from fsys under prefix, registered as a
// wildcard route. Directory listings follow http.FileServer rules, so
// pass an http.FS wrapping fs.Sub output to hide the on-disk layout.
//
//	r.Static("/assets", http.Dir("./public"))
func (g *Group) Static(prefix string, fsys http.FileSystem) *Route {
	server := http.StripPrefix(joinPaths(g.prefix, prefix), http.FileServer(fsys))

	return g.GET(prefix+"/{*filepath}", func(c *Context) {
		server.ServeHTTP(c.Response, c.Request)
	})
}

// Static registers a file server on the router's root group.
func (r *Router) Static(prefix string, fsys http.FileSystem) *Route {
	return r.root.Static(prefix, fsys)
}

// StaticFile serves a single file at path.
//
//	r.StaticFile("/favicon.ico", "./public/favicon.ico")
func (r *Router) StaticFile(path, file string) *Route {
	return r.GET(path, func(c *Context) {
		http.ServeFile(c.Response, c.Request, file)
	})
}
