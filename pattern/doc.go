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

// Package pattern compiles route templates into matchable programs.
//
// A template is a slash-separated path where each segment is either
// literal text or a parameter form:
//
//	/users/{id:int}          typed parameter
//	/posts/{slug}            untyped parameter, matches [^/]+
//	/archive/{year?}         optional trailing parameter
//	/files/{*path}           terminal wildcard, binds the remainder
//
// Parameter types live in a TypeRegistry. The built-ins cover the
// common shapes (int, double, uuid, slug, email, url, ip, word,
// string) and applications may register their own or override a
// built-in before the router starts serving; the last registration
// for a name wins.
//
// Compilation happens once at route registration and reports template
// mistakes as *PatternError. Matching a request never re-parses the
// template and a failed type validation is an ordinary non-match, so
// callers can keep probing less specific candidates.
package pattern
