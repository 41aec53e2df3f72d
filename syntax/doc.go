// Copyright 2025 The Rivaas Authors
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

// Package syntax tokenizes and parses the route pattern DSL.
//
// A pattern describes a URL path with typed, constrained, optional and
// variadic parameters:
//
//	/users/«id:int|min=1»
//	/files/*path
//	/docs[/«lang:str»]/page
//	/search?q:str&limit:int=20
//
// Tokenize turns a source string into a token stream with source spans;
// Parse builds a typed AST from that stream. Both are pure functions: the
// same input always yields the same output, they perform no I/O, and they
// are safe to call concurrently for different inputs.
//
// The parameter delimiter pair is configurable (see WithDelimiters) and
// defaults to '«' and '»'. Semantic validation (duplicate names, unknown
// types, constraint value checks) is deliberately not performed here; the
// parser accepts any syntactically well-formed pattern and leaves meaning
// to the compiler in the parent package.
package syntax
