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

// Package pattern compiles route pattern strings into immutable, typed
// matchers.
//
// A pattern describes one URL path shape with typed, constrained,
// transformable parameters:
//
//	/users/«id:int|min=1»
//	/files/*filepath
//	/articles[/«category»[/«page:int=1»]]
//	/search?q:str&limit:int=20
//
// Compile once, match many:
//
//	c := pattern.MustNew()
//	p, err := c.Compile("/users/«id:int|min=1»")
//	if err != nil {
//	    var ce *pattern.CompileError
//	    if errors.As(err, &ce) {
//	        log.Fatalf("%s (suggestions: %v)", ce.Message, ce.Suggestions)
//	    }
//	    log.Fatal(err)
//	}
//
//	m := pattern.NewMatcher()
//	_ = m.Add(p)
//	if res, ok := m.Match("/users/42", nil); ok {
//	    id := res.Params["id"].(int) // casted, validated
//	    _ = id
//	}
//
// The Matcher resolves paths most-specific first: static segments beat
// typed parameters, typed parameters beat plain ones, and splats come
// last. Two patterns that score identically and can accept a common path
// are rejected at Add time rather than ordered arbitrarily.
//
// Compilation is deterministic and patterns are immutable, so compiled
// patterns can be shared freely. Wrap the compiler in a Cache to memoize
// hot pattern sources with LRU and TTL policies and hit/miss accounting.
//
// Compile failures are returned as *CompileError values carrying the
// error kind, the exact source span, and ranked repair suggestions.
package pattern
