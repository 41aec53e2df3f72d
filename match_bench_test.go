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

package pattern

import (
	"fmt"
	"testing"
)

func benchMatcher(b *testing.B, n int) *Matcher {
	b.Helper()

	c := MustNew()
	m := NewMatcher()
	for i := range n {
		p, err := c.Compile(fmt.Sprintf("/svc%d/items/«id:int»", i))
		if err != nil {
			b.Fatal(err)
		}
		if err := m.Add(p); err != nil {
			b.Fatal(err)
		}
		p, err = c.Compile(fmt.Sprintf("/svc%d/health", i))
		if err != nil {
			b.Fatal(err)
		}
		if err := m.Add(p); err != nil {
			b.Fatal(err)
		}
	}

	return m
}

func BenchmarkMatchStatic(b *testing.B) {
	m := benchMatcher(b, 50)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, ok := m.Match("/svc25/health", nil); !ok {
			b.Fatal("no match")
		}
	}
}

func BenchmarkMatchParam(b *testing.B) {
	m := benchMatcher(b, 50)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, ok := m.Match("/svc25/items/12345", nil); !ok {
			b.Fatal("no match")
		}
	}
}

func BenchmarkMatchMiss(b *testing.B) {
	m := benchMatcher(b, 50)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, ok := m.Match("/nowhere/at/all", nil); ok {
			b.Fatal("unexpected match")
		}
	}
}

func BenchmarkMatchOptional(b *testing.B) {
	c := MustNew()
	m := NewMatcher()
	p, err := c.Compile("/articles[/«category»[/«page:int=1»]]")
	if err != nil {
		b.Fatal(err)
	}
	if err := m.Add(p); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, ok := m.Match("/articles/tech/4", nil); !ok {
			b.Fatal("no match")
		}
	}
}

func BenchmarkCompile(b *testing.B) {
	c := MustNew()

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := c.Compile("/users/«id:int|min=1|max=100»?limit:int=20"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCacheHit(b *testing.B) {
	cache, err := NewCache(MustNew())
	if err != nil {
		b.Fatal(err)
	}
	if _, err := cache.Compile("/users/«id:int»"); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := cache.Compile("/users/«id:int»"); err != nil {
			b.Fatal(err)
		}
	}
}
