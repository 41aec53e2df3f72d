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
	"net/url"
	"sort"
	"strings"
	"sync"

	"rivaas.dev/pattern/syntax"
)

// MatchResult is the outcome of a successful match: the winning pattern
// and the bound parameter values, casted and transformed.
type MatchResult struct {
	Pattern *Pattern
	Params  map[string]any
	Query   map[string]any
}

// Matcher holds a set of compiled patterns and resolves request paths
// against them in specificity order.
//
// Add and Match may be called concurrently; registration is expected to
// be rare relative to matching, so Add pays for ordering and index
// rebuilds while Match stays read-only.
type Matcher struct {
	mu          sync.RWMutex
	patterns    []*Pattern
	statics     map[uint64]*Pattern
	bloom       *bloomFilter
	diagnostics DiagnosticHandler
}

// NewMatcher creates an empty Matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		statics: make(map[uint64]*Pattern),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Add registers a compiled pattern.
//
// If the new pattern scores identically to an already-registered one and
// the two can accept a common path, Add rejects it with a *CompileError
// of kind "ambiguity": ties are never broken silently, the author must
// edit one of the patterns.
func (m *Matcher) Add(p *Pattern) error {
	if p == nil {
		return ErrNilPattern
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.patterns {
		if existing.specificity != p.specificity {
			continue
		}
		if existing.raw == p.raw || shapesOverlap(existing, p) {
			msg := fmt.Sprintf("pattern %q is ambiguous with %q (specificity %d)",
				p.raw, existing.raw, p.specificity)
			emit(m.diagnostics, DiagAmbiguityRejected, msg, map[string]any{
				"pattern":  p.raw,
				"existing": existing.raw,
			})

			return &CompileError{
				Kind:        KindAmbiguity,
				Message:     msg,
				Span:        p.span,
				File:        p.file,
				Suggestions: ambiguitySuggestions(existing, p),
				err:         ErrAmbiguousPatterns,
			}
		}
	}

	// Insert keeping the scan order: specificity descending, raw source
	// ascending among distinct scores for deterministic iteration.
	idx := sort.Search(len(m.patterns), func(i int) bool {
		if m.patterns[i].specificity != p.specificity {
			return m.patterns[i].specificity < p.specificity
		}

		return m.patterns[i].raw > p.raw
	})
	m.patterns = append(m.patterns, nil)
	copy(m.patterns[idx+1:], m.patterns[idx:])
	m.patterns[idx] = p

	if p.isStatic {
		m.statics[p.pathHash] = p
		m.rebuildBloom()
	}

	return nil
}

// rebuildBloom resizes the static-path bloom filter for the current
// entry count. Called under the write lock.
func (m *Matcher) rebuildBloom() {
	bf := newBloomFilter(bloomSizeFor(len(m.statics)), bloomHashFunctions)
	for hash := range m.statics {
		bf.add(hash)
	}
	m.bloom = bf
}

// Len returns the number of registered patterns.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.patterns)
}

// Patterns returns the registered patterns in match order.
// The returned slice is a copy.
func (m *Matcher) Patterns() []*Pattern {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Pattern, len(m.patterns))
	copy(out, m.patterns)

	return out
}

// Match resolves a request path (and optional query values) against the
// registered patterns. Candidates are tried most-specific first; the
// first pattern whose casts, constraints, and required query parameters
// all succeed wins. Per-pattern failures are silent.
//
// A trailing slash is normalized away before matching, so "/users" and
// "/users/" resolve identically.
func (m *Matcher) Match(path string, query url.Values) (*MatchResult, bool) {
	path = normalizePath(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Static fast path: one hash probe, guarded by the bloom filter so
	// misses cost a few bit tests. The hit is not returned immediately:
	// a higher-specificity pattern (an optional group expanding to more
	// segments) must still win, so the hit is tried at its score band
	// inside the ordered scan.
	pathHash := hashPath(path)
	staticPossible := m.bloom != nil && m.bloom.test(pathHash)

	var staticHit *Pattern
	if staticPossible {
		if sp, ok := m.statics[pathHash]; ok && sp.staticPrefix == path {
			staticHit = sp
		}
	}

	var tried *Pattern
	for _, p := range m.patterns {
		if staticHit != nil && p.specificity <= staticHit.specificity {
			if res, ok := m.attempt(staticHit, path, query); ok {
				return res, true
			}
			tried, staticHit = staticHit, nil
		}
		if p == tried {
			continue
		}
		if p.isStatic && !staticPossible {
			continue
		}
		if res, ok := m.attempt(p, path, query); ok {
			return res, true
		}
	}

	return nil, false
}

// attempt tries a single pattern against the normalized path.
func (m *Matcher) attempt(p *Pattern, path string, query url.Values) (*MatchResult, bool) {
	if p.staticPrefix != "" && !strings.HasPrefix(path, p.staticPrefix) {
		return nil, false
	}

	params, ok := bindPath(p, path)
	if !ok {
		return nil, false
	}

	queryParams := make(map[string]any, len(p.query))
	for _, qp := range p.query {
		vals := query[qp.Name]
		switch {
		case len(vals) > 0:
			value, ok := qp.bind(vals[0])
			if !ok {
				return nil, false
			}
			queryParams[qp.Name] = value
		case qp.HasDefault:
			queryParams[qp.Name] = qp.Default
		default:
			// Declared without a default means required.
			return nil, false
		}
	}

	return &MatchResult{Pattern: p, Params: params, Query: queryParams}, true
}

// bindPath resolves the path parameters of one pattern, or reports that
// the pattern does not accept the path.
//
// Patterns with optional groups go through the synthesized regex first.
// The regex is greedy and cannot know that a captured group will fail a
// cast or constraint, so on a bind failure bindPath retries with the
// segment walk, which backtracks into the group-skipped shape. A path
// the regex rejects structurally is rejected outright.
func bindPath(p *Pattern, path string) (map[string]any, bool) {
	if p.regex != nil {
		sub := p.regex.FindStringSubmatch(path)
		if sub == nil {
			return nil, false
		}
		params := make(map[string]any, len(p.params))
		bound := true
		for i, param := range p.regexGroups {
			raw := sub[i+1]
			if raw == "" {
				// Group inside an unmatched optional: bind the default
				// if one was declared, otherwise the parameter is absent.
				if param.HasDefault {
					params[param.Name] = param.Default
				}

				continue
			}
			value, ok := param.bind(raw)
			if !ok {
				bound = false

				break
			}
			params[param.Name] = value
		}
		if bound {
			return params, true
		}
	}

	binds, ok := matchSegments(p, p.segments, splitPath(path))
	if !ok {
		return nil, false
	}

	params := make(map[string]any, len(p.params))
	for _, b := range binds {
		params[b.param.Name] = b.value
	}
	for _, param := range p.params {
		if _, seen := params[param.Name]; !seen && param.HasDefault {
			params[param.Name] = param.Default
		}
	}

	return params, true
}

// paramBind pairs a parameter with the value it captured.
type paramBind struct {
	param *Param
	value any
}

// matchSegments walks pattern segments against path components.
// Optional groups are expanded by concatenation: first with the group's
// contents spliced in, then without. Casts and constraints run during
// the walk, so a failure inside a spliced group backtracks into the
// group-skipped alternative instead of failing the pattern.
func matchSegments(p *Pattern, segs []syntax.Segment, parts []string) ([]paramBind, bool) {
	if len(segs) == 0 {
		return nil, len(parts) == 0
	}

	head, rest := segs[0], segs[1:]
	switch s := head.(type) {
	case *syntax.StaticSegment:
		if len(parts) == 0 || parts[0] != s.Value {
			return nil, false
		}

		return matchSegments(p, rest, parts[1:])

	case *syntax.ParamSegment:
		if len(parts) == 0 {
			return nil, false
		}
		param := p.paramsByName[s.Name]
		value, ok := param.bind(parts[0])
		if !ok {
			return nil, false
		}
		binds, ok := matchSegments(p, rest, parts[1:])
		if !ok {
			return nil, false
		}

		return append([]paramBind{{param, value}}, binds...), true

	case *syntax.SplatSegment:
		// Final position is guaranteed at compile time. A splat consumes
		// at least one component.
		if len(parts) == 0 {
			return nil, false
		}
		param := p.paramsByName[s.Name]
		value, ok := param.bind(strings.Join(parts, "/"))
		if !ok {
			return nil, false
		}

		return []paramBind{{param, value}}, true

	case *syntax.OptionalGroup:
		expanded := make([]syntax.Segment, 0, len(s.Segments)+len(rest))
		expanded = append(expanded, s.Segments...)
		expanded = append(expanded, rest...)
		if binds, ok := matchSegments(p, expanded, parts); ok {
			return binds, true
		}

		return matchSegments(p, rest, parts)
	}

	return nil, false
}

// normalizePath guarantees a leading slash and strips a single trailing
// slash so "/users" and "/users/" are the same path. The root "/" is
// left alone.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return path
}

// splitPath breaks a normalized path into components. The root path has
// no components.
func splitPath(path string) []string {
	if path == "/" {
		return nil
	}

	return strings.Split(path[1:], "/")
}
