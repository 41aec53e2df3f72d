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

import "rivaas.dev/pattern/syntax"

// Specificity weights. The absolute values are arbitrary; what matters is
// the ordering they induce: static beats typed, typed beats plain string,
// everything beats a splat, and optionality costs.
const (
	staticScore      = 200
	strongParamScore = 120
	weakParamScore   = 50
	predicateBonus   = 10
	optionalPenalty  = 20
	segmentTiebreak  = 2
)

// score computes the specificity of a segment tree. It is a pure function
// of the AST (and the type registry's strong set) and is used only for
// ordering candidate patterns, never for match correctness.
//
// Two patterns with an identical score are a genuine ambiguity that the
// author must resolve by editing patterns; the scorer does not break such
// ties arbitrarily.
func (c *Compiler) score(segs []syntax.Segment) int {
	return c.scoreSegments(segs) + segmentTiebreak*countSegments(segs)
}

func (c *Compiler) scoreSegments(segs []syntax.Segment) int {
	total := 0
	for _, seg := range segs {
		switch s := seg.(type) {
		case *syntax.StaticSegment:
			total += staticScore
		case *syntax.ParamSegment:
			total += c.scoreParam(s)
		case *syntax.SplatSegment:
			// Splats match anything; they add no selectivity.
		case *syntax.OptionalGroup:
			total += c.scoreSegments(s.Segments) - optionalPenalty
		}
	}

	return total
}

func (c *Compiler) scoreParam(s *syntax.ParamSegment) int {
	score := weakParamScore
	if c.types.Strong(s.Type) || hasNarrowingConstraint(s.Constraints) {
		score = strongParamScore
	}
	if hasPredicate(s.Constraints) {
		score += predicateBonus
	}

	return score
}

// hasNarrowingConstraint reports whether a regex or enum constraint narrows
// the parameter enough to rank it with strongly-typed parameters.
func hasNarrowingConstraint(constraints []syntax.Constraint) bool {
	for _, c := range constraints {
		if c.Kind == syntax.Regex || c.Kind == syntax.Enum {
			return true
		}
	}

	return false
}

func hasPredicate(constraints []syntax.Constraint) bool {
	for _, c := range constraints {
		if c.Kind == syntax.Predicate {
			return true
		}
	}

	return false
}

// countSegments counts leaf segments, descending into optional groups.
func countSegments(segs []syntax.Segment) int {
	n := 0
	for _, seg := range segs {
		if g, ok := seg.(*syntax.OptionalGroup); ok {
			n += countSegments(g.Segments)

			continue
		}
		n++
	}

	return n
}
