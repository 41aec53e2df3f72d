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

// maxShapeVariants bounds optional-group expansion during overlap
// analysis. Patterns stacking enough optionals to exceed it are treated
// as overlapping, erring toward rejection.
const maxShapeVariants = 64

// shapesOverlap conservatively reports whether two patterns can accept a
// common path. Optional groups are expanded into their fixed-shape
// variants and every pair is compared position by position. False
// positives are acceptable (the author gets asked to disambiguate);
// false negatives are not.
func shapesOverlap(a, b *Pattern) bool {
	va, okA := shapeVariants(a.segments)
	vb, okB := shapeVariants(b.segments)
	if !okA || !okB {
		return true
	}

	for _, sa := range va {
		for _, sb := range vb {
			if variantsOverlap(sa, a, sb, b) {
				return true
			}
		}
	}

	return false
}

// shapeVariants expands optional groups into every fixed segment list
// the pattern can present. The boolean is false when the expansion
// exceeds maxShapeVariants.
func shapeVariants(segs []syntax.Segment) ([][]syntax.Segment, bool) {
	out := [][]syntax.Segment{nil}
	for _, seg := range segs {
		group, ok := seg.(*syntax.OptionalGroup)
		if !ok {
			for i := range out {
				out[i] = appendSegment(out[i], seg)
			}

			continue
		}

		sub, subOK := shapeVariants(group.Segments)
		if !subOK {
			return nil, false
		}

		next := make([][]syntax.Segment, 0, len(out)*(len(sub)+1))
		for _, variant := range out {
			next = append(next, variant)
			for _, sv := range sub {
				withGroup := make([]syntax.Segment, 0, len(variant)+len(sv))
				withGroup = append(withGroup, variant...)
				withGroup = append(withGroup, sv...)
				next = append(next, withGroup)
			}
		}
		if len(next) > maxShapeVariants {
			return nil, false
		}
		out = next
	}

	return out, true
}

// appendSegment appends without sharing backing arrays between variants.
func appendSegment(variant []syntax.Segment, seg syntax.Segment) []syntax.Segment {
	out := make([]syntax.Segment, 0, len(variant)+1)
	out = append(out, variant...)

	return append(out, seg)
}

// variantsOverlap compares two fixed-shape segment lists position by
// position. Reaching a splat on either side means the remainder can
// always collide.
func variantsOverlap(sa []syntax.Segment, pa *Pattern, sb []syntax.Segment, pb *Pattern) bool {
	for i := 0; ; i++ {
		aEnd, bEnd := i >= len(sa), i >= len(sb)
		if aEnd && bEnd {
			return true
		}
		if aEnd || bEnd {
			return false
		}
		if isSplat(sa[i]) || isSplat(sb[i]) {
			return true
		}
		if !segmentsCompatible(sa[i], pa, sb[i], pb) {
			return false
		}
	}
}

func isSplat(seg syntax.Segment) bool {
	_, ok := seg.(*syntax.SplatSegment)

	return ok
}

// segmentsCompatible reports whether two aligned segments can accept the
// same path component. Literal-vs-param compatibility is decided by
// actually running the parameter's caster and validators on the literal;
// param-vs-param falls back to a type disjointness check, testing enum
// values against the other side where available.
func segmentsCompatible(sa syntax.Segment, pa *Pattern, sb syntax.Segment, pb *Pattern) bool {
	staticA, aIsStatic := sa.(*syntax.StaticSegment)
	staticB, bIsStatic := sb.(*syntax.StaticSegment)

	switch {
	case aIsStatic && bIsStatic:
		return staticA.Value == staticB.Value
	case aIsStatic:
		return paramAccepts(pb, sb, staticA.Value)
	case bIsStatic:
		return paramAccepts(pa, sa, staticB.Value)
	}

	paramA := sa.(*syntax.ParamSegment)
	paramB := sb.(*syntax.ParamSegment)

	if vals := enumValuesOf(pa, paramA.Name); vals != nil {
		return anyAccepted(pb, sb, vals)
	}
	if vals := enumValuesOf(pb, paramB.Name); vals != nil {
		return anyAccepted(pa, sa, vals)
	}

	return !typesDisjoint(paramA.Type, paramB.Type)
}

func paramAccepts(p *Pattern, seg syntax.Segment, literal string) bool {
	ps, ok := seg.(*syntax.ParamSegment)
	if !ok {
		return true
	}
	param, ok := p.paramsByName[ps.Name]
	if !ok {
		return true
	}
	_, accepted := param.bind(literal)

	return accepted
}

func anyAccepted(p *Pattern, seg syntax.Segment, values []string) bool {
	for _, v := range values {
		if paramAccepts(p, seg, v) {
			return true
		}
	}

	return false
}

func enumValuesOf(p *Pattern, name string) []string {
	param, ok := p.paramsByName[name]
	if !ok {
		return nil
	}

	return param.enumValues()
}

// typesDisjoint reports whether two parameter types have provably
// disjoint value spaces. Only a few built-in formats qualify; anything
// string-like (including custom types) is treated as overlapping.
func typesDisjoint(a, b string) bool {
	ca, cb := typeClass(a), typeClass(b)
	if ca == "" || cb == "" {
		return false
	}

	return ca != cb
}

func typeClass(typ string) string {
	switch typ {
	case "int", "float", "bool":
		// "1" parses as all three.
		return "scalar"
	case "uuid":
		return "uuid"
	case "date":
		return "date"
	case "datetime":
		return "datetime"
	default:
		return ""
	}
}
