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

package syntax

// PatternAST is the parsed form of one pattern source string.
// It is a pure tree: produced once by Parse, never mutated afterwards, and
// owned exclusively by the caller until handed to a compiler.
type PatternAST struct {
	Raw      string
	Segments []Segment
	Query    []QueryParam
	Span     Span
}

// Segment is the closed set of path segment kinds. Exactly four types
// implement it: *StaticSegment, *ParamSegment, *SplatSegment and
// *OptionalGroup. Tree-walking code switches exhaustively over these.
type Segment interface {
	Span() Span

	// isSegment seals the interface to this package's variants.
	isSegment()
}

// StaticSegment is literal path text that must match exactly.
// The parser merges adjacent static runs into a single segment.
type StaticSegment struct {
	Value string
	Pos   Span
}

func (s *StaticSegment) Span() Span { return s.Pos }
func (s *StaticSegment) isSegment() {}

// ParamSegment is a named, typed path parameter: «name:type|constraints=default@transform».
type ParamSegment struct {
	Name          string
	Type          string // registered type caster name; "str" when omitted
	Constraints   []Constraint
	Default       any
	HasDefault    bool
	Transform     string // registered transform name, empty when absent
	TransformArgs []string
	Pos           Span
}

func (s *ParamSegment) Span() Span { return s.Pos }
func (s *ParamSegment) isSegment() {}

// SplatSegment captures all remaining path segments: *name or *name:type.
// With the default "path" type the captured segments are joined with '/';
// the "list" type yields them as a slice.
type SplatSegment struct {
	Name string
	Type string
	Pos  Span
}

func (s *SplatSegment) Span() Span { return s.Pos }
func (s *SplatSegment) isSegment() {}

// OptionalGroup wraps segments that may be entirely absent from a matching
// path. Groups nest.
type OptionalGroup struct {
	Segments []Segment
	Pos      Span
}

func (s *OptionalGroup) Span() Span { return s.Pos }
func (s *OptionalGroup) isSegment() {}

// QueryParam mirrors ParamSegment for the query string.
type QueryParam struct {
	Name        string
	Type        string
	Constraints []Constraint
	Default     any
	HasDefault  bool
	Pos         Span
}

// ConstraintKind identifies a constraint operator class.
type ConstraintKind uint8

const (
	Min ConstraintKind = iota + 1
	Max
	Regex
	Enum
	Predicate
)

// String returns the canonical operator spelling for the kind.
func (k ConstraintKind) String() string {
	switch k {
	case Min:
		return "min"
	case Max:
		return "max"
	case Regex:
		return "re"
	case Enum:
		return "in"
	case Predicate:
		return "predicate"
	}

	return "unknown"
}

// Constraint is one parsed constraint clause.
//
// Value holds the parsed argument: int64/float64 for min/max, string for
// re and predicates, []string for in=(...). The parser records whatever
// literal it saw; validating the value against the operator is the
// compiler's job, so that e.g. a non-numeric min is a semantic error rather
// than a syntax error.
type Constraint struct {
	Kind  ConstraintKind
	Name  string // operator name as written, significant for predicates
	Value any
	Pos   Span
}
