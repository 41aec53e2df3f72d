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
	"regexp"

	json "github.com/goccy/go-json"

	"rivaas.dev/pattern/registry"
	"rivaas.dev/pattern/syntax"
)

// ConstraintDoc is the serialized form of one compiled constraint.
type ConstraintDoc struct {
	Kind      syntax.ConstraintKind `json:"-"`
	Operator  string                `json:"op"`
	Value     any                   `json:"value"`
	Predicate bool                  `json:"predicate,omitempty"`
}

// Param is one compiled path or query parameter: its stable index, the
// resolved caster and validators, and enough serialized metadata for
// tooling. Immutable after compilation.
type Param struct {
	Index       int
	Name        string
	Type        string
	Constraints []ConstraintDoc
	Default     any
	HasDefault  bool
	Transform   string
	Optional    bool // declared inside an optional group
	Splat       bool

	caster        registry.Caster
	validators    []registry.Validator
	transform     registry.Transform
	transformArgs []string
}

// bind casts, validates, and transforms one raw value.
// The boolean result is a silent per-pattern failure signal, never an error.
func (p *Param) bind(raw string) (any, bool) {
	value, err := p.caster(raw)
	if err != nil {
		return nil, false
	}

	for _, validate := range p.validators {
		if !validate(value, raw) {
			return nil, false
		}
	}

	if p.transform != nil {
		value, err = p.transform(value, p.transformArgs...)
		if err != nil {
			return nil, false
		}
	}

	return value, true
}

// enumValues returns the value set of the first in=(...) constraint, if any.
func (p *Param) enumValues() []string {
	for _, c := range p.Constraints {
		if c.Kind == syntax.Enum {
			if vals, ok := c.Value.([]string); ok {
				return vals
			}
		}
	}

	return nil
}

// Pattern is a compiled route pattern. It is immutable after construction
// and safe to share across arbitrarily many concurrent matchers and cache
// entries without synchronization.
type Pattern struct {
	raw          string
	file         string
	span         syntax.Span
	segments     []syntax.Segment
	staticPrefix string
	params       []*Param
	paramsByName map[string]*Param
	query        []*Param
	queryByName  map[string]*Param
	specificity  int
	regex        *regexp.Regexp
	regexGroups  []*Param
	openapi      []ParamDoc
	isStatic     bool
	pathHash     uint64
}

// Raw returns the original pattern source string.
func (p *Pattern) Raw() string { return p.raw }

// File returns the source file the pattern was attributed to, if any.
func (p *Pattern) File() string { return p.file }

// StaticPrefix returns the longest literal-only leading path.
func (p *Pattern) StaticPrefix() string { return p.staticPrefix }

// Specificity returns the pattern's ranking score. Higher sorts first.
func (p *Pattern) Specificity() int { return p.specificity }

// IsStatic reports whether the pattern contains no parameters at all.
func (p *Pattern) IsStatic() bool { return p.isStatic }

// HasRegex reports whether a regex was synthesized for matching.
// Only patterns containing optional groups carry one.
func (p *Pattern) HasRegex() bool { return p.regex != nil }

// Param returns the compiled path parameter with the given name.
func (p *Pattern) Param(name string) (*Param, bool) {
	param, ok := p.paramsByName[name]

	return param, ok
}

// Params returns the compiled path parameters in index order.
// The returned slice is a copy.
func (p *Pattern) Params() []*Param {
	out := make([]*Param, len(p.params))
	copy(out, p.params)

	return out
}

// QueryParams returns the compiled query parameters in declaration order.
// The returned slice is a copy.
func (p *Pattern) QueryParams() []*Param {
	out := make([]*Param, len(p.query))
	copy(out, p.query)

	return out
}

// ToOpenAPI returns per-parameter OpenAPI fragments for this pattern.
// The returned slice is a copy.
func (p *Pattern) ToOpenAPI() []ParamDoc {
	out := make([]ParamDoc, len(p.openapi))
	copy(out, p.openapi)

	return out
}

// ToDict serializes the pattern into a JSON-compatible structure:
//
//	{raw, file, span, static_prefix, segments, params, query, specificity, openapi}
//
// This is the stable contract consumed by route inspectors and client-SDK
// generators; field names and shapes do not change between releases.
func (p *Pattern) ToDict() map[string]any {
	params := make(map[string]any, len(p.params))
	for _, param := range p.params {
		params[param.Name] = serializeParam(param)
	}
	query := make(map[string]any, len(p.query))
	for _, param := range p.query {
		query[param.Name] = serializeParam(param)
	}

	return map[string]any{
		"raw":           p.raw,
		"file":          p.file,
		"span":          p.span,
		"static_prefix": p.staticPrefix,
		"segments":      serializeSegments(p.segments),
		"params":        params,
		"query":         query,
		"specificity":   p.specificity,
		"openapi":       p.openapi,
	}
}

// ToJSON serializes the pattern via ToDict.
func (p *Pattern) ToJSON() ([]byte, error) {
	return json.Marshal(p.ToDict())
}

// MarshalJSON implements json.Marshaler via ToDict.
func (p *Pattern) MarshalJSON() ([]byte, error) {
	return p.ToJSON()
}

func serializeParam(p *Param) map[string]any {
	out := map[string]any{
		"index": p.Index,
		"name":  p.Name,
		"type":  p.Type,
	}
	if len(p.Constraints) > 0 {
		out["constraints"] = p.Constraints
	}
	if p.HasDefault {
		out["default"] = p.Default
	}
	if p.Transform != "" {
		out["transform"] = p.Transform
	}
	if p.Optional {
		out["optional"] = true
	}
	if p.Splat {
		out["splat"] = true
	}

	return out
}

func serializeSegments(segs []syntax.Segment) []map[string]any {
	out := make([]map[string]any, 0, len(segs))
	for _, seg := range segs {
		switch s := seg.(type) {
		case *syntax.StaticSegment:
			out = append(out, map[string]any{"kind": "static", "value": s.Value})
		case *syntax.ParamSegment:
			out = append(out, map[string]any{"kind": "param", "name": s.Name, "type": s.Type})
		case *syntax.SplatSegment:
			out = append(out, map[string]any{"kind": "splat", "name": s.Name, "type": s.Type})
		case *syntax.OptionalGroup:
			out = append(out, map[string]any{"kind": "optional", "segments": serializeSegments(s.Segments)})
		}
	}

	return out
}
