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

// Schema is the JSON-schema fragment describing one parameter's value.
// Range constraints land in minimum/maximum for numeric types and
// minLength/maxLength for string types, matching OpenAPI semantics.
type Schema struct {
	Type      string   `json:"type,omitempty"`
	Format    string   `json:"format,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Enum      []string `json:"enum,omitempty"`
	Default   any      `json:"default,omitempty"`
}

// ParamDoc is one OpenAPI parameter fragment. The external documentation
// assembler consumes these; this package never builds whole documents.
type ParamDoc struct {
	Name     string `json:"name"`
	In       string `json:"in"` // "path" or "query"
	Required bool   `json:"required"`
	Schema   Schema `json:"schema"`
}

// schemaType maps a registered type name to its JSON-schema type/format.
// Unregistered custom types document as plain strings.
func schemaType(typ string) (string, string) {
	switch typ {
	case "int":
		return "integer", ""
	case "float":
		return "number", ""
	case "bool":
		return "boolean", ""
	case "uuid":
		return "string", "uuid"
	case "date":
		return "string", "date"
	case "datetime":
		return "string", "date-time"
	case "list":
		return "array", ""
	default:
		return "string", ""
	}
}

func buildOpenAPI(p *Pattern) []ParamDoc {
	docs := make([]ParamDoc, 0, len(p.params)+len(p.query))
	for _, param := range p.params {
		docs = append(docs, buildParamDoc(param, "path"))
	}
	for _, param := range p.query {
		docs = append(docs, buildParamDoc(param, "query"))
	}

	return docs
}

func buildParamDoc(p *Param, in string) ParamDoc {
	typ, format := schemaType(p.Type)
	numeric := typ == "integer" || typ == "number"

	schema := Schema{Type: typ, Format: format}
	if p.HasDefault {
		schema.Default = p.Default
	}

	for _, c := range p.Constraints {
		switch c.Kind {
		case syntax.Min:
			if bound, ok := toFloat(c.Value); ok {
				if numeric {
					schema.Minimum = &bound
				} else {
					n := int(bound)
					schema.MinLength = &n
				}
			}
		case syntax.Max:
			if bound, ok := toFloat(c.Value); ok {
				if numeric {
					schema.Maximum = &bound
				} else {
					n := int(bound)
					schema.MaxLength = &n
				}
			}
		case syntax.Regex:
			if src, ok := c.Value.(string); ok {
				schema.Pattern = src
			}
		case syntax.Enum:
			if vals, ok := c.Value.([]string); ok {
				schema.Enum = vals
			}
		case syntax.Predicate:
			// Predicates are host code; they have no schema representation.
		}
	}

	required := false
	if in == "path" {
		required = !p.Optional && !p.HasDefault
	} else {
		required = !p.HasDefault
	}

	return ParamDoc{Name: p.Name, In: in, Required: required, Schema: schema}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}
