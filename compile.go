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
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"rivaas.dev/pattern/registry"
	"rivaas.dev/pattern/syntax"
)

// Compiler turns pattern source strings into immutable Patterns.
//
// A Compiler is cheap to construct and safe for concurrent use: every
// Compile call produces a fresh, independent Pattern, and the registries
// it resolves against are only read. Construct one per process (or one per
// delimiter convention) and share it.
type Compiler struct {
	types       *registry.Types
	constraints *registry.Constraints
	transforms  *registry.Transforms
	open        rune
	close       rune
	file        string
	suggest     bool
	diagnostics DiagnosticHandler

	// contextKey fingerprints the compile context (delimiters plus
	// registered names) so caches keyed on it never serve a pattern
	// compiled under a different configuration. Captured at construction.
	contextKey uint64
}

// New creates a Compiler with the given options.
// Without options it uses the built-in registries and the default '«'/'»'
// parameter delimiters.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{
		types:       registry.NewTypes(),
		constraints: registry.NewConstraints(),
		transforms:  registry.NewTransforms(),
		open:        syntax.DefaultOpenDelimiter,
		close:       syntax.DefaultCloseDelimiter,
		suggest:     true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.open == c.close || isStructural(c.open) || isStructural(c.close) {
		return nil, ErrDelimitersInvalid
	}

	c.contextKey = c.computeContextKey()

	return c, nil
}

// MustNew is like New but panics on invalid configuration.
// Use for static initialization where the options are compile-time
// constants.
func MustNew(opts ...Option) *Compiler {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("pattern: %v", err))
	}

	return c
}

// isStructural reports whether the rune already has a lexical meaning in
// the grammar and therefore cannot serve as a parameter delimiter.
func isStructural(r rune) bool {
	return strings.ContainsRune(`/[]()*:|=@,&?"'`, r) || r == 0
}

func (c *Compiler) computeContextKey() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(c.open))
	_, _ = d.WriteString(string(c.close))
	for _, name := range c.types.Names() {
		_, _ = d.WriteString("t:" + name)
	}
	for _, name := range c.constraints.Names() {
		_, _ = d.WriteString("c:" + name)
	}
	for _, name := range c.transforms.Names() {
		_, _ = d.WriteString("x:" + name)
	}

	return d.Sum64()
}

// ContextKey returns the fingerprint of this compiler's configuration.
// Caches mix it into entry keys so the same source string compiled by
// differently-configured compilers never collides.
func (c *Compiler) ContextKey() uint64 {
	return c.contextKey
}

// Compile parses, validates, and compiles one pattern source string.
//
// Failures are returned as a *CompileError carrying the error kind, the
// offending span, and (unless disabled) ranked repair suggestions.
// Compiling the same source twice yields equivalent Patterns; the call has
// no side effects beyond the optional diagnostic event.
func (c *Compiler) Compile(src string) (*Pattern, error) {
	ast, err := syntax.Parse(src, syntax.WithDelimiters(c.open, c.close))
	if err != nil {
		serr, ok := err.(*syntax.Error)
		if !ok {
			return nil, err
		}

		return nil, c.fail(&CompileError{
			Kind:    syntaxErrorKind(serr),
			Message: serr.Message,
			Span:    serr.Span,
			File:    c.file,
			err:     serr,
		}, suggestContext{code: serr.Code})
	}

	p, cerr := c.compileAST(ast)
	if cerr != nil {
		return nil, cerr
	}

	return p, nil
}

func syntaxErrorKind(err *syntax.Error) ErrorKind {
	if err.Kind == syntax.KindLex {
		return KindLex
	}

	return KindSyntax
}

// fail finalizes a CompileError: attaches suggestions and reports the
// diagnostic event.
func (c *Compiler) fail(ce *CompileError, sctx suggestContext) *CompileError {
	if c.suggest {
		ce.Suggestions = c.suggestions(ce, sctx)
	}
	emit(c.diagnostics, DiagCompileFailed, ce.Message, map[string]any{
		"kind": string(ce.Kind),
		"line": ce.Span.Line,
		"col":  ce.Span.Column,
		"file": ce.File,
	})

	return ce
}

// semanticErr builds a semantic CompileError wrapping a sentinel.
func (c *Compiler) semanticErr(sentinel error, span syntax.Span, sctx suggestContext, format string, args ...any) *CompileError {
	return c.fail(&CompileError{
		Kind:    KindSemantic,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
		File:    c.file,
		err:     sentinel,
	}, sctx)
}

// compileAST runs the semantic passes over a parsed pattern, in order:
// parameter indexing and registry resolution, duplicate detection, static
// prefix extraction, specificity scoring, regex synthesis (only when an
// optional group is present), and OpenAPI fragment generation.
func (c *Compiler) compileAST(ast *syntax.PatternAST) (*Pattern, *CompileError) {
	p := &Pattern{
		raw:          ast.Raw,
		file:         c.file,
		span:         ast.Span,
		segments:     ast.Segments,
		paramsByName: make(map[string]*Param),
		queryByName:  make(map[string]*Param),
	}

	seenSplat := false
	var walk func(segs []syntax.Segment, optional bool) *CompileError
	walk = func(segs []syntax.Segment, optional bool) *CompileError {
		for _, seg := range segs {
			if seenSplat {
				return c.semanticErr(ErrSplatNotLast, seg.Span(), suggestContext{},
					"splat must be the final segment")
			}

			switch s := seg.(type) {
			case *syntax.StaticSegment:
				// Nothing to resolve.
			case *syntax.ParamSegment:
				param, err := c.buildParam(p, s.Name, s.Type, s.Constraints,
					s.Default, s.HasDefault, s.Transform, s.TransformArgs,
					optional, false, s.Pos)
				if err != nil {
					return err
				}
				p.params = append(p.params, param)
				p.paramsByName[param.Name] = param
			case *syntax.SplatSegment:
				param, err := c.buildParam(p, s.Name, s.Type, nil,
					nil, false, "", nil, optional, true, s.Pos)
				if err != nil {
					return err
				}
				p.params = append(p.params, param)
				p.paramsByName[param.Name] = param
				seenSplat = true
			case *syntax.OptionalGroup:
				if err := walk(s.Segments, true); err != nil {
					return err
				}
			}
		}

		return nil
	}

	if err := walk(ast.Segments, false); err != nil {
		return nil, err
	}

	for i := range ast.Query {
		qp := &ast.Query[i]
		if _, dup := p.queryByName[qp.Name]; dup {
			return nil, c.semanticErr(ErrDuplicateParam, qp.Pos,
				suggestContext{name: qp.Name},
				"duplicate parameter name %q", qp.Name)
		}
		param, err := c.buildQueryParam(p, qp)
		if err != nil {
			return nil, err
		}
		p.query = append(p.query, param)
		p.queryByName[param.Name] = param
	}

	p.staticPrefix = staticPrefix(ast.Segments)
	p.isStatic = isFullyStatic(ast.Segments)
	if p.isStatic {
		p.pathHash = hashPath(p.staticPrefix)
	}
	p.specificity = c.score(ast.Segments)

	if containsOptional(ast.Segments) {
		src, groups := c.synthesizeRegex(p, ast.Segments)
		rx, err := regexp.Compile(src)
		if err != nil {
			// Synthesized regexes are built from quoted literals and
			// fixed group shapes; a failure here is a bug, not user error.
			return nil, c.semanticErr(err, ast.Span, suggestContext{},
				"internal: synthesized regex %q does not compile: %v", src, err)
		}
		p.regex = rx
		p.regexGroups = groups
	}

	p.openapi = buildOpenAPI(p)

	return p, nil
}

// buildParam resolves one path parameter against the registries.
func (c *Compiler) buildParam(p *Pattern, name, typ string, constraints []syntax.Constraint,
	def any, hasDefault bool, transform string, transformArgs []string,
	optional, splat bool, span syntax.Span) (*Param, *CompileError) {
	if _, dup := p.paramsByName[name]; dup {
		return nil, c.semanticErr(ErrDuplicateParam, span,
			suggestContext{name: name},
			"duplicate parameter name %q", name)
	}

	caster, ok := c.types.Resolve(typ)
	if !ok {
		return nil, c.semanticErr(ErrUnknownType, span,
			suggestContext{name: typ},
			"unknown parameter type %q", typ)
	}

	if hasDefault {
		def = normalizeDefault(caster, def)
	}

	param := &Param{
		Index:         len(p.params) + len(p.query),
		Name:          name,
		Type:          typ,
		Default:       def,
		HasDefault:    hasDefault,
		Transform:     transform,
		Optional:      optional,
		Splat:         splat,
		caster:        caster,
		transformArgs: transformArgs,
	}

	var err *CompileError
	param.Constraints, param.validators, err = c.buildValidators(constraints)
	if err != nil {
		return nil, err
	}

	if transform != "" {
		fn, ok := c.transforms.Resolve(transform)
		if !ok {
			return nil, c.semanticErr(ErrUnknownTransform, span,
				suggestContext{name: transform},
				"unknown transform %q", transform)
		}
		param.transform = fn
	}

	return param, nil
}

// normalizeDefault runs a default literal through the parameter's caster
// so «page:int=1» yields the same value type a matched path would. The
// literal is kept as written when the caster rejects it.
func normalizeDefault(caster registry.Caster, def any) any {
	var raw string
	switch v := def.(type) {
	case string:
		raw = v
	case int64:
		raw = strconv.FormatInt(v, 10)
	case float64:
		raw = strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return def
	}

	if value, err := caster(raw); err == nil {
		return value
	}

	return def
}

func (c *Compiler) buildQueryParam(p *Pattern, qp *syntax.QueryParam) (*Param, *CompileError) {
	caster, ok := c.types.Resolve(qp.Type)
	if !ok {
		return nil, c.semanticErr(ErrUnknownType, qp.Pos,
			suggestContext{name: qp.Type},
			"unknown parameter type %q", qp.Type)
	}

	def := qp.Default
	if qp.HasDefault {
		def = normalizeDefault(caster, def)
	}

	param := &Param{
		Index:      len(p.params) + len(p.query),
		Name:       qp.Name,
		Type:       qp.Type,
		Default:    def,
		HasDefault: qp.HasDefault,
		caster:     caster,
	}

	var err *CompileError
	param.Constraints, param.validators, err = c.buildValidators(qp.Constraints)
	if err != nil {
		return nil, err
	}

	return param, nil
}

// buildValidators binds parsed constraints to registry builders.
func (c *Compiler) buildValidators(constraints []syntax.Constraint) ([]ConstraintDoc, []registry.Validator, *CompileError) {
	if len(constraints) == 0 {
		return nil, nil, nil
	}

	docs := make([]ConstraintDoc, 0, len(constraints))
	validators := make([]registry.Validator, 0, len(constraints))

	for _, cons := range constraints {
		opName := cons.Kind.String()
		if cons.Kind == syntax.Predicate {
			opName = cons.Name
		}

		builder, ok := c.constraints.Resolve(opName)
		if !ok {
			return nil, nil, c.semanticErr(ErrUnknownConstraint, cons.Pos,
				suggestContext{name: opName},
				"unknown constraint operator %q", opName)
		}

		v, err := builder(cons.Value)
		if err != nil {
			return nil, nil, c.semanticErr(err, cons.Pos, suggestContext{},
				"invalid constraint %s: %v", opName, err)
		}

		docs = append(docs, ConstraintDoc{
			Kind:      cons.Kind,
			Operator:  opName,
			Value:     cons.Value,
			Predicate: cons.Kind == syntax.Predicate,
		})
		validators = append(validators, v)
	}

	return docs, validators, nil
}

// staticPrefix extracts the longest literal-only leading path, used by the
// matcher for cheap rejection before any per-segment work.
func staticPrefix(segs []syntax.Segment) string {
	if len(segs) == 0 {
		return "/"
	}

	var b strings.Builder
	for _, seg := range segs {
		s, ok := seg.(*syntax.StaticSegment)
		if !ok {
			break
		}
		b.WriteByte('/')
		b.WriteString(s.Value)
	}

	return b.String()
}

func isFullyStatic(segs []syntax.Segment) bool {
	for _, seg := range segs {
		if _, ok := seg.(*syntax.StaticSegment); !ok {
			return false
		}
	}

	return true
}

// containsOptional scans top-level segments only: a nested group is always
// reachable through its top-level ancestor.
func containsOptional(segs []syntax.Segment) bool {
	for _, seg := range segs {
		if _, ok := seg.(*syntax.OptionalGroup); ok {
			return true
		}
	}

	return false
}

// synthesizeRegex builds an anchored regex for patterns containing optional
// groups, where linear segment walking cannot express absence cheaply.
// Capture groups are unnamed (parameter names are not restricted to valid
// regex group names); groups maps submatch index order to parameters.
func (c *Compiler) synthesizeRegex(p *Pattern, segs []syntax.Segment) (string, []*Param) {
	var b strings.Builder
	var groups []*Param

	var emitSegs func(segs []syntax.Segment)
	emitSegs = func(segs []syntax.Segment) {
		for _, seg := range segs {
			switch s := seg.(type) {
			case *syntax.StaticSegment:
				b.WriteString("/")
				b.WriteString(regexp.QuoteMeta(s.Value))
			case *syntax.ParamSegment:
				b.WriteString("/([^/]+)")
				groups = append(groups, p.paramsByName[s.Name])
			case *syntax.SplatSegment:
				b.WriteString("/(.+)")
				groups = append(groups, p.paramsByName[s.Name])
			case *syntax.OptionalGroup:
				b.WriteString("(?:")
				emitSegs(s.Segments)
				b.WriteString(")?")
			}
		}
	}
	emitSegs(segs)

	body := b.String()
	if body == "" {
		body = "/"
	}

	return "^" + body + "$", groups
}
