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

import (
	"strconv"
	"strings"
)

// Parse converts a pattern source string into a PatternAST by recursive
// descent over the token stream.
//
// Grammar (informal EBNF):
//
//	pattern     := "/" component ("/" component)* ["?" query]
//	component   := (static | param | splat | optional)+
//	param       := OPEN IDENT [":" IDENT] ["|" constraint ("|" constraint)*]
//	               ["=" literal] ["@" IDENT ["(" args ")"]] CLOSE
//	optional    := "[" ["/"] component ("/" component)* "]"
//	splat       := "*" IDENT [":" IDENT]
//	constraint  := "min=" NUMBER | "max=" NUMBER | "re=" STRING
//	             | "in=(" value ("," value)* ")" | IDENT ":" (STRING|IDENT)
//	query       := qparam ("&" qparam)*
//	qparam      := IDENT [":" IDENT] ["|" constraint]* ["=" literal]
//
// Parsing is a pure function: the same input always produces an identical
// AST, spans included. Syntax violations raise a structured *Error with the
// offending span; the parser never attempts silent recovery.
func Parse(src string, opts ...Option) (*PatternAST, error) {
	toks, err := Tokenize(src, opts...)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks}
	ast, perr := p.parsePattern()
	if perr != nil {
		return nil, perr
	}

	return ast, nil
}

type parser struct {
	src  string
	toks []Token
	i    int
}

func (p *parser) cur() Token {
	return p.toks[p.i]
}

func (p *parser) at(k Kind) bool {
	return p.toks[p.i].Kind == k
}

func (p *parser) next() Token {
	tok := p.toks[p.i]
	if tok.Kind != EOF {
		p.i++
	}

	return tok
}

// expect consumes a token of the given kind or fails with a syntax error.
func (p *parser) expect(k Kind, code Code, what string) (Token, *Error) {
	if !p.at(k) {
		return Token{}, errf(KindSyntax, code, p.cur().Span,
			"%s expected, found %s", what, p.describe(p.cur()))
	}

	return p.next(), nil
}

func (p *parser) describe(tok Token) string {
	if tok.Kind == EOF {
		return "end of pattern"
	}

	return tok.Kind.String()
}

func (p *parser) parsePattern() (*PatternAST, *Error) {
	ast := &PatternAST{
		Raw:  p.src,
		Span: Span{Start: 0, End: len(p.src), Line: 1, Column: 1},
	}

	if !p.at(Slash) {
		return nil, errf(KindSyntax, CodeMissingSlash, p.cur().Span,
			"pattern must start with '/'")
	}

	for p.at(Slash) {
		p.next()

		if p.at(EOF) || p.at(Question) {
			// Trailing slash, or the root pattern "/".
			break
		}
		if p.at(Slash) {
			return nil, errf(KindSyntax, CodeUnexpectedToken, p.cur().Span,
				"empty path segment")
		}

		segs, err := p.parseComponent()
		if err != nil {
			return nil, err
		}
		if len(segs) == 0 {
			return nil, errf(KindSyntax, CodeUnexpectedToken, p.cur().Span,
				"path segment expected, found %s", p.describe(p.cur()))
		}
		ast.Segments = append(ast.Segments, segs...)
	}

	if p.at(Question) {
		p.next()
		if err := p.parseQuery(ast); err != nil {
			return nil, err
		}
	}

	if !p.at(EOF) {
		return nil, errf(KindSyntax, CodeUnexpectedToken, p.cur().Span,
			"unexpected %s", p.describe(p.cur()))
	}

	return ast, nil
}

// parseComponent parses one slash-delimited component. A component is a
// sequence of elements; adjacent static runs are merged into a single
// StaticSegment.
func (p *parser) parseComponent() ([]Segment, *Error) {
	var segs []Segment

	appendStatic := func(tok Token) {
		if len(segs) > 0 {
			if prev, ok := segs[len(segs)-1].(*StaticSegment); ok {
				prev.Value += tok.Value
				prev.Pos = prev.Pos.Extend(tok.Span)

				return
			}
		}
		segs = append(segs, &StaticSegment{Value: tok.Value, Pos: tok.Span})
	}

	for {
		switch p.cur().Kind {
		case Ident, Number, Text:
			appendStatic(p.next())
		case ParamOpen:
			seg, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case Star:
			seg, err := p.parseSplat()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case LBracket:
			seg, err := p.parseOptional()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		default:
			return segs, nil
		}
	}
}

func (p *parser) parseParam() (*ParamSegment, *Error) {
	open := p.next() // ParamOpen

	name, err := p.expect(Ident, CodeMissingName, "parameter name")
	if err != nil {
		return nil, err
	}

	seg := &ParamSegment{Name: name.Value, Type: "str"}

	if p.at(Colon) {
		p.next()
		typ, terr := p.expect(Ident, CodeMissingName, "parameter type")
		if terr != nil {
			return nil, terr
		}
		seg.Type = typ.Value
	}

	for p.at(Pipe) {
		p.next()
		c, cerr := p.parseConstraint()
		if cerr != nil {
			return nil, cerr
		}
		seg.Constraints = append(seg.Constraints, c)
	}

	if p.at(Equal) {
		p.next()
		val, verr := p.parseLiteral()
		if verr != nil {
			return nil, verr
		}
		seg.Default = val
		seg.HasDefault = true
	}

	if p.at(At) {
		p.next()
		tname, terr := p.expect(Ident, CodeMissingName, "transform name")
		if terr != nil {
			return nil, terr
		}
		seg.Transform = tname.Value

		if p.at(LParen) {
			p.next()
			args, aerr := p.parseArgList()
			if aerr != nil {
				return nil, aerr
			}
			seg.TransformArgs = args
		}
	}

	closing, cerr := p.expect(ParamClose, CodeMissingParamClose,
		"closing parameter delimiter")
	if cerr != nil {
		return nil, cerr
	}

	seg.Pos = open.Span.Extend(closing.Span)

	return seg, nil
}

// parseArgList parses a parenthesized, comma-separated list of literal
// arguments, consuming the closing paren.
func (p *parser) parseArgList() ([]string, *Error) {
	var args []string
	for {
		switch p.cur().Kind {
		case Ident, Number, String, Text:
			args = append(args, p.next().Value)
		default:
			return nil, errf(KindSyntax, CodeMissingValue, p.cur().Span,
				"argument expected, found %s", p.describe(p.cur()))
		}

		if p.at(Comma) {
			p.next()

			continue
		}

		break
	}

	if _, err := p.expect(RParen, CodeMissingParenClose, "')'"); err != nil {
		return nil, err
	}

	return args, nil
}

// parseConstraint parses one constraint clause after a '|'.
//
// The operator name decides the kind; the argument arrives either as
// "=literal", as ":value" (the predicate form), or as "=(v1,v2,...)" for
// enums. Operator/value compatibility is checked by the compiler, not here.
func (p *parser) parseConstraint() (Constraint, *Error) {
	op, err := p.expect(Ident, CodeMissingName, "constraint name")
	if err != nil {
		return Constraint{}, err
	}

	c := Constraint{Name: op.Value, Pos: op.Span}
	switch op.Value {
	case "min":
		c.Kind = Min
	case "max":
		c.Kind = Max
	case "re":
		c.Kind = Regex
	case "in":
		c.Kind = Enum
	default:
		c.Kind = Predicate
	}

	if c.Kind == Enum {
		if _, eerr := p.expect(Equal, CodeMissingValue, "'='"); eerr != nil {
			return Constraint{}, eerr
		}
		if _, perr := p.expect(LParen, CodeMissingValue, "'('"); perr != nil {
			return Constraint{}, perr
		}

		var vals []string
		for {
			switch p.cur().Kind {
			case Ident, Number, String, Text:
				vals = append(vals, p.next().Value)
			default:
				return Constraint{}, errf(KindSyntax, CodeMissingValue, p.cur().Span,
					"enum value expected, found %s", p.describe(p.cur()))
			}

			if p.at(Comma) {
				p.next()

				continue
			}

			break
		}

		closing, perr := p.expect(RParen, CodeMissingParenClose, "')'")
		if perr != nil {
			return Constraint{}, perr
		}
		c.Value = vals
		c.Pos = op.Span.Extend(closing.Span)

		return c, nil
	}

	switch {
	case p.at(Equal):
		p.next()
		val, verr := p.parseLiteral()
		if verr != nil {
			return Constraint{}, verr
		}
		c.Value = val
		c.Pos = op.Span.Extend(p.toks[p.i-1].Span)
	case p.at(Colon):
		p.next()
		switch p.cur().Kind {
		case String, Ident, Number:
			arg := p.next()
			c.Value = arg.Value
			c.Pos = op.Span.Extend(arg.Span)
		default:
			return Constraint{}, errf(KindSyntax, CodeMissingValue, p.cur().Span,
				"predicate argument expected, found %s", p.describe(p.cur()))
		}
	default:
		return Constraint{}, errf(KindSyntax, CodeMissingValue, p.cur().Span,
			"constraint %q requires a value", op.Value)
	}

	return c, nil
}

// parseLiteral parses a default-value literal: a number, a quoted string,
// true/false, null, or a bare identifier (taken as a string).
func (p *parser) parseLiteral() (any, *Error) {
	switch p.cur().Kind {
	case Number:
		tok := p.next()
		if strings.Contains(tok.Value, ".") {
			f, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return nil, errf(KindLex, CodeMalformedNumber, tok.Span,
					"malformed number %q", tok.Value)
			}

			return f, nil
		}
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, errf(KindLex, CodeMalformedNumber, tok.Span,
				"malformed number %q", tok.Value)
		}

		return n, nil
	case String:
		return p.next().Value, nil
	case Ident:
		tok := p.next()
		switch tok.Value {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null", "nil":
			return nil, nil
		}

		return tok.Value, nil
	default:
		return nil, errf(KindSyntax, CodeMissingValue, p.cur().Span,
			"literal value expected, found %s", p.describe(p.cur()))
	}
}

func (p *parser) parseSplat() (*SplatSegment, *Error) {
	star := p.next() // Star

	name, err := p.expect(Ident, CodeMissingName, "splat name")
	if err != nil {
		return nil, err
	}

	seg := &SplatSegment{Name: name.Value, Type: "path"}
	seg.Pos = star.Span.Extend(name.Span)

	if p.at(Colon) {
		p.next()
		typ, terr := p.expect(Ident, CodeMissingName, "splat type")
		if terr != nil {
			return nil, terr
		}
		seg.Type = typ.Value
		seg.Pos = seg.Pos.Extend(typ.Span)
	}

	return seg, nil
}

// parseOptional parses a bracketed group. Slashes inside the brackets
// separate components exactly as they do at top level, so patterns like
// "/docs[/«lang:str»]" nest naturally.
func (p *parser) parseOptional() (*OptionalGroup, *Error) {
	lb := p.next() // LBracket
	g := &OptionalGroup{}

	for {
		if p.at(RBracket) {
			break
		}
		if p.at(EOF) {
			return nil, errf(KindSyntax, CodeMissingBracketClose, lb.Span,
				"missing ']' closing optional group")
		}
		if p.at(Slash) {
			p.next()

			continue
		}

		segs, err := p.parseComponent()
		if err != nil {
			return nil, err
		}
		if len(segs) == 0 {
			return nil, errf(KindSyntax, CodeUnexpectedToken, p.cur().Span,
				"unexpected %s in optional group", p.describe(p.cur()))
		}
		g.Segments = append(g.Segments, segs...)
	}

	closing := p.next() // RBracket

	if len(g.Segments) == 0 {
		return nil, errf(KindSyntax, CodeUnexpectedToken, closing.Span,
			"empty optional group")
	}

	g.Pos = lb.Span.Extend(closing.Span)

	return g, nil
}

func (p *parser) parseQuery(ast *PatternAST) *Error {
	for {
		name, err := p.expect(Ident, CodeMissingName, "query parameter name")
		if err != nil {
			return err
		}

		qp := QueryParam{Name: name.Value, Type: "str", Pos: name.Span}

		if p.at(Colon) {
			p.next()
			typ, terr := p.expect(Ident, CodeMissingName, "query parameter type")
			if terr != nil {
				return terr
			}
			qp.Type = typ.Value
			qp.Pos = qp.Pos.Extend(typ.Span)
		}

		for p.at(Pipe) {
			p.next()
			c, cerr := p.parseConstraint()
			if cerr != nil {
				return cerr
			}
			qp.Constraints = append(qp.Constraints, c)
			qp.Pos = qp.Pos.Extend(c.Pos)
		}

		if p.at(Equal) {
			p.next()
			val, verr := p.parseLiteral()
			if verr != nil {
				return verr
			}
			qp.Default = val
			qp.HasDefault = true
			qp.Pos = qp.Pos.Extend(p.toks[p.i-1].Span)
		}

		ast.Query = append(ast.Query, qp)

		if p.at(Ampersand) {
			p.next()

			continue
		}

		return nil
	}
}
