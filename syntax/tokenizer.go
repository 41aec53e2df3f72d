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
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default parameter delimiters. The pair is configurable via WithDelimiters
// so hosts that prefer ASCII '<' and '>' can opt in; a tokenizer instance
// recognizes exactly one pair, never both.
const (
	DefaultOpenDelimiter  = '«'
	DefaultCloseDelimiter = '»'
)

// Option configures tokenizing and parsing.
type Option func(*config)

type config struct {
	open  rune
	close rune
}

// WithDelimiters sets the parameter delimiter pair.
// Both runes must be distinct from each other and from the structural
// punctuation of the grammar; the default pair is '«' and '»'.
//
// Example:
//
//	ast, err := syntax.Parse("/users/<id:int>", syntax.WithDelimiters('<', '>'))
func WithDelimiters(open, close rune) Option {
	return func(c *config) {
		c.open = open
		c.close = close
	}
}

func newConfig(opts []Option) config {
	c := config{open: DefaultOpenDelimiter, close: DefaultCloseDelimiter}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Tokenize converts a pattern source string into a token stream.
//
// The stream always terminates with an EOF token. Whitespace is skipped
// silently. Runs of characters with no lexical meaning are folded into Text
// tokens rather than rejected, so Tokenize never panics and terminates for
// every input. The only failures are lex-time errors with spans: a malformed
// numeric literal or an unterminated string.
func Tokenize(src string, opts ...Option) ([]Token, error) {
	t := &tokenizer{
		src:  src,
		cfg:  newConfig(opts),
		line: 1,
		col:  1,
	}

	return t.run()
}

type tokenizer struct {
	src  string
	cfg  config
	pos  int
	line int
	col  int
	toks []Token
}

// mark captures the current position as the start of a span.
type mark struct {
	pos  int
	line int
	col  int
}

func (t *tokenizer) here() mark {
	return mark{pos: t.pos, line: t.line, col: t.col}
}

func (t *tokenizer) spanFrom(m mark) Span {
	return Span{Start: m.pos, End: t.pos, Line: m.line, Column: m.col}
}

// advance consumes one rune, tracking line and column.
func (t *tokenizer) advance(r rune, size int) {
	t.pos += size
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
}

func (t *tokenizer) peek() (rune, int) {
	if t.pos >= len(t.src) {
		return 0, 0
	}

	return utf8.DecodeRuneInString(t.src[t.pos:])
}

func (t *tokenizer) emit(kind Kind, value string, m mark) {
	t.toks = append(t.toks, Token{Kind: kind, Value: value, Span: t.spanFrom(m)})
}

func (t *tokenizer) run() ([]Token, error) {
	for {
		r, size := t.peek()
		if size == 0 {
			break
		}

		if unicode.IsSpace(r) {
			t.advance(r, size)

			continue
		}

		m := t.here()

		// Parameter delimiters are checked before fixed punctuation so a
		// host configuring e.g. '<'/'>' shadows nothing in the core set.
		switch r {
		case t.cfg.open:
			t.advance(r, size)
			t.emit(ParamOpen, string(r), m)

			continue
		case t.cfg.close:
			t.advance(r, size)
			t.emit(ParamClose, string(r), m)

			continue
		}

		if kind, ok := punctKind(r); ok {
			t.advance(r, size)
			t.emit(kind, string(r), m)

			continue
		}

		switch {
		case r == '"' || r == '\'':
			if err := t.scanString(r, size, m); err != nil {
				return nil, err
			}
		case unicode.IsDigit(r) || (r == '-' && t.nextIsDigit(size)):
			if err := t.scanNumber(m); err != nil {
				return nil, err
			}
		case unicode.IsLetter(r) || r == '_':
			t.scanIdent(m)
		default:
			t.scanText(m)
		}
	}

	end := t.here()
	t.emit(EOF, "", end)

	return t.toks, nil
}

func punctKind(r rune) (Kind, bool) {
	switch r {
	case '/':
		return Slash, true
	case '[':
		return LBracket, true
	case ']':
		return RBracket, true
	case '(':
		return LParen, true
	case ')':
		return RParen, true
	case '*':
		return Star, true
	case ':':
		return Colon, true
	case '|':
		return Pipe, true
	case '=':
		return Equal, true
	case '@':
		return At, true
	case ',':
		return Comma, true
	case '&':
		return Ampersand, true
	case '?':
		return Question, true
	}

	return 0, false
}

func (t *tokenizer) nextIsDigit(size int) bool {
	if t.pos+size >= len(t.src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.src[t.pos+size:])

	return unicode.IsDigit(r)
}

// scanNumber consumes an integer or fractional literal. A single '.'
// separates the integer and fraction parts; a second '.' or a dangling
// fraction is a lex error.
func (t *tokenizer) scanNumber(m mark) *Error {
	if r, size := t.peek(); r == '-' {
		t.advance(r, size)
	}
	t.consumeDigits()

	if r, size := t.peek(); r == '.' {
		t.advance(r, size)
		if r2, _ := t.peek(); !unicode.IsDigit(r2) {
			return errf(KindLex, CodeMalformedNumber, t.spanFrom(m),
				"malformed number %q: expected digits after '.'", t.src[m.pos:t.pos])
		}
		t.consumeDigits()
	}

	// A trailing '.' means something like "1.2.3".
	if r, _ := t.peek(); r == '.' {
		return errf(KindLex, CodeMalformedNumber, t.spanFrom(m),
			"malformed number %q: more than one '.'", t.src[m.pos:t.pos+1])
	}

	t.emit(Number, t.src[m.pos:t.pos], m)

	return nil
}

func (t *tokenizer) consumeDigits() {
	for {
		r, size := t.peek()
		if size == 0 || !unicode.IsDigit(r) {
			return
		}
		t.advance(r, size)
	}
}

// scanString consumes a quoted literal with backslash escaping.
// The emitted token value is the unescaped content.
func (t *tokenizer) scanString(quote rune, size int, m mark) *Error {
	t.advance(quote, size)

	var b strings.Builder
	for {
		r, rsize := t.peek()
		if rsize == 0 {
			return errf(KindLex, CodeUnterminatedString, t.spanFrom(m),
				"unterminated string: missing closing %q", string(quote))
		}

		switch r {
		case quote:
			t.advance(r, rsize)
			t.emit(String, b.String(), m)

			return nil
		case '\\':
			t.advance(r, rsize)
			esc, escSize := t.peek()
			if escSize == 0 {
				return errf(KindLex, CodeUnterminatedString, t.spanFrom(m),
					"unterminated string: missing closing %q", string(quote))
			}
			b.WriteRune(esc)
			t.advance(esc, escSize)
		default:
			b.WriteRune(r)
			t.advance(r, rsize)
		}
	}
}

func (t *tokenizer) scanIdent(m mark) {
	for {
		r, size := t.peek()
		if size == 0 || !isIdentRune(r) {
			break
		}
		t.advance(r, size)
	}

	t.emit(Ident, t.src[m.pos:t.pos], m)
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// scanText folds a run of otherwise-unrecognized characters into a single
// Text token. The run stops at whitespace, punctuation, delimiters, quotes,
// or the start of an identifier or number, so the tokenizer always makes
// progress.
func (t *tokenizer) scanText(m mark) {
	for {
		r, size := t.peek()
		if size == 0 || unicode.IsSpace(r) || r == t.cfg.open || r == t.cfg.close ||
			r == '"' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			break
		}
		if _, ok := punctKind(r); ok {
			break
		}
		t.advance(r, size)
	}

	t.emit(Text, t.src[m.pos:t.pos], m)
}
