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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestTokenizeBasicPattern(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("/users/«id:int»")
	require.NoError(t, err)

	assert.Equal(t, []Kind{
		Slash, Ident, Slash, ParamOpen, Ident, Colon, Ident, ParamClose, EOF,
	}, kinds(toks))
	assert.Equal(t, "users", toks[1].Value)
	assert.Equal(t, "id", toks[4].Value)
	assert.Equal(t, "int", toks[6].Value)
}

func TestTokenizeCustomDelimiters(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("/users/<id:int>", WithDelimiters('<', '>'))
	require.NoError(t, err)

	assert.Equal(t, []Kind{
		Slash, Ident, Slash, ParamOpen, Ident, Colon, Ident, ParamClose, EOF,
	}, kinds(toks))
}

func TestTokenizeDefaultDelimitersInactiveWhenReplaced(t *testing.T) {
	t.Parallel()

	// With '<'/'>' configured, the guillemets are just unrecognized text.
	toks, err := Tokenize("«id»", WithDelimiters('<', '>'))
	require.NoError(t, err)

	for _, tok := range toks {
		assert.NotEqual(t, ParamOpen, tok.Kind)
		assert.NotEqual(t, ParamClose, tok.Kind)
	}
}

func TestTokenizePunctuation(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("[](|)*:=@,&?")
	require.NoError(t, err)

	assert.Equal(t, []Kind{
		LBracket, RBracket, LParen, Pipe, RParen, Star, Colon, Equal, At,
		Comma, Ampersand, Question, EOF,
	}, kinds(toks))
}

func TestTokenizeNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		value string
	}{
		{name: "integer", src: "42", value: "42"},
		{name: "negative", src: "-7", value: "-7"},
		{name: "fractional", src: "1.5", value: "1.5"},
		{name: "negative fractional", src: "-0.25", value: "-0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			toks, err := Tokenize(tt.src)
			require.NoError(t, err)
			require.Equal(t, Number, toks[0].Kind)
			assert.Equal(t, tt.value, toks[0].Value)
		})
	}
}

func TestTokenizeMalformedNumbers(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"1.", "1.2.3", "-3."} {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			_, err := Tokenize(src)
			require.Error(t, err)

			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, KindLex, serr.Kind)
			assert.Equal(t, CodeMalformedNumber, serr.Code)
		})
	}
}

func TestTokenizeStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		value string
	}{
		{name: "double quoted", src: `"hello"`, value: "hello"},
		{name: "single quoted", src: `'world'`, value: "world"},
		{name: "escaped quote", src: `"a\"b"`, value: `a"b`},
		{name: "escaped backslash", src: `"a\\b"`, value: `a\b`},
		{name: "empty", src: `""`, value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			toks, err := Tokenize(tt.src)
			require.NoError(t, err)
			require.Equal(t, String, toks[0].Kind)
			assert.Equal(t, tt.value, toks[0].Value)
		})
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	t.Parallel()

	_, err := Tokenize(`"abc`)
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindLex, serr.Kind)
	assert.Equal(t, CodeUnterminatedString, serr.Code)
}

func TestTokenizeIdentifiers(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("user-id _x a1")
	require.NoError(t, err)

	require.Len(t, toks, 4) // 3 idents + EOF
	assert.Equal(t, "user-id", toks[0].Value)
	assert.Equal(t, "_x", toks[1].Value)
	assert.Equal(t, "a1", toks[2].Value)
}

func TestTokenizeTextFolding(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("~~~")
	require.NoError(t, err)

	require.Equal(t, Text, toks[0].Kind)
	assert.Equal(t, "~~~", toks[0].Value)
}

func TestTokenizeEmptySource(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, EOF, toks[0].Kind)
}

func TestTokenizeSpans(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("/ab/«x»")
	require.NoError(t, err)

	// "ab" starts at byte 1, column 2.
	assert.Equal(t, 1, toks[1].Span.Start)
	assert.Equal(t, 3, toks[1].Span.End)
	assert.Equal(t, 1, toks[1].Span.Line)
	assert.Equal(t, 2, toks[1].Span.Column)

	// '«' is multi-byte; the following ident span must account for it.
	open := toks[3]
	assert.Equal(t, 4, open.Span.Start)
	assert.Equal(t, 6, open.Span.End)
}
