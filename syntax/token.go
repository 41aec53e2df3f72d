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

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	// EOF terminates every token stream produced by Tokenize.
	EOF Kind = iota

	// Structural punctuation.
	Slash      // /
	ParamOpen  // opening parameter delimiter (configurable, default «)
	ParamClose // closing parameter delimiter (configurable, default »)
	LBracket   // [
	RBracket   // ]
	LParen     // (
	RParen     // )
	Star       // *
	Colon      // :
	Pipe       // |
	Equal      // =
	At         // @
	Comma      // ,
	Ampersand  // &
	Question   // ?

	// Literals and runs.
	Ident  // identifier: letter or _ followed by letters, digits, _ or -
	Number // integer or fractional numeric literal
	String // quoted string literal, value holds the unescaped content
	Text   // run of characters with no other lexical meaning
)

var kindNames = [...]string{
	EOF:        "EOF",
	Slash:      "'/'",
	ParamOpen:  "parameter open delimiter",
	ParamClose: "parameter close delimiter",
	LBracket:   "'['",
	RBracket:   "']'",
	LParen:     "'('",
	RParen:     "')'",
	Star:       "'*'",
	Colon:      "':'",
	Pipe:       "'|'",
	Equal:      "'='",
	At:         "'@'",
	Comma:      "','",
	Ampersand:  "'&'",
	Question:   "'?'",
	Ident:      "identifier",
	Number:     "number",
	String:     "string",
	Text:       "text",
}

// String returns a human-readable name for the kind, used in error messages.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown token"
}

// Token is a single lexical unit of a pattern source string.
// Value holds the token's text; for String tokens it is the unescaped
// content without the surrounding quotes.
type Token struct {
	Kind  Kind
	Value string
	Span  Span
}
