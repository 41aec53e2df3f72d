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

import "fmt"

// ErrKind distinguishes lexical failures from grammar violations.
type ErrKind uint8

const (
	// KindLex marks failures raised while scanning the raw source:
	// malformed numeric literals and unterminated strings.
	KindLex ErrKind = iota + 1

	// KindSyntax marks grammar violations raised by the parser:
	// missing delimiters, unexpected tokens, missing required values.
	KindSyntax
)

// Code classifies an error precisely enough for repair tooling to propose
// a fix without parsing the message text.
type Code uint8

const (
	CodeNone Code = iota
	CodeMalformedNumber
	CodeUnterminatedString
	CodeMissingSlash
	CodeMissingParamClose
	CodeMissingBracketClose
	CodeMissingParenClose
	CodeMissingName
	CodeMissingValue
	CodeUnexpectedToken
)

// Error is a structured tokenizer or parser failure.
// It always carries the span of the offending source text.
type Error struct {
	Kind    ErrKind
	Code    Code
	Message string
	Span    Span
}

// Error implements the error interface in "line:column: message" form.
func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

// errf builds an *Error with a formatted message.
func errf(kind ErrKind, code Code, span Span, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}
