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

	"rivaas.dev/pattern/syntax"
)

// ErrorKind places a compile failure in the error taxonomy.
type ErrorKind string

const (
	// KindLex marks malformed literals and unterminated strings,
	// raised while scanning the raw source.
	KindLex ErrorKind = "lex"

	// KindSyntax marks grammar violations: missing delimiters,
	// unexpected tokens, missing required values.
	KindSyntax ErrorKind = "syntax"

	// KindSemantic marks failures detected only after a syntactically
	// valid AST exists: duplicate names, unknown types, invalid
	// constraint values, uncompilable regexes.
	KindSemantic ErrorKind = "semantic"

	// KindAmbiguity marks two patterns with identical specificity that
	// could both match some input, reported at pattern-set construction.
	KindAmbiguity ErrorKind = "ambiguity"
)

// CompileError is a structured diagnostic for a failed compile.
// It carries the span of the offending source, the file the pattern came
// from when known, and ranked repair suggestions when suggestion
// generation is enabled. Suggestions are advisory text, never auto-applied.
type CompileError struct {
	Kind        ErrorKind
	Message     string
	Span        syntax.Span
	File        string
	Suggestions []Suggestion

	err error // wrapped sentinel or underlying error
}

// Error implements the error interface in "file:line:column: message" form.
func (e *CompileError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Span.Line, e.Span.Column, e.Message)
	}

	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

// Unwrap exposes the wrapped sentinel so callers can test with errors.Is,
// e.g. errors.Is(err, pattern.ErrDuplicateParam).
func (e *CompileError) Unwrap() error {
	return e.err
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagCompileFailed is emitted for every failed compile.
	DiagCompileFailed DiagnosticKind = "compile_failed"

	// DiagAmbiguityRejected is emitted when a matcher rejects a pattern
	// whose specificity ties an existing pattern.
	DiagAmbiguityRejected DiagnosticKind = "ambiguity_rejected"

	// DiagCacheEvicted is emitted when the compile cache evicts an entry,
	// whether by capacity pressure or TTL expiry.
	DiagCacheEvicted DiagnosticKind = "cache_evicted"
)

// DiagnosticEvent is an informational event about compilation or matching.
// Events are optional: everything functions identically whether they are
// collected or not. They exist so hosts can surface configuration problems
// through their own logging or metrics.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticHandler receives diagnostic events.
// Implementations may log, emit metrics, or ignore them.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := pattern.DiagnosticHandlerFunc(func(e pattern.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	c := pattern.MustNew(pattern.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

// emit sends a diagnostic event to the handler if one is set.
func emit(h DiagnosticHandler, kind DiagnosticKind, message string, fields map[string]any) {
	if h == nil {
		return
	}
	h.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
}
