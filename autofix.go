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
	"errors"
	"fmt"

	"github.com/schollz/closestmatch"

	"rivaas.dev/pattern/syntax"
)

// Suggestion is one ranked repair proposal attached to a CompileError.
// Replacement, when non-empty, is the text to insert or substitute at
// the error span; Message always describes the repair in prose.
type Suggestion struct {
	Message     string  `json:"message"`
	Replacement string  `json:"replacement,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// suggestContext carries the machine-readable hints a failure site has:
// the syntax error code and/or the offending name.
type suggestContext struct {
	code syntax.Code
	name string
}

// suggestions derives ranked repairs for a compile failure. Syntax codes
// map to concrete insertions; unknown-name failures go through fuzzy
// matching against the relevant registry.
func (c *Compiler) suggestions(ce *CompileError, sctx suggestContext) []Suggestion {
	if s, ok := c.syntaxSuggestion(sctx.code); ok {
		return []Suggestion{s}
	}

	switch {
	case errors.Is(ce, ErrUnknownType):
		return nameSuggestions(sctx.name, c.types.Names(), "type")
	case errors.Is(ce, ErrUnknownConstraint):
		return nameSuggestions(sctx.name, c.constraints.Names(), "constraint")
	case errors.Is(ce, ErrUnknownTransform):
		return nameSuggestions(sctx.name, c.transforms.Names(), "transform")
	case errors.Is(ce, ErrDuplicateParam):
		return []Suggestion{{
			Message:     fmt.Sprintf("rename one occurrence of %q, for example to %q", sctx.name, sctx.name+"2"),
			Replacement: sctx.name + "2",
			Confidence:  0.4,
		}}
	case errors.Is(ce, ErrSplatNotLast):
		return []Suggestion{{
			Message:    "move the splat to the final segment, or replace it with a named parameter",
			Confidence: 0.6,
		}}
	}

	return nil
}

func (c *Compiler) syntaxSuggestion(code syntax.Code) (Suggestion, bool) {
	switch code {
	case syntax.CodeMissingParamClose:
		return Suggestion{
			Message:     fmt.Sprintf("add the closing parameter delimiter %q", string(c.close)),
			Replacement: string(c.close),
			Confidence:  0.9,
		}, true
	case syntax.CodeMissingBracketClose:
		return Suggestion{
			Message:     "close the optional group with ']'",
			Replacement: "]",
			Confidence:  0.9,
		}, true
	case syntax.CodeMissingParenClose:
		return Suggestion{
			Message:     "close the value list with ')'",
			Replacement: ")",
			Confidence:  0.9,
		}, true
	case syntax.CodeUnterminatedString:
		return Suggestion{
			Message:     "terminate the string literal with a matching quote",
			Replacement: `"`,
			Confidence:  0.9,
		}, true
	case syntax.CodeMissingSlash:
		return Suggestion{
			Message:     "patterns start at the path root; insert a leading '/'",
			Replacement: "/",
			Confidence:  0.8,
		}, true
	case syntax.CodeMalformedNumber:
		return Suggestion{
			Message:    "complete the numeric literal (a digit must follow '.' or '-')",
			Confidence: 0.6,
		}, true
	case syntax.CodeMissingName:
		return Suggestion{
			Message:    "supply a name (a letter or '_' followed by letters, digits, '_' or '-')",
			Confidence: 0.5,
		}, true
	case syntax.CodeMissingValue:
		return Suggestion{
			Message:    "supply a value after '='",
			Confidence: 0.5,
		}, true
	}

	return Suggestion{}, false
}

// nameSuggestions fuzzy-matches a misspelled name against the registered
// ones. Confidence tracks edit-distance similarity; wildly dissimilar
// best matches are dropped rather than offered at low confidence.
func nameSuggestions(name string, candidates []string, kind string) []Suggestion {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	// Substring-bag matching catches prefix misspellings; the edit
	// distance scan catches short typos and transpositions that share no
	// n-grams with their target.
	cm := closestmatch.New(candidates, []int{2, 3})
	bagBest := cm.Closest(name)

	best, similarity := bagBest, 0.0
	if best != "" {
		similarity = nameSimilarity(name, best)
	}
	for _, cand := range candidates {
		if sim := nameSimilarity(name, cand); sim > similarity {
			best, similarity = cand, sim
		}
	}

	if similarity < 0.4 {
		return nil
	}

	// When both rankings pick the same candidate, the shared-substring
	// signal corroborates the edit-distance one and lifts confidence.
	confidence := similarity
	if best == bagBest {
		confidence = min(similarity+0.15, 0.95)
	}

	return []Suggestion{{
		Message:     fmt.Sprintf("unknown %s %q; did you mean %q?", kind, name, best),
		Replacement: best,
		Confidence:  confidence,
	}}
}

func nameSimilarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}

	return 1 - float64(editDistance(a, b))/float64(longest)
}

// editDistance is the Damerau-Levenshtein distance: insertions,
// deletions, substitutions, and adjacent transpositions each cost one.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	rows := make([][]int, len(ra)+1)
	for i := range rows {
		rows[i] = make([]int, len(rb)+1)
		rows[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		rows[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := min(rows[i-1][j]+1, rows[i][j-1]+1, rows[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d = min(d, rows[i-2][j-2]+1)
			}
			rows[i][j] = d
		}
	}

	return rows[len(ra)][len(rb)]
}

// ambiguitySuggestions proposes ways to break a specificity tie between
// two patterns that can accept a common path.
func ambiguitySuggestions(existing, added *Pattern) []Suggestion {
	return []Suggestion{
		{
			Message: fmt.Sprintf("distinguish %q from %q with an extra literal segment",
				added.raw, existing.raw),
			Confidence: 0.4,
		},
		{
			Message:    "narrow a parameter with a stronger type or an in=(...) constraint so the scores differ",
			Confidence: 0.35,
		},
	}
}
