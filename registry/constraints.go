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

package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

var (
	// ErrConstraintValue is returned when a constraint argument is
	// incompatible with its operator, e.g. a non-numeric min.
	ErrConstraintValue = errors.New("constraint value incompatible with operator")

	// ErrRegexInvalid is returned when a user-supplied re= pattern does
	// not compile under the constraint regex engine.
	ErrRegexInvalid = errors.New("regex constraint does not compile")
)

// Validator checks one casted value against one constraint.
// The raw source string is supplied alongside the casted value so textual
// constraints (re=, in=) apply to what actually appeared in the path while
// range constraints apply to the typed value.
type Validator func(value any, raw string) bool

// Builder turns a parsed constraint argument into a Validator.
// The argument is whatever the parser recorded: int64/float64 for min/max,
// string for re and predicate arguments, []string for in=(...).
type Builder func(arg any) (Validator, error)

// Constraints maps operator names to validator builders. The built-in
// operators are min, max, re and in; hosts register named predicates
// through Register, which makes them addressable as «x|name:arg» clauses.
type Constraints struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewConstraints creates a constraint registry with the built-in operators.
func NewConstraints() *Constraints {
	c := &Constraints{builders: make(map[string]Builder, 8)}

	c.Register("min", buildMin)
	c.Register("max", buildMax)
	c.Register("re", buildRegex)
	c.Register("in", buildEnum)

	return c
}

// Register adds or replaces a validator builder under the given operator
// name. Register predicates at startup, before the registry is shared.
func (c *Constraints) Register(name string, b Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builders[name] = b
}

// Resolve returns the builder registered under name.
func (c *Constraints) Resolve(name string) (Builder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.builders[name]

	return b, ok
}

// Names returns all registered operator names, sorted.
func (c *Constraints) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.builders))
	for name := range c.builders {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// numericArg normalizes a parsed min/max argument to float64.
func numericArg(arg any) (float64, bool) {
	switch v := arg.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}

	return 0, false
}

// valueOrdinal maps a casted value onto the axis min/max compare on:
// the value itself for numbers, the length for strings and slices, the
// Unix timestamp for times.
func valueOrdinal(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		return float64(len(v)), true
	case []string:
		return float64(len(v)), true
	case time.Time:
		return float64(v.Unix()), true
	}

	return 0, false
}

func buildMin(arg any) (Validator, error) {
	bound, ok := numericArg(arg)
	if !ok {
		return nil, fmt.Errorf("%w: min requires a number, got %v", ErrConstraintValue, arg)
	}

	return func(value any, _ string) bool {
		ord, ok := valueOrdinal(value)

		return ok && ord >= bound
	}, nil
}

func buildMax(arg any) (Validator, error) {
	bound, ok := numericArg(arg)
	if !ok {
		return nil, fmt.Errorf("%w: max requires a number, got %v", ErrConstraintValue, arg)
	}

	return func(value any, _ string) bool {
		ord, ok := valueOrdinal(value)

		return ok && ord <= bound
	}, nil
}

// buildRegex compiles a user-supplied pattern with regexp2 so PCRE-style
// syntax (lookarounds, backreferences) passes through rather than being
// reinterpreted. The pattern is anchored to the whole value.
func buildRegex(arg any) (Validator, error) {
	src, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("%w: re requires a quoted pattern, got %v", ErrConstraintValue, arg)
	}

	rx, err := regexp2.Compile("^(?:"+src+")$", regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrRegexInvalid, src, err)
	}

	return func(_ any, raw string) bool {
		ok, merr := rx.MatchString(raw)

		return merr == nil && ok
	}, nil
}

func buildEnum(arg any) (Validator, error) {
	vals, ok := arg.([]string)
	if !ok || len(vals) == 0 {
		return nil, fmt.Errorf("%w: in requires a value list", ErrConstraintValue)
	}

	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}

	return func(_ any, raw string) bool {
		_, ok := set[raw]

		return ok
	}, nil
}
