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
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrTransform is returned (wrapped) when a transform cannot be
	// applied to a value.
	ErrTransform = errors.New("cannot apply transform")
)

// Transform post-processes a casted parameter value.
// Transforms that only make sense for strings return non-string values
// unchanged rather than failing, so «n:int@lower» is harmless.
type Transform func(value any, args ...string) (any, error)

// Transforms maps transform names to implementations.
type Transforms struct {
	mu    sync.RWMutex
	funcs map[string]Transform
}

// NewTransforms creates a transform registry with the built-ins:
// lower, upper, trim, title, truncate(n).
func NewTransforms() *Transforms {
	t := &Transforms{funcs: make(map[string]Transform, 8)}

	t.Register("lower", stringTransform(strings.ToLower))
	t.Register("upper", stringTransform(strings.ToUpper))
	t.Register("trim", stringTransform(strings.TrimSpace))
	t.Register("title", stringTransform(titleCase))
	t.Register("truncate", transformTruncate)

	return t
}

// Register adds or replaces a transform under the given name.
func (t *Transforms) Register(name string, fn Transform) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.funcs[name] = fn
}

// Resolve returns the transform registered under name.
func (t *Transforms) Resolve(name string) (Transform, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.funcs[name]

	return fn, ok
}

// Names returns all registered transform names, sorted.
func (t *Transforms) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.funcs))
	for name := range t.funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func stringTransform(fn func(string) string) Transform {
	return func(value any, _ ...string) (any, error) {
		if s, ok := value.(string); ok {
			return fn(s), nil
		}

		return value, nil
	}
}

// titleCase uppercases the first letter of each hyphen- or space-separated
// word. Deliberately simple; locale-aware casing is out of scope.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	boundary := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_':
			boundary = true
			b.WriteRune(r)
		case boundary:
			b.WriteString(strings.ToUpper(string(r)))
			boundary = false
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func transformTruncate(value any, args ...string) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: truncate requires a length argument", ErrTransform)
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: truncate length %q is not a non-negative integer", ErrTransform, args[0])
	}

	if len(s) <= n {
		return s, nil
	}

	return s[:n], nil
}
