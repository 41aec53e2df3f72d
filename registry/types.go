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
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCast is returned (wrapped) by casters when a raw value cannot be
	// converted to the target type.
	ErrCast = errors.New("cannot cast value")
)

// Caster converts a raw path or query string into a typed value.
type Caster func(raw string) (any, error)

// Types maps type names to casters. A registry is populated with the
// built-in types at construction and is open to external registration;
// register custom types at startup, before sharing the registry with
// compilers on other goroutines.
type Types struct {
	mu      sync.RWMutex
	casters map[string]Caster
	strong  map[string]bool
}

// NewTypes creates a type registry with the built-in casters:
//
//	str, string   identity (weak)
//	int           base-10 integer (strong)
//	float         float64 (strong)
//	bool          strconv.ParseBool syntax (strong)
//	uuid          canonicalized RFC 4122 UUID string (strong)
//	date          RFC 3339 full-date, yields time.Time (strong)
//	datetime      RFC 3339 date-time, yields time.Time (strong)
//	slug          lowercase hyphenated token (strong)
//	path          identity, the default splat type (weak)
//	list          '/'-separated splat segments as []string (weak)
//
// Strong types rank higher in specificity scoring than plain strings.
func NewTypes() *Types {
	t := &Types{
		casters: make(map[string]Caster, 16),
		strong:  make(map[string]bool, 8),
	}

	t.Register("str", castString)
	t.Register("string", castString)
	t.RegisterStrong("int", castInt)
	t.RegisterStrong("float", castFloat)
	t.RegisterStrong("bool", castBool)
	t.RegisterStrong("uuid", castUUID)
	t.RegisterStrong("date", castDate)
	t.RegisterStrong("datetime", castDateTime)
	t.RegisterStrong("slug", castSlug)
	t.Register("path", castString)
	t.Register("list", castList)

	return t
}

// Register adds or replaces a caster under the given name.
func (t *Types) Register(name string, c Caster) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.casters[name] = c
	delete(t.strong, name)
}

// RegisterStrong adds or replaces a caster whose values have enough
// structure (numeric, uuid-like, enumerable) that a parameter of this type
// should outrank a plain string parameter during specificity scoring.
func (t *Types) RegisterStrong(name string, c Caster) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.casters[name] = c
	t.strong[name] = true
}

// Resolve returns the caster registered under name.
func (t *Types) Resolve(name string) (Caster, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.casters[name]

	return c, ok
}

// Strong reports whether the named type counts as strong for specificity.
func (t *Types) Strong(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.strong[name]
}

// Names returns all registered type names, sorted.
func (t *Types) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.casters))
	for name := range t.casters {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func castString(raw string) (any, error) {
	return raw, nil
}

func castInt(raw string) (any, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrCast, raw)
	}

	return n, nil
}

func castFloat(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrCast, raw)
	}

	return f, nil
}

func castBool(raw string) (any, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrCast, raw)
	}

	return b, nil
}

func castUUID(raw string) (any, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a uuid", ErrCast, raw)
	}

	return u.String(), nil
}

func castDate(raw string) (any, error) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a date", ErrCast, raw)
	}

	return d, nil
}

func castDateTime(raw string) (any, error) {
	d, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a datetime", ErrCast, raw)
	}

	return d, nil
}

func castSlug(raw string) (any, error) {
	if raw == "" || !isSlug(raw) {
		return nil, fmt.Errorf("%w: %q is not a slug", ErrCast, raw)
	}

	return raw, nil
}

func isSlug(s string) bool {
	prevHyphen := true // leading hyphen is invalid
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			prevHyphen = false
		case r == '-':
			if prevHyphen {
				return false
			}
			prevHyphen = true
		default:
			return false
		}
	}

	return !prevHyphen
}

func castList(raw string) (any, error) {
	if raw == "" {
		return []string{}, nil
	}

	return strings.Split(raw, "/"), nil
}
