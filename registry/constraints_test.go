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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildValidator(t *testing.T, name string, arg any) Validator {
	t.Helper()

	c := NewConstraints()
	builder, ok := c.Resolve(name)
	require.True(t, ok)

	v, err := builder(arg)
	require.NoError(t, err)

	return v
}

func TestMinOnNumbers(t *testing.T) {
	t.Parallel()

	v := buildValidator(t, "min", int64(10))

	assert.True(t, v(10, "10"))
	assert.True(t, v(50, "50"))
	assert.False(t, v(9, "9"))
	assert.True(t, v(10.5, "10.5"))
}

func TestMaxOnNumbers(t *testing.T) {
	t.Parallel()

	v := buildValidator(t, "max", int64(100))

	assert.True(t, v(100, "100"))
	assert.False(t, v(101, "101"))
}

func TestMinMaxOnStringLength(t *testing.T) {
	t.Parallel()

	minV := buildValidator(t, "min", int64(3))
	maxV := buildValidator(t, "max", int64(5))

	assert.True(t, minV("abc", "abc"))
	assert.False(t, minV("ab", "ab"))
	assert.True(t, maxV("abcde", "abcde"))
	assert.False(t, maxV("abcdef", "abcdef"))
}

func TestMinMaxOnSliceLength(t *testing.T) {
	t.Parallel()

	v := buildValidator(t, "min", int64(2))

	assert.True(t, v([]string{"a", "b"}, "a/b"))
	assert.False(t, v([]string{"a"}, "a"))
}

func TestMinOnTime(t *testing.T) {
	t.Parallel()

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v := buildValidator(t, "min", float64(cutoff.Unix()))

	assert.True(t, v(cutoff.AddDate(0, 1, 0), ""))
	assert.False(t, v(cutoff.AddDate(0, -1, 0), ""))
}

func TestMinRejectsNonNumericArg(t *testing.T) {
	t.Parallel()

	c := NewConstraints()
	builder, ok := c.Resolve("min")
	require.True(t, ok)

	_, err := builder("ten")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraintValue)
}

func TestRegexConstraint(t *testing.T) {
	t.Parallel()

	v := buildValidator(t, "re", "[a-z]+-[0-9]+")

	assert.True(t, v(nil, "post-42"))
	assert.False(t, v(nil, "Post-42"))
	// Anchored to the whole value, not a substring.
	assert.False(t, v(nil, "xx post-42 yy"))
}

func TestRegexConstraintLookahead(t *testing.T) {
	t.Parallel()

	// regexp2 accepts PCRE-style lookarounds that RE2 rejects.
	v := buildValidator(t, "re", `(?=.*\d)[a-z\d]+`)

	assert.True(t, v(nil, "abc1"))
	assert.False(t, v(nil, "abc"))
}

func TestRegexConstraintInvalid(t *testing.T) {
	t.Parallel()

	c := NewConstraints()
	builder, ok := c.Resolve("re")
	require.True(t, ok)

	_, err := builder("[unclosed")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegexInvalid)
}

func TestEnumConstraintUsesRawValue(t *testing.T) {
	t.Parallel()

	v := buildValidator(t, "in", []string{"dev", "prod"})

	// The raw path text decides membership, whatever the casted value is.
	assert.True(t, v("anything", "dev"))
	assert.False(t, v("dev", "DEV"))
	assert.False(t, v(nil, "staging"))
}

func TestEnumConstraintRequiresValues(t *testing.T) {
	t.Parallel()

	c := NewConstraints()
	builder, ok := c.Resolve("in")
	require.True(t, ok)

	_, err := builder([]string{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraintValue)
}

func TestRegisterPredicate(t *testing.T) {
	t.Parallel()

	c := NewConstraints()
	c.Register("even", func(_ any) (Validator, error) {
		return func(value any, _ string) bool {
			n, ok := value.(int)

			return ok && n%2 == 0
		}, nil
	})

	builder, ok := c.Resolve("even")
	require.True(t, ok)

	v, err := builder(nil)
	require.NoError(t, err)
	assert.True(t, v(4, "4"))
	assert.False(t, v(3, "3"))
}

func TestConstraintNamesSorted(t *testing.T) {
	t.Parallel()

	names := NewConstraints().Names()
	assert.Equal(t, []string{"in", "max", "min", "re"}, names)
}
