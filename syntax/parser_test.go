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

func TestParseStaticAndParam(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/users/«id:int»")
	require.NoError(t, err)
	require.Len(t, ast.Segments, 2)

	static, ok := ast.Segments[0].(*StaticSegment)
	require.True(t, ok)
	assert.Equal(t, "users", static.Value)

	param, ok := ast.Segments[1].(*ParamSegment)
	require.True(t, ok)
	assert.Equal(t, "id", param.Name)
	assert.Equal(t, "int", param.Type)
	assert.False(t, param.HasDefault)
}

func TestParseDefaultParamType(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/«name»")
	require.NoError(t, err)

	param := ast.Segments[0].(*ParamSegment)
	assert.Equal(t, "str", param.Type)
}

func TestParseRootPattern(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/")
	require.NoError(t, err)
	assert.Empty(t, ast.Segments)
}

func TestParseTrailingSlash(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/users/")
	require.NoError(t, err)
	require.Len(t, ast.Segments, 1)
}

func TestParseMergesAdjacentStatics(t *testing.T) {
	t.Parallel()

	// "v1.2" tokenizes as ident, text, number; the component folds them
	// back into one literal.
	ast, err := Parse("/v1.2/docs")
	require.NoError(t, err)
	require.Len(t, ast.Segments, 2)

	static := ast.Segments[0].(*StaticSegment)
	assert.Equal(t, "v1.2", static.Value)
}

func TestParseConstraints(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/items/«id:int|min=1|max=100»")
	require.NoError(t, err)

	param := ast.Segments[1].(*ParamSegment)
	require.Len(t, param.Constraints, 2)

	assert.Equal(t, Min, param.Constraints[0].Kind)
	assert.Equal(t, int64(1), param.Constraints[0].Value)
	assert.Equal(t, Max, param.Constraints[1].Kind)
	assert.Equal(t, int64(100), param.Constraints[1].Value)
}

func TestParseRegexConstraint(t *testing.T) {
	t.Parallel()

	ast, err := Parse(`/«slug|re="[a-z-]+"»`)
	require.NoError(t, err)

	param := ast.Segments[0].(*ParamSegment)
	require.Len(t, param.Constraints, 1)
	assert.Equal(t, Regex, param.Constraints[0].Kind)
	assert.Equal(t, "[a-z-]+", param.Constraints[0].Value)
}

func TestParseEnumConstraint(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/«env|in=(dev,staging,prod)»")
	require.NoError(t, err)

	param := ast.Segments[0].(*ParamSegment)
	require.Len(t, param.Constraints, 1)
	assert.Equal(t, Enum, param.Constraints[0].Kind)
	assert.Equal(t, []string{"dev", "staging", "prod"}, param.Constraints[0].Value)
}

func TestParsePredicateConstraint(t *testing.T) {
	t.Parallel()

	ast, err := Parse(`/«code|checksum:"crc32"»`)
	require.NoError(t, err)

	param := ast.Segments[0].(*ParamSegment)
	require.Len(t, param.Constraints, 1)
	assert.Equal(t, Predicate, param.Constraints[0].Kind)
	assert.Equal(t, "checksum", param.Constraints[0].Name)
	assert.Equal(t, "crc32", param.Constraints[0].Value)
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want any
	}{
		{name: "integer", src: "/«page:int=1»", want: int64(1)},
		{name: "float", src: "/«ratio:float=0.5»", want: 0.5},
		{name: "quoted string", src: `/«name="guest"»`, want: "guest"},
		{name: "bare string", src: "/«name=guest»", want: "guest"},
		{name: "bool true", src: "/«flag:bool=true»", want: true},
		{name: "bool false", src: "/«flag:bool=false»", want: false},
		{name: "null", src: "/«opt=null»", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ast, err := Parse(tt.src)
			require.NoError(t, err)

			param := ast.Segments[0].(*ParamSegment)
			require.True(t, param.HasDefault)
			assert.Equal(t, tt.want, param.Default)
		})
	}
}

func TestParseTransform(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/«name@lower»")
	require.NoError(t, err)

	param := ast.Segments[0].(*ParamSegment)
	assert.Equal(t, "lower", param.Transform)
	assert.Empty(t, param.TransformArgs)
}

func TestParseTransformWithArgs(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/«title@truncate(8)»")
	require.NoError(t, err)

	param := ast.Segments[0].(*ParamSegment)
	assert.Equal(t, "truncate", param.Transform)
	assert.Equal(t, []string{"8"}, param.TransformArgs)
}

func TestParseFullParamClause(t *testing.T) {
	t.Parallel()

	ast, err := Parse(`/«cat:str|in=(a,b)="a"@upper»`)
	require.NoError(t, err)

	param := ast.Segments[0].(*ParamSegment)
	assert.Equal(t, "cat", param.Name)
	assert.Equal(t, "str", param.Type)
	require.Len(t, param.Constraints, 1)
	assert.Equal(t, "a", param.Default)
	assert.Equal(t, "upper", param.Transform)
}

func TestParseSplat(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/files/*filepath")
	require.NoError(t, err)

	splat, ok := ast.Segments[1].(*SplatSegment)
	require.True(t, ok)
	assert.Equal(t, "filepath", splat.Name)
	assert.Equal(t, "path", splat.Type)
}

func TestParseSplatWithType(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/tags/*rest:list")
	require.NoError(t, err)

	splat := ast.Segments[1].(*SplatSegment)
	assert.Equal(t, "list", splat.Type)
}

func TestParseOptionalGroup(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/docs[/«lang»]")
	require.NoError(t, err)
	require.Len(t, ast.Segments, 2)

	group, ok := ast.Segments[1].(*OptionalGroup)
	require.True(t, ok)
	require.Len(t, group.Segments, 1)

	param := group.Segments[0].(*ParamSegment)
	assert.Equal(t, "lang", param.Name)
}

func TestParseNestedOptionalGroups(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/articles[/«category»[/«page:int=1»]]")
	require.NoError(t, err)

	outer := ast.Segments[1].(*OptionalGroup)
	require.Len(t, outer.Segments, 2)

	inner, ok := outer.Segments[1].(*OptionalGroup)
	require.True(t, ok)

	page := inner.Segments[0].(*ParamSegment)
	assert.Equal(t, "page", page.Name)
	assert.True(t, page.HasDefault)
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/search?q&limit:int=20&sort|in=(asc,desc)=asc")
	require.NoError(t, err)
	require.Len(t, ast.Query, 3)

	assert.Equal(t, "q", ast.Query[0].Name)
	assert.Equal(t, "str", ast.Query[0].Type)
	assert.False(t, ast.Query[0].HasDefault)

	assert.Equal(t, "limit", ast.Query[1].Name)
	assert.Equal(t, "int", ast.Query[1].Type)
	assert.Equal(t, int64(20), ast.Query[1].Default)

	assert.Equal(t, "sort", ast.Query[2].Name)
	require.Len(t, ast.Query[2].Constraints, 1)
	assert.Equal(t, "asc", ast.Query[2].Default)
}

func TestParseQueryOnRoot(t *testing.T) {
	t.Parallel()

	ast, err := Parse("/?page:int=1")
	require.NoError(t, err)
	assert.Empty(t, ast.Segments)
	require.Len(t, ast.Query, 1)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		code Code
	}{
		{name: "missing leading slash", src: "users", code: CodeMissingSlash},
		{name: "empty segment", src: "/a//b", code: CodeUnexpectedToken},
		{name: "unterminated param", src: "/«id", code: CodeMissingParamClose},
		{name: "missing param name", src: "/«:int»", code: CodeMissingName},
		{name: "unterminated optional", src: "/docs[/«lang»", code: CodeMissingBracketClose},
		{name: "empty optional", src: "/docs[]", code: CodeUnexpectedToken},
		{name: "constraint without value", src: "/«id:int|min»", code: CodeMissingValue},
		{name: "unterminated enum", src: "/«env|in=(dev»", code: CodeMissingParenClose},
		{name: "missing query name", src: "/search?", code: CodeMissingName},
		{name: "stray closing bracket", src: "/a]b", code: CodeUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.src)
			require.Error(t, err)

			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, KindSyntax, serr.Kind)
			assert.Equal(t, tt.code, serr.Code)
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()

	const src = "/a/«b:int|min=2»[/c]?d:int=3"

	first, err := Parse(src)
	require.NoError(t, err)
	second, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseErrorMessageFormat(t *testing.T) {
	t.Parallel()

	_, err := Parse("/«id")
	require.Error(t, err)
	assert.Regexp(t, `^\d+:\d+: `, err.Error())
}
