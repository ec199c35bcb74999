package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

func TestParse_SingleComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Expr
	}{
		{
			name:  "numeric literal",
			input: "price gt 20",
			want:  Compare{Path: "price", Op: OpGt, Literal: entity.Number(20)},
		},
		{
			name:  "quoted string literal",
			input: "name eq 'blue widget'",
			want:  Compare{Path: "name", Op: OpEq, Literal: entity.String("blue widget")},
		},
		{
			name:  "boolean literal",
			input: "active ne false",
			want:  Compare{Path: "active", Op: OpNe, Literal: entity.Bool(false)},
		},
		{
			name:  "unquoted token falls back to string",
			input: "status eq shipped",
			want:  Compare{Path: "status", Op: OpEq, Literal: entity.String("shipped")},
		},
		{
			name:  "nested path",
			input: "address/city eq 'Oslo'",
			want:  Compare{Path: "address/city", Op: OpEq, Literal: entity.String("Oslo")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Functions(t *testing.T) {
	got, err := Parse("startswith(name,'wid')")
	require.NoError(t, err)
	assert.Equal(t, Call{Name: FuncStartsWith, Path: "name", Literal: entity.String("wid")}, got)

	got, err = Parse("contains(description, 'heavy duty')")
	require.NoError(t, err)
	assert.Equal(t, Call{Name: FuncContains, Path: "description", Literal: entity.String("heavy duty")}, got)

	got, err = Parse("endswith(sku,'-X')")
	require.NoError(t, err)
	assert.Equal(t, Call{Name: FuncEndsWith, Path: "sku", Literal: entity.String("-X")}, got)
}

func TestParse_LogicalSplit(t *testing.T) {
	got, err := Parse("price gt 20 and category eq 'tools'")
	require.NoError(t, err)
	and, ok := got.(And)
	require.True(t, ok)
	require.Len(t, and.Terms, 2)

	got, err = Parse("status eq 'new' or status eq 'open'")
	require.NoError(t, err)
	or, ok := got.(Or)
	require.True(t, ok)
	require.Len(t, or.Terms, 2)
}

// Mixed and/or splits on whichever operator token occurs first - a
// documented flat-grammar limitation, asserted here so nobody "fixes" it
// into real precedence by accident.
func TestParse_MixedOperatorsSplitOnFirstToken(t *testing.T) {
	got, err := Parse("a eq 1 and b eq 2 or c eq 3")
	require.NoError(t, err)
	and, ok := got.(And)
	require.True(t, ok, "and occurs first, so the whole expression splits on and")
	require.Len(t, and.Terms, 2)
	// The or-clause is swallowed into the second term's literal.
	second, ok := and.Terms[1].(Compare)
	require.True(t, ok)
	assert.Equal(t, entity.String("2 or c eq 3"), second.Literal)
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"price",
		"price gt",
		"price between 1",
		"startswith(name)",
	} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}
