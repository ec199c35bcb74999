package filter

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

func items(t *testing.T, srcs ...string) []*entity.Object {
	t.Helper()
	out := make([]*entity.Object, 0, len(srcs))
	for _, src := range srcs {
		obj, err := entity.DecodeObject([]byte(src))
		require.NoError(t, err)
		out = append(out, obj)
	}
	return out
}

func ids(objs []*entity.Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.StringField("id"))
	}
	return out
}

func TestApply_PriceGreaterThan(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())
	in := items(t,
		`{"id":"a","price":10.99}`,
		`{"id":"b","price":24.99}`,
		`{"id":"c","price":49.99}`,
	)

	got := e.Apply("price gt 20", in)
	assert.Equal(t, []string{"b", "c"}, ids(got), "relative order must be preserved")
}

func TestApply_Idempotent(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())
	in := items(t,
		`{"id":"a","price":10}`,
		`{"id":"b","price":30}`,
		`{"id":"c","price":50}`,
	)

	once := e.Apply("price gt 20", in)
	twice := e.Apply("price gt 20", once)
	assert.Equal(t, ids(once), ids(twice))
	assert.LessOrEqual(t, len(once), len(in))
}

func TestApply_UnparseableFilterKeepsEverything(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())
	in := items(t, `{"id":"a"}`, `{"id":"b"}`)

	got := e.Apply("price !!! 20", in)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestApply_EvalFailureKeepsItem(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())
	// startswith against a numeric field errors per item; fail-open keeps it.
	in := items(t,
		`{"id":"a","name":"widget"}`,
		`{"id":"b","name":42}`,
		`{"id":"c","name":"wing"}`,
	)

	got := e.Apply("startswith(name,'wi')", in)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestEval_Comparisons(t *testing.T) {
	item := items(t, `{"price":25,"name":"widget","active":true,"address":{"city":"Oslo"}}`)[0]

	tests := []struct {
		expr string
		want bool
	}{
		{"price gt 20", true},
		{"price gt 25", false},
		{"price ge 25", true},
		{"price lt 30", true},
		{"price le 24", false},
		{"price eq 25", true},
		{"price ne 25", false},
		{"name eq 'widget'", true},
		{"name ne 'gadget'", true},
		{"active eq true", true},
		{"address/city eq 'Oslo'", true},
		{"address/zip eq '1234'", false}, // missing → null → not equal
		{"missing gt 5", false},          // null never satisfies ordering
		{"name gt 'alpha'", true},        // string ordering
		{"name gt 25", false},            // mixed types never order
	}
	for _, tt := range tests {
		expr, err := Parse(tt.expr)
		require.NoError(t, err, tt.expr)
		got, err := Eval(expr, item)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, got, tt.expr)
	}
}

func TestEval_Logical(t *testing.T) {
	item := items(t, `{"price":25,"category":"tools"}`)[0]

	expr, err := Parse("price gt 20 and category eq 'tools'")
	require.NoError(t, err)
	got, err := Eval(expr, item)
	require.NoError(t, err)
	assert.True(t, got)

	expr, err = Parse("price gt 100 or category eq 'tools'")
	require.NoError(t, err)
	got, err = Eval(expr, item)
	require.NoError(t, err)
	assert.True(t, got)

	expr, err = Parse("price gt 100 or category eq 'toys'")
	require.NoError(t, err)
	got, err = Eval(expr, item)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEval_Functions(t *testing.T) {
	item := items(t, `{"name":"blue widget"}`)[0]

	tests := []struct {
		expr string
		want bool
	}{
		{"startswith(name,'blue')", true},
		{"startswith(name,'wid')", false},
		{"endswith(name,'widget')", true},
		{"contains(name,'e w')", true},
		{"contains(name,'xyz')", false},
	}
	for _, tt := range tests {
		expr, err := Parse(tt.expr)
		require.NoError(t, err, tt.expr)
		got, err := Eval(expr, item)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, got, tt.expr)
	}
}

func TestEval_FunctionOnMissingFieldErrors(t *testing.T) {
	item := items(t, `{"id":"a"}`)[0]
	expr, err := Parse("startswith(name,'x')")
	require.NoError(t, err)

	_, err = Eval(expr, item)
	assert.Error(t, err, "string function on a missing field is an evaluation failure")
}
