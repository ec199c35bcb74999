package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	left, err := DecodeObject([]byte(`{"a":1,"b":{"c":[true,null,"s"]}}`))
	require.NoError(t, err)
	// Same content, different key order: still equal.
	right, err := DecodeObject([]byte(`{"b":{"c":[true,null,"s"]},"a":1}`))
	require.NoError(t, err)

	assert.True(t, Equal(left, right))

	rightB, _ := right.Get("b")
	rightB.(*Object).Set("c", Array{Bool(false)})
	assert.False(t, Equal(left, right))
}

func TestEqual_NullAndNil(t *testing.T) {
	assert.True(t, Equal(nil, Null{}))
	assert.True(t, Equal(Null{}, nil))
	assert.False(t, Equal(Null{}, String("")))
	assert.False(t, Equal(Number(0), Null{}))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"name":  "widget",
		"count": 3,
		"tags":  []any{"a", "b"},
		"meta":  nil,
	})
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	// Map input has no order; keys come out sorted.
	assert.Equal(t, []string{"count", "meta", "name", "tags"}, obj.Keys())
	assert.Equal(t, "widget", obj.StringField("name"))

	count, _ := obj.Get("count")
	assert.Equal(t, Number(3), count)
}

func TestToAny_RoundTrip(t *testing.T) {
	obj, err := DecodeObject([]byte(`{"a":1,"b":[true,null]}`))
	require.NoError(t, err)

	back := ToAny(obj)
	m, ok := back.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), m["a"])
	assert.Equal(t, []any{true, nil}, m["b"])
}

func TestMarshal_Scalars(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Null{}, "null"},
		{nil, "null"},
		{Bool(true), "true"},
		{Number(2.5), "2.5"},
		{String("hi"), `"hi"`},
		{Array{Number(1), String("x")}, `[1,"x"]`},
	}
	for _, tt := range tests {
		out, err := Marshal(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(out))
	}
}
