package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

func TestProjectItem_NestedSelect(t *testing.T) {
	item, err := entity.DecodeObject([]byte(
		`{"id":"p1","name":"widget","address":{"city":"Oslo","zip":"0150","geo":{"lat":1}}}`))
	require.NoError(t, err)

	out := projectItem(item, splitFields("id,address/city,address/zip"))

	assert.Equal(t, []string{"id", "address"}, out.Keys())
	addr, ok := out.Get("address")
	require.True(t, ok)
	assert.Equal(t, []string{"city", "zip"}, addr.(*entity.Object).Keys())
}

func TestProjectItem_NestedOnScalarParent(t *testing.T) {
	item, err := entity.DecodeObject([]byte(`{"id":"p1","name":"widget"}`))
	require.NoError(t, err)

	out := projectItem(item, splitFields("name/first"))
	assert.Zero(t, out.Len(), "nested select through a scalar yields nothing")
}

func TestProjectItem_DoesNotAliasSource(t *testing.T) {
	item, err := entity.DecodeObject([]byte(`{"id":"p1","tags":["a","b"]}`))
	require.NoError(t, err)

	out := projectItem(item, splitFields("tags"))
	tags, _ := out.Get("tags")
	tags.(entity.Array)[0] = entity.String("mutated")

	original, _ := item.Get("tags")
	assert.Equal(t, entity.String("a"), original.(entity.Array)[0])
}
