package query

import (
	"bytes"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/store"
)

func seedProducts(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	for _, src := range []string{
		`{"id":"p1","name":"widget","price":10.99,"category":"tools"}`,
		`{"id":"p2","name":"gadget","price":24.99,"category":"tools"}`,
		`{"id":"p3","name":"doohickey","price":49.99,"category":"toys"}`,
		`{"id":"p4","name":"gizmo","price":31.5,"category":"toys"}`,
		`{"id":"p5","name":"sprocket","price":12,"category":"tools"}`,
	} {
		doc, err := entity.DecodeObject([]byte(src))
		require.NoError(t, err)
		s.Insert("shop", "products", doc, store.InsertOptions{})
	}
	return s
}

func parseQuery(t *testing.T, raw string) Options {
	t.Helper()
	params, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return ParseOptions(params)
}

func resultIDs(env Envelope) []string {
	out := make([]string, 0, len(env.Value))
	for _, item := range env.Value {
		out = append(out, item.StringField("id"))
	}
	return out
}

func newPipeline(t *testing.T) (*Pipeline, *store.Store) {
	t.Helper()
	s := seedProducts(t)
	return New(s, nil, zerolog.Nop()), s
}

func TestQuery_FilterOnly(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "products", parseQuery(t, "$filter=price gt 20"), "")
	assert.Equal(t, []string{"p2", "p3", "p4"}, resultIDs(env))
	assert.Nil(t, env.Count)
	assert.Empty(t, env.NextLink)
}

func TestQuery_CountReflectsPostFilterPrePaging(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "products", parseQuery(t, "$filter=price gt 20&$count=true&$top=1&$skip=0"), "")
	require.NotNil(t, env.Count)
	assert.Equal(t, 3, *env.Count, "count is the filtered size, not the page size")
	assert.Len(t, env.Value, 1)
}

func TestQuery_OrderByGroupsThenDescends(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "products", parseQuery(t, "$orderby=category,price desc"), "")
	// tools (desc by price): p2 24.99, p5 12, p1 10.99; toys: p3 49.99, p4 31.5
	assert.Equal(t, []string{"p2", "p5", "p1", "p3", "p4"}, resultIDs(env))
}

func TestQuery_OrderByIsStableAndIdempotent(t *testing.T) {
	p, _ := newPipeline(t)
	first := p.Query("shop", "products", parseQuery(t, "$orderby=category"), "")
	second := p.Query("shop", "products", parseQuery(t, "$orderby=category"), "")
	assert.Equal(t, resultIDs(first), resultIDs(second))
	// Ties keep insertion order: p1, p2, p5 are all "tools".
	assert.Equal(t, []string{"p1", "p2", "p5", "p3", "p4"}, resultIDs(first))
}

func TestQuery_NullsSortLastBothDirections(t *testing.T) {
	s := store.New()
	for _, src := range []string{
		`{"id":"a","rank":2}`,
		`{"id":"b"}`,
		`{"id":"c","rank":1}`,
		`{"id":"d","rank":null}`,
	} {
		doc, err := entity.DecodeObject([]byte(src))
		require.NoError(t, err)
		s.Insert("shop", "things", doc, store.InsertOptions{})
	}
	p := New(s, nil, zerolog.Nop())

	asc := p.Query("shop", "things", parseQuery(t, "$orderby=rank"), "")
	assert.Equal(t, []string{"c", "a", "b", "d"}, resultIDs(asc))

	desc := p.Query("shop", "things", parseQuery(t, "$orderby=rank desc"), "")
	assert.Equal(t, []string{"a", "c", "b", "d"}, resultIDs(desc),
		"nulls stay last even descending")
}

func TestQuery_SkipTopBounds(t *testing.T) {
	p, _ := newPipeline(t)
	tests := []struct {
		name    string
		rawOpts string
		wantLen int
	}{
		{"top within range", "$top=3", 3},
		{"top beyond length", "$top=50", 5},
		{"skip within range", "$skip=4", 1},
		{"skip beyond length", "$skip=10", 0},
		{"skip then top", "$skip=2&$top=2", 2},
		{"negative top ignored", "$top=-1", 5},
		{"non-numeric skip ignored", "$skip=abc", 5},
		{"zero top", "$top=0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := p.Query("shop", "products", parseQuery(t, tt.rawOpts), "")
			assert.Len(t, env.Value, tt.wantLen)
		})
	}
}

func TestQuery_NextLink(t *testing.T) {
	p, _ := newPipeline(t)
	base := "/api/shop/products"

	env := p.Query("shop", "products", parseQuery(t, "$skip=0&$top=2"), base)
	assert.Equal(t, "/api/shop/products?$skip=2&$top=2", env.NextLink)

	// Last page: no link.
	env = p.Query("shop", "products", parseQuery(t, "$skip=4&$top=2"), base)
	assert.Empty(t, env.NextLink)

	// Only top, no skip: no link.
	env = p.Query("shop", "products", parseQuery(t, "$top=2"), base)
	assert.Empty(t, env.NextLink)

	// Only skip, no top: no link.
	env = p.Query("shop", "products", parseQuery(t, "$skip=2"), base)
	assert.Empty(t, env.NextLink)
}

func TestQuery_SelectProjection(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "products", parseQuery(t, "$select=id,name,missing"), "")
	require.NotEmpty(t, env.Value)
	for _, item := range env.Value {
		assert.Equal(t, []string{"id", "name"}, item.Keys(), "unknown keys silently omitted")
	}
}

func TestQuery_SelectIsFixedPoint(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "products", parseQuery(t, "$select=id,name"), "")
	again := projectItems(env.Value, "id,name")
	for i := range env.Value {
		assert.True(t, entity.Equal(env.Value[i], again[i]))
	}
}

func TestQuery_EmptyResultValueIsNotNull(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "products", parseQuery(t, "$filter=price gt 1000"), "")
	require.NotNil(t, env.Value)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":[]}`, string(data))
}

func TestQuery_UnknownCollection(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "nothing", Options{}, "")
	assert.Empty(t, env.Value)
}

func TestQuery_GoldenEnvelope(t *testing.T) {
	p, _ := newPipeline(t)
	env := p.Query("shop", "products",
		parseQuery(t, "$filter=price gt 20&$orderby=category,price desc&$count=true&$skip=0&$top=2"),
		"/api/shop/products")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	require.NoError(t, enc.Encode(env))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "products_query", buf.Bytes())
}
