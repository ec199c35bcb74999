package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingularize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"orders", "order"},
		{"categories", "category"},
		{"boxes", "box"},
		{"addresses", "address"},
		{"branches", "branch"},
		{"dishes", "dish"},
		{"customer", "customer"}, // already singular
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Singularize(tt.in), tt.in)
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"order", "orders"},
		{"category", "categories"},
		{"box", "boxes"},
		{"branch", "branches"},
		{"dish", "dishes"},
		{"day", "days"}, // vowel before y
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.in), tt.in)
	}
}

func TestParseExpand(t *testing.T) {
	tests := []struct {
		raw  string
		want []term
	}{
		{"orders", []term{{name: "orders"}}},
		{"orders,customer", []term{{name: "orders"}, {name: "customer"}}},
		{"orders($expand=customer)", []term{{name: "orders", nested: "customer"}}},
		{
			"orders($expand=customer($expand=address)),tags",
			[]term{{name: "orders", nested: "customer($expand=address)"}, {name: "tags"}},
		},
		{" orders , customer ", []term{{name: "orders"}, {name: "customer"}}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseExpand(tt.raw), tt.raw)
	}
}

func TestOdataTypeName(t *testing.T) {
	assert.Equal(t, "product", odataTypeName("#Default.Product"))
	assert.Equal(t, "order", odataTypeName("Shop.Sales.Order"))
	assert.Equal(t, "", odataTypeName(""))
}
