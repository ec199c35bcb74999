package expand

import (
	"strings"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// typeRule is one structural guess: if every field in fields is present,
// the document is assumed to be of the named type.
type typeRule struct {
	name   string
	fields []string
}

// Ordered from most to least specific. This table mirrors the field
// combinations common mock datasets use; it is a fallback, not a schema.
var typeRules = []typeRule{
	{"order", []string{"orderNumber"}},
	{"order", []string{"customerId", "total"}},
	{"product", []string{"sku"}},
	{"product", []string{"price", "name"}},
	{"customer", []string{"email", "name"}},
	{"user", []string{"username"}},
	{"category", []string{"parentCategoryId"}},
}

// guessEntityType makes a structural guess at a document's type by
// looking for well-known field combinations. Returns "" when nothing
// matches.
func guessEntityType(item *entity.Object) string {
	for _, rule := range typeRules {
		if hasAll(item, rule.fields) {
			return rule.name
		}
	}
	return ""
}

func hasAll(item *entity.Object, fields []string) bool {
	for _, f := range fields {
		if _, ok := item.Get(f); !ok {
			return false
		}
	}
	return true
}

// odataTypeName extracts a type name from an "@odata.type" tag such as
// "#Default.Product", lowercasing the final segment.
func odataTypeName(tag string) string {
	if tag == "" {
		return ""
	}
	tag = strings.TrimPrefix(tag, "#")
	if idx := strings.LastIndex(tag, "."); idx >= 0 {
		tag = tag[idx+1:]
	}
	return strings.ToLower(tag)
}
