package query

import (
	"strings"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// projectItems applies a $select field list to every item, producing
// objects that contain only the requested keys. One level of nesting is
// supported via "parent/child". Unknown keys are silently omitted.
// Selecting the same field list twice is a fixed point.
func projectItems(items []*entity.Object, rawSelect string) []*entity.Object {
	fields := splitFields(rawSelect)
	if len(fields) == 0 {
		return items
	}
	out := make([]*entity.Object, len(items))
	for i, item := range items {
		out[i] = projectItem(item, fields)
	}
	return out
}

func splitFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

func projectItem(item *entity.Object, fields []string) *entity.Object {
	out := entity.NewObject()
	for _, field := range fields {
		parent, child, nested := strings.Cut(field, "/")
		if !nested {
			if v, ok := item.Get(field); ok {
				out.Set(field, entity.Clone(v))
			}
			continue
		}

		source, ok := item.Get(parent)
		if !ok {
			continue
		}
		sourceObj, ok := source.(*entity.Object)
		if !ok {
			continue
		}
		v, ok := sourceObj.Get(child)
		if !ok {
			continue
		}
		target := ensureChildObject(out, parent)
		target.Set(child, entity.Clone(v))
	}
	return out
}

// ensureChildObject returns out[key] as an object, creating it when the
// key is new. Several parent/child selections share one nested object.
func ensureChildObject(out *entity.Object, key string) *entity.Object {
	if existing, ok := out.Get(key); ok {
		if obj, isObj := existing.(*entity.Object); isObj {
			return obj
		}
	}
	obj := entity.NewObject()
	out.Set(key, obj)
	return obj
}
