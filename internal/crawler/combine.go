package crawler

import (
	"time"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// itemKeys are the envelope keys an item array may live under, checked in
// order.
var itemKeys = []string{"value", "items", "data", "results", "records"}

// continuationKeys are pagination markers stripped from the combined
// response: the combined result is, by construction, the last page.
var continuationKeys = []string{
	"@odata.nextLink", "nextLink", "cursor", "nextCursor",
	"hasMoreItems", "hasMore",
}

// combine folds every successful page into one response whose envelope
// shape mirrors the first page's, annotated with originalPageCount,
// combinedItemCount and a timestamp. A bare-array first page combines
// into {"items": [...]}.
func (c *Crawler) combine(pages []Page) *entity.Object {
	var bodies []entity.Value
	for _, p := range pages {
		if !p.Failed && p.Body != nil {
			bodies = append(bodies, p.Body)
		}
	}
	if len(bodies) == 0 {
		return nil
	}

	var combined *entity.Object
	itemKey := "items"
	allItems := entity.Array{}

	switch first := bodies[0].(type) {
	case *entity.Object:
		combined = first.Clone()
		if key, _, ok := findItems(first); ok {
			itemKey = key
		}
	default:
		combined = entity.NewObject()
	}

	for _, body := range bodies {
		allItems = append(allItems, pageItems(body)...)
	}

	combined.Set(itemKey, allItems)
	for _, key := range continuationKeys {
		combined.Delete(key)
	}
	combined.Set("originalPageCount", entity.Number(len(bodies)))
	combined.Set("combinedItemCount", entity.Number(len(allItems)))
	combined.Set("timestamp", entity.String(c.now().UTC().Format(time.RFC3339)))
	return combined
}

// pageItems extracts a page's item array: the page itself when it is a
// bare array, otherwise the first recognized envelope key.
func pageItems(body entity.Value) entity.Array {
	switch v := body.(type) {
	case entity.Array:
		return v
	case *entity.Object:
		if _, items, ok := findItems(v); ok {
			return items
		}
	}
	return nil
}

func findItems(obj *entity.Object) (string, entity.Array, bool) {
	for _, key := range itemKeys {
		if v, ok := obj.Get(key); ok {
			if arr, isArr := v.(entity.Array); isArr {
				return key, arr, true
			}
		}
	}
	return "", nil, false
}
