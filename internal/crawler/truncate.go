package crawler

import (
	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// DefaultTruncateLimit bounds a single payload's item count when no limit
// is configured.
const DefaultTruncateLimit = 100

// Truncate caps a payload at max items, independently of pagination
// (e.g. to bound one oversized page).
//
// A bare array longer than max becomes {"items": first max, "_truncated":
// true, "_originalSize": n}. An envelope object has its item array capped
// in place (on a clone) with the same markers added. Prefix order is
// always preserved. Payloads within the limit are returned untouched.
func Truncate(v entity.Value, max int) entity.Value {
	if max <= 0 {
		max = DefaultTruncateLimit
	}
	switch payload := v.(type) {
	case entity.Array:
		if len(payload) <= max {
			return payload
		}
		out := entity.NewObject()
		out.Set("items", payload[:max])
		out.Set("_truncated", entity.Bool(true))
		out.Set("_originalSize", entity.Number(len(payload)))
		return out
	case *entity.Object:
		key, items, ok := findItems(payload)
		if !ok || len(items) <= max {
			return payload
		}
		out := payload.Clone()
		_, cloned, _ := findItems(out)
		out.Set(key, cloned[:max])
		out.Set("_truncated", entity.Bool(true))
		out.Set("_originalSize", entity.Number(len(items)))
		return out
	default:
		return v
	}
}
