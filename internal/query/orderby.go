package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

type orderClause struct {
	field string
	desc  bool
}

// parseOrderBy parses comma-separated "field [asc|desc]" clauses.
// Unknown direction tokens fall back to ascending.
func parseOrderBy(raw string) []orderClause {
	var clauses []orderClause
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		clause := orderClause{field: fields[0]}
		if len(fields) > 1 && strings.EqualFold(fields[1], "desc") {
			clause.desc = true
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// sortItems sorts a copy of items by the orderby clauses, comparing keys
// left to right and stopping at the first unequal key. The sort is stable.
//
// Null (or missing) values always sort last, for ascending and descending
// alike. That asymmetry is observed behavior callers rely on; do not
// normalize it.
func (p *Pipeline) sortItems(items []*entity.Object, raw string) []*entity.Object {
	clauses := parseOrderBy(raw)
	if len(clauses) == 0 {
		return items
	}
	sorted := make([]*entity.Object, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, clause := range clauses {
			cmp := p.compareClause(sorted[i], sorted[j], clause)
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return sorted
}

func (p *Pipeline) compareClause(a, b *entity.Object, clause orderClause) int {
	av := a.Path(clause.field)
	bv := b.Path(clause.field)

	aNull := isNull(av)
	bNull := isNull(bv)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1 // nulls last, direction-independent
	case bNull:
		return -1
	}

	cmp := p.compareValues(av, bv)
	if clause.desc {
		return -cmp
	}
	return cmp
}

// compareValues orders two non-null values: numbers numerically, strings
// via the collator, booleans false-before-true. Mixed or unordered types
// compare equal, which keeps the sort stable.
func (p *Pipeline) compareValues(a, b entity.Value) int {
	switch av := a.(type) {
	case entity.Number:
		bv, ok := b.(entity.Number)
		if !ok {
			return 0
		}
		diff := float64(av) - float64(bv)
		switch {
		case diff < 0:
			return -1
		case diff > 0:
			return 1
		default:
			return 0
		}
	case entity.String:
		bv, ok := b.(entity.String)
		if !ok {
			return 0
		}
		return p.collator.CompareString(string(av), string(bv))
	case entity.Bool:
		bv, ok := b.(entity.Bool)
		if !ok {
			return 0
		}
		switch {
		case !bool(av) && bool(bv):
			return -1
		case bool(av) && !bool(bv):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func isNull(v entity.Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(entity.Null)
	return ok
}

func newCollator() *collate.Collator {
	return collate.New(language.English)
}
