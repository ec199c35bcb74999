package query

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/filter"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/store"
)

// Expander resolves $expand navigation properties against the store.
// Implemented by the expand package; nil disables expansion.
type Expander interface {
	Expand(tenantName, collectionName string, items []*entity.Object, expandExpr string) []*entity.Object
}

// Pipeline runs parsed Options against a store collection and produces the
// result envelope. It is a pure in-memory computation: no I/O, no
// suspension points, bounded by collection size.
type Pipeline struct {
	store    *store.Store
	eval     *filter.Evaluator
	expander Expander
	collator *collate.Collator
	log      zerolog.Logger
}

// New builds a Pipeline. expander may be nil, in which case $expand is
// ignored.
func New(st *store.Store, expander Expander, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:    st,
		eval:     filter.NewEvaluator(log),
		expander: expander,
		collator: newCollator(),
		log:      log,
	}
}

// Query applies opts to the named collection.
//
// baseURL is the caller's collection URL, used only to format
// @odata.nextLink; the link is emitted only when both $top and $skip were
// supplied and skip+top is still short of the filtered count.
func (p *Pipeline) Query(tenantName, collectionName string, opts Options, baseURL string) Envelope {
	items := p.store.List(tenantName, collectionName, nil)

	if opts.Filter != "" {
		items = p.eval.Apply(opts.Filter, items)
	}

	// Snapshot before paging: @odata.count is the post-filter size.
	filteredCount := len(items)

	if opts.OrderBy != "" {
		items = p.sortItems(items, opts.OrderBy)
	}
	if opts.HasSkip {
		if opts.Skip >= len(items) {
			items = items[:0]
		} else {
			items = items[opts.Skip:]
		}
	}
	if opts.HasTop && opts.Top < len(items) {
		items = items[:opts.Top]
	}
	if opts.Select != "" {
		items = projectItems(items, opts.Select)
	}
	if opts.Expand != "" && p.expander != nil {
		items = p.expander.Expand(tenantName, collectionName, items, opts.Expand)
	}

	env := Envelope{Value: items}
	if env.Value == nil {
		env.Value = []*entity.Object{}
	}
	if opts.Count {
		count := filteredCount
		env.Count = &count
	}
	if opts.HasTop && opts.HasSkip && opts.Skip+opts.Top < filteredCount {
		env.NextLink = fmt.Sprintf("%s?$skip=%d&$top=%d", baseURL, opts.Skip+opts.Top, opts.Top)
	}
	return env
}
