package expand

import (
	"github.com/rs/zerolog"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/store"
)

// Relation kinds a descriptor can declare.
const (
	KindBelongsTo = "belongsTo"
	KindHasMany   = "hasMany"
)

// Relationship is an explicit navigation-property descriptor.
// Empty Target and ForeignKey fall back to the naming conventions.
type Relationship struct {
	Kind       string `koanf:"kind" yaml:"kind"`
	Target     string `koanf:"target" yaml:"target"`
	ForeignKey string `koanf:"foreignKey" yaml:"foreignKey"`
}

// Descriptors maps collection name → navigation property → relationship.
type Descriptors map[string]map[string]Relationship

// Resolver resolves navigation properties against a store.
type Resolver struct {
	store       *store.Store
	descriptors Descriptors
	log         zerolog.Logger
}

// NewResolver builds a Resolver. descriptors may be nil, leaving only the
// convention fallback.
func NewResolver(st *store.Store, descriptors Descriptors, log zerolog.Logger) *Resolver {
	return &Resolver{store: st, descriptors: descriptors, log: log}
}

// Expand resolves the expand expression for every item and returns new
// documents with related data embedded. Source documents are never
// mutated. Unresolvable relations leave the item unchanged.
func (r *Resolver) Expand(tenantName, collectionName string, items []*entity.Object, expandExpr string) []*entity.Object {
	terms := parseExpand(expandExpr)
	if len(terms) == 0 {
		return items
	}
	out := make([]*entity.Object, len(items))
	for i, item := range items {
		clone := item.Clone()
		for _, t := range terms {
			r.expandTerm(tenantName, collectionName, clone, t)
		}
		out[i] = clone
	}
	return out
}

func (r *Resolver) expandTerm(tenantName, collectionName string, item *entity.Object, t term) {
	if rel, ok := r.descriptor(collectionName, t.name); ok {
		r.expandDescribed(tenantName, item, t, rel)
		return
	}
	r.expandByConvention(tenantName, collectionName, item, t)
}

func (r *Resolver) descriptor(collectionName, nav string) (Relationship, bool) {
	navs, ok := r.descriptors[collectionName]
	if !ok {
		return Relationship{}, false
	}
	rel, ok := navs[nav]
	return rel, ok
}

// expandDescribed resolves a relation declared by configuration.
func (r *Resolver) expandDescribed(tenantName string, item *entity.Object, t term, rel Relationship) {
	switch rel.Kind {
	case KindBelongsTo:
		target := rel.Target
		if target == "" {
			target = Pluralize(t.name)
		}
		fk := rel.ForeignKey
		if fk == "" {
			fk = Singularize(t.name) + "Id"
		}
		r.embedBelongsTo(tenantName, target, fk, item, t)
	case KindHasMany:
		target := rel.Target
		if target == "" {
			target = t.name
		}
		fk := rel.ForeignKey
		if fk == "" {
			r.log.Debug().Str("nav", t.name).Msg("hasMany descriptor without foreignKey, skipping")
			return
		}
		r.embedHasMany(tenantName, target, fk, item, t)
	default:
		r.log.Debug().Str("nav", t.name).Str("kind", rel.Kind).
			Msg("unknown relationship kind, skipping")
	}
}

// expandByConvention applies the naming-convention fallback described in
// the package comment.
func (r *Resolver) expandByConvention(tenantName, collectionName string, item *entity.Object, t term) {
	fkField := Singularize(t.name) + "Id"
	if _, hasFK := item.Get(fkField); hasFK {
		r.embedBelongsTo(tenantName, Pluralize(t.name), fkField, item, t)
		return
	}

	// Has-many: the navigation name doubles as the target collection.
	entityType := r.entityType(item, collectionName)
	if entityType == "" {
		r.log.Debug().Str("nav", t.name).
			Msg("cannot infer entity type for has-many expand, skipping")
		return
	}
	r.embedHasMany(tenantName, t.name, entityType+"Id", item, t)
}

func (r *Resolver) embedBelongsTo(tenantName, target, fkField string, item *entity.Object, t term) {
	fkValue, ok := item.Get(fkField)
	if !ok {
		return
	}
	id, ok := fkValue.(entity.String)
	if !ok {
		return
	}
	related := r.store.GetByID(tenantName, target, string(id))
	if related == nil {
		return
	}
	embedded := related.Clone()
	if t.nested != "" {
		embedded = r.expandOne(tenantName, target, embedded, t.nested)
	}
	item.Set(t.name, embedded)
}

func (r *Resolver) embedHasMany(tenantName, target, fkField string, item *entity.Object, t term) {
	id := item.StringField(store.FieldID)
	if id == "" {
		return
	}
	// A collection that was never created is an unresolvable relation
	// (omission); an existing-but-empty one embeds an empty array.
	if !r.store.Exists(tenantName, target) {
		return
	}
	matches := r.store.List(tenantName, target, map[string]entity.Value{
		fkField: entity.String(id),
	})
	related := make(entity.Array, 0, len(matches))
	for _, match := range matches {
		embedded := match.Clone()
		if t.nested != "" {
			embedded = r.expandOne(tenantName, target, embedded, t.nested)
		}
		related = append(related, embedded)
	}
	// An empty collection is still a successful resolution.
	item.Set(t.name, related)
}

// expandOne recurses a nested $expand against a single resolved document.
func (r *Resolver) expandOne(tenantName, collectionName string, item *entity.Object, expandExpr string) *entity.Object {
	expanded := r.Expand(tenantName, collectionName, []*entity.Object{item}, expandExpr)
	if len(expanded) != 1 {
		return item
	}
	return expanded[0]
}

// entityType determines the type name used in reverse foreign keys.
// Preference order: explicit "entityType" field, "@odata.type" tag (last
// dot-separated segment, lowercased), structural guess, and finally the
// singular of the collection name.
func (r *Resolver) entityType(item *entity.Object, collectionName string) string {
	if explicit := item.StringField("entityType"); explicit != "" {
		return explicit
	}
	if tagged := odataTypeName(item.StringField("@odata.type")); tagged != "" {
		return tagged
	}
	if guessed := guessEntityType(item); guessed != "" {
		return guessed
	}
	return Singularize(collectionName)
}
