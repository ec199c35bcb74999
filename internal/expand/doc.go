// Package expand resolves $expand navigation properties into embedded
// related documents.
//
// Resolution is descriptor-first: when configuration supplies a
// relationship descriptor for (collection, navigation property), it names
// the relation kind, target collection, and foreign-key field explicitly.
// Without a descriptor, the resolver falls back to naming conventions:
//
//   - belongs-to: the document carries "<singular(nav)>Id", pointing into
//     the pluralized target collection;
//   - has-many: documents in the target collection carry
//     "<entityType>Id" equal to this document's id, where the entity type
//     comes from an explicit "entityType"/"@odata.type" field or, failing
//     that, a structural guess over well-known field combinations. The
//     guess is fragile by nature; descriptors are the supported path.
//
// Nested expansion ("orders($expand=customer)") recurses against the
// resolved documents. Anything unresolvable - unknown property, unknown
// collection, missing foreign key - yields omission, never an error, in
// keeping with the engine's fail-open stance.
package expand
