// Package query implements the OData-style query pipeline over store
// collections.
//
// A request's recognized options ($select, $filter, $orderby, $top, $skip,
// $count, $expand) are parsed into Options and applied in a fixed stage
// order:
//
//	filter → count snapshot → orderby → skip → top → select → expand
//
// The order is load-bearing: @odata.count reflects the post-filter,
// pre-paging size; sorting precedes paging so pages are stable; projection
// runs after paging to avoid wasted work but before expand augments the
// projected shape.
//
// Two ordering quirks are carried over deliberately and must not change
// without a product decision: string comparison is collator-based
// (locale-aware), and null values sort last regardless of asc/desc.
package query
