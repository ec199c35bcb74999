// Package crawler drains paginated upstream APIs into a single combined
// response, regardless of which pagination convention the API speaks.
//
// Each fetched page runs through an ordered detector chain:
//
//  1. standard envelope  {page, totalPages, ...}
//  2. OData              @odata.count / @odata.nextLink
//  3. cursor envelope    {cursor|nextCursor, hasMoreItems|hasMore}
//  4. HTTP Link header   rel="next"
//
// The priority order is observable behavior for ambiguous responses and
// must stay fixed. Each format supplies its own next-request rule:
// increment the page parameter, follow the nextLink, substitute the
// cursor token, or follow the header URL.
//
// Fetches are strictly sequential - later continuation tokens depend on
// earlier responses - and the loop stops at a configurable page ceiling
// (default 10) even if the server never signals completion. The ceiling is
// the primary safety invariant. A context cancels the crawl between
// fetches.
//
// Truncate is an independent utility bounding any single payload to a
// maximum item count; it is applied separately from pagination.
package crawler
