// Package filter parses and evaluates $filter expressions.
//
// The grammar is deliberately flat:
//
//	expr       := term ((" and " | " or ") term)*
//	term       := comparison | functionCall
//	comparison := path OP literal            OP ∈ eq ne gt ge lt le
//	functionCall := name "(" path "," literal ")"   name ∈ startswith endswith contains
//
// An expression is split on whichever logical operator token appears first
// in the string; "and" and "or" have no relative precedence. This is a
// known limitation carried over intentionally - callers depend on the
// observable behavior, so it must not be silently upgraded to real
// precedence.
//
// Evaluation is fail-open: a parse or evaluation failure never drops an
// item. The failing item is included and a diagnostic is logged, so a mock
// never hides caller-visible data behind a broken filter.
package filter
