package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

const (
	andToken = " and "
	orToken  = " or "
)

// Parse turns a filter string into an Expr.
//
// The expression is split on whichever of " and " / " or " occurs first in
// the string; the two never mix with precedence. A single term parses to
// its Compare or Call node directly.
func Parse(input string) (Expr, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	andIdx := strings.Index(trimmed, andToken)
	orIdx := strings.Index(trimmed, orToken)

	switch {
	case andIdx >= 0 && (orIdx < 0 || andIdx < orIdx):
		terms, err := parseTerms(strings.Split(trimmed, andToken))
		if err != nil {
			return nil, err
		}
		return And{Terms: terms}, nil
	case orIdx >= 0:
		terms, err := parseTerms(strings.Split(trimmed, orToken))
		if err != nil {
			return nil, err
		}
		return Or{Terms: terms}, nil
	default:
		return parseTerm(trimmed)
	}
}

func parseTerms(raw []string) ([]Expr, error) {
	terms := make([]Expr, 0, len(raw))
	for _, r := range raw {
		term, err := parseTerm(strings.TrimSpace(r))
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func parseTerm(term string) (Expr, error) {
	if term == "" {
		return nil, fmt.Errorf("empty filter term")
	}
	for _, name := range []Func{FuncStartsWith, FuncEndsWith, FuncContains} {
		prefix := string(name) + "("
		if strings.HasPrefix(term, prefix) && strings.HasSuffix(term, ")") {
			return parseCall(name, term[len(prefix):len(term)-1])
		}
	}
	return parseComparison(term)
}

func parseCall(name Func, inner string) (Expr, error) {
	path, rawLiteral, found := strings.Cut(inner, ",")
	if !found {
		return nil, fmt.Errorf("%s: expected %s(path,literal)", name, name)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%s: empty path", name)
	}
	return Call{
		Name:    name,
		Path:    path,
		Literal: parseLiteral(strings.TrimSpace(rawLiteral)),
	}, nil
}

func parseComparison(term string) (Expr, error) {
	parts := strings.SplitN(term, " ", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed comparison %q: expected path OP literal", term)
	}
	op := Op(parts[1])
	switch op {
	case OpEq, OpNe, OpGt, OpGe, OpLt, OpLe:
	default:
		return nil, fmt.Errorf("unknown operator %q in %q", parts[1], term)
	}
	return Compare{
		Path:    parts[0],
		Op:      op,
		Literal: parseLiteral(strings.TrimSpace(parts[2])),
	}, nil
}

// parseLiteral decodes a literal token: single-quoted → string,
// numeric-looking → number, true/false → bool, anything else → the raw
// token as a string.
func parseLiteral(token string) entity.Value {
	if len(token) >= 2 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		return entity.String(token[1 : len(token)-1])
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return entity.Number(f)
	}
	switch token {
	case "true":
		return entity.Bool(true)
	case "false":
		return entity.Bool(false)
	}
	return entity.String(token)
}
