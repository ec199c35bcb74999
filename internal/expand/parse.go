package expand

import "strings"

// term is one requested navigation property with its optional nested
// $expand expression.
type term struct {
	name   string
	nested string
}

const nestedPrefix = "$expand="

// parseExpand splits a comma-separated $expand expression into terms,
// honoring parentheses: "orders($expand=customer),tags" is two terms, the
// first carrying nested expression "customer".
func parseExpand(raw string) []term {
	var terms []term
	for _, part := range splitTopLevel(raw) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rest, hasParen := strings.Cut(part, "(")
		t := term{name: strings.TrimSpace(name)}
		if hasParen && strings.HasSuffix(rest, ")") {
			inner := rest[:len(rest)-1]
			if strings.HasPrefix(inner, nestedPrefix) {
				t.nested = inner[len(nestedPrefix):]
			}
		}
		if t.name != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// splitTopLevel splits on commas that are not inside parentheses.
func splitTopLevel(raw string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, raw[start:])
}
