package filter

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// Evaluator applies parsed filter expressions to documents.
type Evaluator struct {
	log zerolog.Logger
}

// NewEvaluator returns an Evaluator that logs fail-open diagnostics to log.
func NewEvaluator(log zerolog.Logger) *Evaluator {
	return &Evaluator{log: log}
}

// Apply filters items by the raw filter string, fail-open.
//
// If the expression does not parse, every item is included and one
// diagnostic is logged. If evaluation fails for a single item, that item
// is included and a diagnostic logged. Relative order is always preserved,
// and the result is never longer than the input.
func (e *Evaluator) Apply(raw string, items []*entity.Object) []*entity.Object {
	expr, err := Parse(raw)
	if err != nil {
		e.log.Warn().Err(err).Str("filter", raw).
			Msg("unparseable $filter, keeping all items")
		return items
	}

	out := make([]*entity.Object, 0, len(items))
	for _, item := range items {
		keep, err := Eval(expr, item)
		if err != nil {
			e.log.Warn().Err(err).Str("filter", raw).
				Str("id", item.StringField("id")).
				Msg("filter evaluation failed, keeping item")
			keep = true
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// Eval evaluates expr against a single document.
// Errors indicate the expression could not be applied to this document;
// callers decide the policy (the Evaluator keeps the item).
func Eval(expr Expr, item *entity.Object) (bool, error) {
	switch node := expr.(type) {
	case And:
		for _, term := range node.Terms {
			ok, err := Eval(term, item)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case Or:
		for _, term := range node.Terms {
			ok, err := Eval(term, item)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Compare:
		return evalCompare(node, item), nil
	case Call:
		return evalCall(node, item)
	default:
		return false, fmt.Errorf("unknown expression node %T", expr)
	}
}

// evalCompare never errors: comparing a null or mismatched type is an
// ordinary false (for ordering operators) rather than a failure, matching
// loose dynamic-language comparison semantics.
func evalCompare(node Compare, item *entity.Object) bool {
	v := item.Path(node.Path)

	switch node.Op {
	case OpEq:
		return entity.Equal(v, node.Literal)
	case OpNe:
		return !entity.Equal(v, node.Literal)
	}

	// Ordering operators: numbers compare numerically, strings
	// lexically. Null and mixed types never satisfy an ordering.
	cmp, comparable := orderValues(v, node.Literal)
	if !comparable {
		return false
	}
	switch node.Op {
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	}
	return false
}

func orderValues(a, b entity.Value) (int, bool) {
	switch av := a.(type) {
	case entity.Number:
		bv, ok := b.(entity.Number)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case entity.String:
		bv, ok := b.(entity.String)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	default:
		return 0, false
	}
}

// evalCall errors when the target value is not a string, which fail-opens
// the item at the caller.
func evalCall(node Call, item *entity.Object) (bool, error) {
	v := item.Path(node.Path)
	target, ok := v.(entity.String)
	if !ok {
		return false, fmt.Errorf("%s(%s): value is %T, not a string", node.Name, node.Path, v)
	}
	literal, ok := node.Literal.(entity.String)
	if !ok {
		return false, fmt.Errorf("%s(%s): literal is %T, not a string", node.Name, node.Path, node.Literal)
	}

	s, sub := string(target), string(literal)
	switch node.Name {
	case FuncStartsWith:
		return strings.HasPrefix(s, sub), nil
	case FuncEndsWith:
		return strings.HasSuffix(s, sub), nil
	case FuncContains:
		return strings.Contains(s, sub), nil
	default:
		return false, fmt.Errorf("unknown function %q", node.Name)
	}
}
