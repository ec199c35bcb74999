package filter

import "github.com/rvegajr/ez-api-mocker-sub000/internal/entity"

// Expr represents a parsed filter expression.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern enables exhaustive type switches in the
// evaluator.
//
// Expression types:
//   - And: every term must hold
//   - Or: at least one term must hold
//   - Compare: path OP literal
//   - Call: builtin string function over a path and literal
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Op is a comparison operator.
type Op string

// Comparison operators, OData spelling.
const (
	OpEq Op = "eq"
	OpNe Op = "ne"
	OpGt Op = "gt"
	OpGe Op = "ge"
	OpLt Op = "lt"
	OpLe Op = "le"
)

// Func is a builtin string function name.
type Func string

// Builtin string functions.
const (
	FuncStartsWith Func = "startswith"
	FuncEndsWith   Func = "endswith"
	FuncContains   Func = "contains"
)

// And holds when every term holds.
type And struct {
	Terms []Expr
}

func (And) exprNode() {}

// Or holds when at least one term holds.
type Or struct {
	Terms []Expr
}

func (Or) exprNode() {}

// Compare applies a comparison operator to a property path and a literal.
// Path may use "/" for nested access; a missing segment evaluates to null.
type Compare struct {
	Path    string
	Op      Op
	Literal entity.Value
}

func (Compare) exprNode() {}

// Call applies a builtin string function to a property path and a literal.
type Call struct {
	Name    Func
	Path    string
	Literal entity.Value
}

func (Call) exprNode() {}
