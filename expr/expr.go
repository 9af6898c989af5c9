// Package expr models the filter and index-key expressions the planner
// matches against each other: a small tagged variant instead of the
// class hierarchy the planner's source language would use for this.
package expr

import "fmt"

// ValueType is the SQL scalar type of an expression's result.
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeBigInt
	TypeInteger
	TypeSmallInt
	TypeDouble
	TypeDecimal
	TypeVarchar
	TypeTimestamp
	TypeBoolean
)

// ExactlyRepresents reports whether a value of type other can be stored
// in a column of type t without loss of precision. Indexes never accept
// a lossy cast.
func (t ValueType) ExactlyRepresents(other ValueType) bool {
	if t == other {
		return true
	}
	switch t {
	case TypeBigInt:
		return other == TypeInteger || other == TypeSmallInt
	case TypeInteger:
		return other == TypeSmallInt
	case TypeDouble:
		return other == TypeInteger || other == TypeSmallInt
	case TypeDecimal:
		return other == TypeBigInt || other == TypeInteger || other == TypeSmallInt
	default:
		return false
	}
}

// Op is a comparison operator. The set is fixed and closed.
type Op int

const (
	EQ Op = iota
	GT
	GTE
	LT
	LTE
	LIKE
)

func (o Op) String() string {
	switch o {
	case EQ:
		return "="
	case GT:
		return ">"
	case GTE:
		return ">="
	case LT:
		return "<"
	case LTE:
		return "<="
	case LIKE:
		return "LIKE"
	default:
		return "?"
	}
}

// Reverse returns the operator to use when a comparison's operands are
// swapped: a pure function replacing the mutable static map approach.
func (o Op) Reverse() Op {
	switch o {
	case GT:
		return LT
	case GTE:
		return LTE
	case LT:
		return GT
	case LTE:
		return GTE
	default:
		// EQ and LIKE are self-reversing.
		return o
	}
}

// Kind tags the variant held by an Expression.
type Kind int

const (
	KindTupleValue Kind = iota
	KindConstant
	KindParameter
	KindComparison
	KindArithmeticOther
)

// Expression is a tagged variant over the filter/index-key expression
// shapes. Only the fields relevant to Kind are populated; callers
// switch on Kind before reading them.
type Expression struct {
	Kind Kind

	// TupleValue
	Table      string
	ColumnID   int
	ColumnName string

	// Constant
	Value        any
	PrefixPattern bool // true when Value is a LIKE pattern with a literal prefix

	// Parameter
	ParamIndex int
	Original   *Expression // the constant this parameter was bound from, if known

	// Comparison
	Op          Op
	Left, Right *Expression

	// ArithmeticOrOther
	FuncName string
	Children []*Expression

	valType ValueType
}

// ValueType reports the SQL scalar type this expression evaluates to.
func (e *Expression) ValueType() ValueType {
	if e == nil {
		return TypeUnknown
	}
	return e.valType
}

// WithValueType returns a shallow copy of e with its value-type set.
// Constructors use this instead of exposing a mutable setter, keeping
// expressions safe to share by reference once built.
func (e Expression) WithValueType(vt ValueType) *Expression {
	e.valType = vt
	return &e
}

// TupleValue constructs a column-reference expression.
func TupleValue(table string, columnID int, columnName string, vt ValueType) *Expression {
	return (&Expression{Kind: KindTupleValue, Table: table, ColumnID: columnID, ColumnName: columnName}).WithValueType(vt)
}

// Constant constructs a literal value expression.
func Constant(v any, vt ValueType, prefixPattern bool) *Expression {
	return (&Expression{Kind: KindConstant, Value: v, PrefixPattern: prefixPattern}).WithValueType(vt)
}

// Parameter constructs a bind-parameter placeholder, optionally
// remembering the constant it was substituted from.
func Parameter(index int, original *Expression, vt ValueType) *Expression {
	return (&Expression{Kind: KindParameter, ParamIndex: index, Original: original}).WithValueType(vt)
}

// Comparison constructs a binary comparison expression.
func Comparison(op Op, left, right *Expression) *Expression {
	return (&Expression{Kind: KindComparison, Op: op, Left: left, Right: right}).WithValueType(TypeBoolean)
}

// ArithmeticOrOther constructs a generic n-ary expression (function
// calls, arithmetic) opaque to the matcher beyond its child list.
func ArithmeticOrOther(funcName string, vt ValueType, children ...*Expression) *Expression {
	return (&Expression{Kind: KindArithmeticOther, FuncName: funcName, Children: children}).WithValueType(vt)
}

// ReverseComparison returns a fresh comparison with operands swapped and
// the operator reversed. The original nodes are never mutated: the new
// node references the same Left/Right pointers in swapped position.
func ReverseComparison(c *Expression) *Expression {
	if c == nil || c.Kind != KindComparison {
		return c
	}
	return Comparison(c.Op.Reverse(), c.Right, c.Left)
}

// TupleValues returns every TupleValue sub-expression reachable from e,
// used by the normalizer to test independence from a table.
func TupleValues(e *Expression) []*Expression {
	var out []*Expression
	var walk func(*Expression)
	walk = func(n *Expression) {
		if n == nil {
			return
		}
		switch n.Kind {
		case KindTupleValue:
			out = append(out, n)
		case KindComparison:
			walk(n.Left)
			walk(n.Right)
		case KindArithmeticOther:
			for _, c := range n.Children {
				walk(c)
			}
		case KindParameter:
			walk(n.Original)
		}
	}
	walk(e)
	return out
}

// IndependentOf reports whether e contains no TupleValue referencing
// table T.
func IndependentOf(e *Expression, table string) bool {
	for _, tv := range TupleValues(e) {
		if tv.Table == table {
			return false
		}
	}
	return true
}

// And folds a list of expressions into a single conjunction,
// skipping nils. Returns nil for an empty list and the lone element
// unwrapped for a single-element list, so a zero- or one-predicate
// post-filter never grows a spurious AND wrapper.
func And(exprs ...*Expression) *Expression {
	filtered := make([]*Expression, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return ArithmeticOrOther("AND", TypeBoolean, filtered...)
	}
}

// String renders a compact debug form, e.g. "t.a = $1".
func (e *Expression) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindTupleValue:
		return fmt.Sprintf("%s.%s", e.Table, e.ColumnName)
	case KindConstant:
		return fmt.Sprintf("%v", e.Value)
	case KindParameter:
		return fmt.Sprintf("$%d", e.ParamIndex)
	case KindComparison:
		return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right)
	case KindArithmeticOther:
		return fmt.Sprintf("%s(...)", e.FuncName)
	default:
		return "?"
	}
}
