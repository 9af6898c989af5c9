// Package normalize takes a comparison filter and a description of
// what is indexed, and orients the comparison so the indexed side is
// on the left, or rejects it.
package normalize

import (
	"github.com/pkg/errors"

	"github.com/nullable-labs/subplanner/expr"
)

// ErrInapplicable means neither side of the comparison matches the
// indexed target, or both sides reference the scanned table.
var ErrInapplicable = errors.New("normalize: comparison does not target the indexed expression")

// ErrPrecision means the indexed side's value-type cannot exactly
// represent the other side's value-type; accepting the comparison
// would require a lossy cast, which no index is allowed to perform.
var ErrPrecision = errors.New("normalize: indexed type cannot exactly represent operand type")

// Target describes what a key component indexes: either a column id
// (simple index) or an arbitrary expression (expression index). Exactly
// one of Expression or (Table, ColumnID) applies.
type Target struct {
	Table     string
	ColumnID  int
	ValueType expr.ValueType

	// Expression is non-nil for an expression-index component; when set
	// it takes priority over ColumnID.
	Expression *expr.Expression
}

func (t Target) matches(side *expr.Expression) ([]*expr.Expression, bool) {
	if t.Expression != nil {
		return expr.BindToIndexedExpression(side, t.Expression)
	}
	if side == nil || side.Kind != expr.KindTupleValue {
		return nil, false
	}
	if side.Table != t.Table || side.ColumnID != t.ColumnID {
		return nil, false
	}
	return nil, true
}

// Normalize orients comparison F so its left operand matches target T
// and its right operand is independent of T.Table, reversing the
// operator and swapping operands when the match is on the right.
// Returns ErrInapplicable or ErrPrecision on failure.
func Normalize(f *expr.Expression, table string, t Target) (*expr.Expression, []*expr.Expression, error) {
	if f == nil || f.Kind != expr.KindComparison {
		return nil, nil, ErrInapplicable
	}
	l, r := f.Left, f.Right

	if bindings, ok := t.matches(l); ok && expr.IndependentOf(r, table) {
		if !t.ValueType.ExactlyRepresents(r.ValueType()) {
			return nil, nil, ErrPrecision
		}
		return f, bindings, nil
	}

	if bindings, ok := t.matches(r); ok && expr.IndependentOf(l, table) {
		if !t.ValueType.ExactlyRepresents(l.ValueType()) {
			return nil, nil, ErrPrecision
		}
		return expr.ReverseComparison(f), bindings, nil
	}

	return nil, nil, ErrInapplicable
}
