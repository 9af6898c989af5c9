// Package order decides whether an index's key order satisfies a
// SELECT statement's ORDER BY, tentatively tagging the access path
// with a sort direction.
package order

import (
	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/planshape"
	"github.com/nullable-labs/subplanner/statement"
)

// Result is the outcome of an order-determination attempt: a tentative
// sort direction and the bindings its expression-index key components
// required.
type Result struct {
	Direction planshape.SortDirection
	Bindings  []*expr.Expression
}

// none is returned whenever ORDER BY can't be satisfied by this key, or
// doesn't apply: sort direction none, no bindings.
var none = Result{Direction: planshape.SortNone, Bindings: planshape.EmptyBindings()}

// Determine checks the given table, index key, and statement. It is
// only meaningful for SELECT statements; isSelect false always yields
// none.
func Determine(table string, key []catalog.KeyComponent, isSelect bool, orderBy []statement.OrderByItem) Result {
	if !isSelect {
		return none
	}
	m := len(orderBy)
	k := len(key)
	if m == 0 || m > k {
		return none
	}

	ascending := orderBy[0].Ascending
	var bindings []*expr.Expression

	for i, item := range orderBy {
		if item.Ascending != ascending {
			return none
		}
		comp := key[i]
		if comp.IsExpression() {
			b, ok := expr.BindToIndexedExpression(item.Expr, comp.Expression)
			if !ok {
				return none
			}
			bindings = planshape.AppendBinding(bindings, b...)
			continue
		}
		if item.Expr.Kind != expr.KindTupleValue {
			return none
		}
		if item.Expr.Table != table || comp.Column == nil || item.Expr.ColumnName != comp.Column.Name {
			return none
		}
	}

	dir := planshape.SortAscending
	if !ascending {
		dir = planshape.SortDescending
	}
	if bindings == nil {
		bindings = planshape.EmptyBindings()
	}
	return Result{Direction: dir, Bindings: bindings}
}
